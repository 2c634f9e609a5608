package solenoid

import (
	"chainprinter-go/pkg/line"
)

// Target is the state a column's solenoid must reach before it fires.
type Target struct {
	// Source is the column whose alignment this target derives from. It
	// is the previous column when two '1's share an alignment.
	Source   int
	Position int
	Value    byte
}

// Targets derives a target per column. Column 0 targets position 1. Each
// later column keeps the running position, except for a '1' following a
// '1': below position 1 the pair shares the previous alignment shifted by
// SuccessiveOnesGap, otherwise the position folds back to
// (prev+SuccessiveOnesGap)/PhaseCycle.
func Targets(l line.Line) []Target {
	if l.Len() == 0 {
		return nil
	}
	targets := make([]Target, l.Len())
	prev := 1
	targets[0] = Target{Source: 0, Position: prev, Value: l.Bit(0)}

	for i := 1; i < l.Len(); i++ {
		cur := l.Bit(i)
		t := Target{Source: i, Position: prev, Value: cur}
		if l.Bit(i-1) == 1 && cur == 1 {
			switch {
			case prev < 1:
				prev += SuccessiveOnesGap
				t.Source = i - 1
				t.Position = prev
			case prev <= 2:
				prev = (prev + SuccessiveOnesGap) / PhaseCycle
				t.Position = prev
			}
		}
		targets[i] = t
	}
	return targets
}
