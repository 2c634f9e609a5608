// Package solenoid schedules an eight-solenoid print head. Each solenoid
// sits at its own mechanical phase: a position counter cycling through
// 2, 1, 0, -1 and a value that flips every PhaseCycle steps. A column
// fires when its solenoid reaches the (position, value) target derived
// from the line.
package solenoid

import (
	"chainprinter-go/pkg/driver"
	"chainprinter-go/pkg/errors"
	"chainprinter-go/pkg/line"
	"chainprinter-go/pkg/log"
)

const (
	// UnitCount is the number of physical solenoids, and the line width.
	UnitCount = 8

	// PhaseCycle is the number of steps between value flips.
	PhaseCycle = 4

	// SuccessiveOnesGap is the position offset between two adjacent '1'
	// columns sharing an alignment.
	SuccessiveOnesGap = 2

	minPosition = -1
	maxPosition = 2
)

// Unit is the mechanical state of one solenoid.
type Unit struct {
	Position int
	Value    byte
	Phase    int
}

// Units is the state of every solenoid at the start of a line. Unit 0 is
// aligned dead centre with the hammer in its '0' state.
var Units = [UnitCount]Unit{
	{Position: 1, Value: 0, Phase: 2},
	{Position: 2, Value: 1, Phase: 1},
	{Position: -1, Value: 1, Phase: 4},
	{Position: 0, Value: 0, Phase: 3},
	{Position: 1, Value: 1, Phase: 2},
	{Position: 2, Value: 0, Phase: 1},
	{Position: -1, Value: 0, Phase: 4},
	{Position: 0, Value: 1, Phase: 3},
}

// advance moves the unit one step of the medium.
func (u *Unit) advance() {
	if u.Position == minPosition {
		u.Position = maxPosition
	} else {
		u.Position--
	}
	if u.Phase == PhaseCycle {
		u.Phase = 1
		u.Value ^= 1
	} else {
		u.Phase++
	}
}

// Options tunes a Simulator.
type Options struct {
	// Logger receives scheduling diagnostics; nil uses the "solenoid"
	// component logger.
	Logger *log.Logger
}

// Result describes one scheduled line.
type Result struct {
	// Line is the line reconstructed from the values fired.
	Line line.Line
	// Fired lists columns in firing order.
	Fired []int
	// FiredAt holds, per column, the step at which it fired.
	FiredAt []int
	// Steps is the number of medium steps taken.
	Steps int
}

// Simulator drives a Driver by simulating the solenoid phases.
type Simulator struct {
	drv    driver.Driver
	logger *log.Logger
}

// New returns a Simulator driving drv.
func New(drv driver.Driver, opts Options) *Simulator {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger("solenoid")
	}
	return &Simulator{drv: drv, logger: logger}
}

// maxSteps bounds the step loop: a unit revisits every (position, value)
// pair within two value cycles.
const maxSteps = 2 * PhaseCycle

// Schedule prints an UnitCount-column line and returns the line
// reconstructed from the fired values. Other widths are rejected before
// any driver call.
//
// On each step every column not yet fired is compared against its
// solenoid, so several columns can fire on the same step. Once all have
// fired a linefeed is sent without stepping further.
func (s *Simulator) Schedule(l line.Line) (Result, error) {
	if l.Len() != UnitCount {
		return Result{}, errors.UnsupportedLengthError("solenoid", l.Len(), "exactly 8 columns")
	}
	targets := Targets(l)

	units := Units
	out := make([]byte, UnitCount)
	fired := make([]bool, UnitCount)
	res := Result{
		Fired:   make([]int, 0, UnitCount),
		FiredAt: make([]int, UnitCount),
	}

	for {
		for col := range units {
			u, t := units[col], targets[col]
			if fired[col] || u.Position != t.Position || u.Value != t.Value {
				continue
			}
			fired[col] = true
			out[col] = u.Value
			res.Fired = append(res.Fired, col)
			res.FiredAt[col] = res.Steps
			s.drv.Fire(col)
		}
		if len(res.Fired) == UnitCount {
			break
		}
		if res.Steps == maxSteps {
			err := errors.SchedulingStalledError("solenoid", res.Steps, UnitCount-len(res.Fired))
			s.logger.WithField("line", l.String()).WithError(err).Warn("line abandoned")
			return res, err
		}

		s.drv.Step()
		res.Steps++
		for i := range units {
			units[i].advance()
		}
	}

	s.drv.Linefeed()
	reconstructed, err := line.FromBits(out)
	if err != nil {
		return res, err
	}
	res.Line = reconstructed
	s.logger.WithFields(log.Fields{
		"line":  l.String(),
		"steps": res.Steps,
	}).Debug("line scheduled")
	return res, nil
}
