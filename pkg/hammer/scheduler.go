// Package hammer schedules a row of coupled print hammers. Two hammers
// separated by HammerGap columns are consulted together on every step of
// the medium, and each may only fire when its column's symbol matches the
// expected symbol currently passing under it.
package hammer

import (
	"chainprinter-go/pkg/driver"
	"chainprinter-go/pkg/errors"
	"chainprinter-go/pkg/line"
	"chainprinter-go/pkg/log"
)

const (
	// HammerGap is the physical spacing between the two paired hammers.
	HammerGap = 4

	// MinWidth is the shortest line whose paired slot is addressable.
	MinWidth = HammerGap + 1
)

// Options tunes a Scheduler.
type Options struct {
	// RetryLimit bounds the retry loop in steps. Zero means
	// width*(width+1), which no binary line reaches.
	RetryLimit int

	// Logger receives scheduling diagnostics; nil uses the "hammer"
	// component logger.
	Logger *log.Logger
}

// Result describes one scheduled line.
type Result struct {
	// Fired lists columns in firing order.
	Fired []int
	// SweepSteps and RetrySteps count medium steps per phase.
	SweepSteps int
	RetrySteps int
	// Slips counts idle steps inserted to break a retry cycle.
	Slips int
	// Complete is set when every column fired and the linefeed was sent.
	Complete bool
}

// Steps is the total number of medium steps taken.
func (r Result) Steps() int { return r.SweepSteps + r.RetrySteps }

// Scheduler drives a Driver with the alternating-match algorithm. It
// holds no per-line state and may be reused for any number of lines, but
// not concurrently.
type Scheduler struct {
	drv    driver.Driver
	opts   Options
	logger *log.Logger
}

// New returns a Scheduler driving drv.
func New(drv driver.Driver, opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger("hammer")
	}
	return &Scheduler{drv: drv, opts: opts, logger: logger}
}

// retryLimit returns the retry step bound for a line of width columns.
func (s *Scheduler) retryLimit(width int) int {
	if s.opts.RetryLimit > 0 {
		return s.opts.RetryLimit
	}
	return width * (width + 1)
}

// Schedule fires every column of l exactly once and then sends a
// linefeed. Lines shorter than MinWidth are rejected before any driver
// call. If the retry loop exceeds its bound the line is abandoned without
// a linefeed and a SCHEDULING_STALLED error is returned with the partial
// result.
//
// The forward sweep moves the primary hammer s1 from column 0 and the
// paired hammer s2 = s1+HammerGap behind it until s2 reaches the last
// column. Columns it misses, or never reaches, wait in a FIFO retry
// queue. Each retry step pops the oldest waiting column as s1, pairs it
// with s2 = (s1+HammerGap) mod width and tests both again. The expected
// symbol starts as the line's first symbol and toggles after every s1
// test, across both phases.
func (s *Scheduler) Schedule(l line.Line) (Result, error) {
	width := l.Len()
	if width < MinWidth {
		return Result{}, errors.UnsupportedLengthError("hammer", width, "at least 5 columns")
	}

	r := newRun(l, s.drv)
	r.sweep()
	r.seedUnvisited()
	if err := r.retry(s.retryLimit(width), s.logger); err != nil {
		s.logger.WithFields(log.Fields{
			"line":    l.String(),
			"pending": r.queue.len(),
		}).WithError(err).Warn("line abandoned")
		return r.res, err
	}

	if r.matchedCount == width {
		s.drv.Linefeed()
		r.res.Complete = true
	}
	s.logger.WithFields(log.Fields{
		"width":       width,
		"sweep_steps": r.res.SweepSteps,
		"retry_steps": r.res.RetrySteps,
		"slips":       r.res.Slips,
	}).Debug("line scheduled")
	return r.res, nil
}

// run is the mutable state of one Schedule call.
type run struct {
	line         line.Line
	drv          driver.Driver
	expected     byte
	matched      []bool
	matchedCount int
	visited      []bool
	queue        *retryQueue
	res          Result
}

func newRun(l line.Line, drv driver.Driver) *run {
	width := l.Len()
	return &run{
		line:     l,
		drv:      drv,
		expected: l.Bit(0),
		matched:  make([]bool, width),
		visited:  make([]bool, width),
		queue:    newRetryQueue(width),
		res:      Result{Fired: make([]int, 0, width)},
	}
}

// try tests col against the expected symbol. A match fires the column,
// otherwise it waits at the back of the retry queue (once). Matched
// columns are never tested again.
func (r *run) try(col int) bool {
	if r.matched[col] {
		return false
	}
	r.visited[col] = true
	if r.line.Bit(col) != r.expected {
		r.queue.push(col)
		return false
	}
	r.matched[col] = true
	r.matchedCount++
	r.queue.remove(col)
	r.res.Fired = append(r.res.Fired, col)
	r.drv.Fire(col)
	return true
}

func (r *run) toggle() {
	r.expected ^= 1
}

// sweep is the forward pass. The stop test uses the s2 of the iteration
// just completed, so the iteration reaching the last column always runs.
func (r *run) sweep() {
	last := r.line.Len() - 1
	for s1 := 0; ; s1++ {
		s2 := s1 + HammerGap
		r.try(s1)
		r.toggle()
		r.try(s2)
		r.drv.Step()
		r.res.SweepSteps++
		if s2 >= last {
			return
		}
	}
}

// seedUnvisited queues, in column order, every column the sweep never
// reached. At width 5 the sweep visits only columns 0 and 4, so a line
// such as 01010 always leaves columns 1 to 3 to the retry phase, where
// its three waiting columns need the phase slip in retry to finish.
func (r *run) seedUnvisited() {
	for col, seen := range r.visited {
		if !seen && !r.matched[col] {
			r.queue.push(col)
		}
	}
}

// retry drains the queue. With k columns waiting and nothing firing,
// the queue and the expected symbol repeat after k steps when k is even,
// so after k idle steps one extra step is taken without testing to shift
// the expected symbol by one.
func (r *run) retry(limit int, logger *log.Logger) error {
	width := r.line.Len()
	idle := 0
	for r.queue.len() > 0 {
		if r.res.RetrySteps >= limit {
			return errors.SchedulingStalledError("hammer", r.res.RetrySteps, r.queue.len())
		}

		s1 := r.queue.pop()
		fired := r.try(s1)
		r.toggle()
		s2 := s1 + HammerGap
		if s2 >= width {
			s2 -= width
		}
		if r.try(s2) {
			fired = true
		}
		r.drv.Step()
		r.res.RetrySteps++

		if fired {
			idle = 0
			continue
		}
		idle++
		if k := r.queue.len(); k%2 == 0 && idle >= k {
			if r.res.RetrySteps >= limit {
				return errors.SchedulingStalledError("hammer", r.res.RetrySteps, k)
			}
			logger.WithFields(log.Fields{"waiting": k, "step": r.res.Steps()}).Debug("phase slip")
			r.toggle()
			r.drv.Step()
			r.res.RetrySteps++
			r.res.Slips++
			idle = 0
		}
	}
	return nil
}
