package driver

import (
	"chainprinter-go/pkg/log"
)

// Logging logs every call at DEBUG level and forwards it to Next, which
// may be nil.
type Logging struct {
	Next   Driver
	logger *log.Logger
	steps  int
}

// NewLogging wraps next. A nil logger uses the "driver" component logger.
func NewLogging(next Driver, logger *log.Logger) *Logging {
	if logger == nil {
		logger = log.GetLogger("driver")
	}
	return &Logging{Next: next, logger: logger}
}

func (l *Logging) Fire(column int) {
	l.logger.WithFields(log.Fields{"column": column, "step": l.steps}).Debug("fire")
	if l.Next != nil {
		l.Next.Fire(column)
	}
}

func (l *Logging) Step() {
	l.steps++
	l.logger.WithField("step", l.steps).Debug("step")
	if l.Next != nil {
		l.Next.Step()
	}
}

func (l *Logging) Linefeed() {
	l.logger.WithField("steps", l.steps).Debug("linefeed")
	l.steps = 0
	if l.Next != nil {
		l.Next.Linefeed()
	}
}

// Err reports the wrapped driver's latched error.
func (l *Logging) Err() error {
	if l.Next == nil {
		return nil
	}
	return Err(l.Next)
}
