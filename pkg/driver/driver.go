// Package driver defines the capability boundary between the firing
// schedulers and the print mechanism, plus the drivers the host ships:
// a trace recorder, a logging decorator, a serial line driver and a
// fan-out.
//
// A scheduler calls the driver from a single goroutine, one call at a
// time. None of the implementations here are safe for concurrent use.
package driver

// Driver is the print mechanism as seen by a scheduler.
type Driver interface {
	// Fire commits the physical state under the hammer at column.
	Fire(column int)
	// Step advances the print medium by one physical unit.
	Step()
	// Linefeed signals that the line is complete.
	Linefeed()
}

// ErrorReporter is implemented by drivers doing real I/O. The Driver
// calls themselves cannot fail, so such drivers latch their first error
// and report it here; later calls become no-ops.
type ErrorReporter interface {
	Err() error
}

// Err returns the latched error of d, if d reports one.
func Err(d Driver) error {
	if r, ok := d.(ErrorReporter); ok {
		return r.Err()
	}
	return nil
}

// Multi forwards every call to each driver in order.
type Multi []Driver

func (m Multi) Fire(column int) {
	for _, d := range m {
		d.Fire(column)
	}
}

func (m Multi) Step() {
	for _, d := range m {
		d.Step()
	}
}

func (m Multi) Linefeed() {
	for _, d := range m {
		d.Linefeed()
	}
}

// Err returns the first latched error among the wrapped drivers.
func (m Multi) Err() error {
	for _, d := range m {
		if err := Err(d); err != nil {
			return err
		}
	}
	return nil
}

// Nop discards every call.
type Nop struct{}

func (Nop) Fire(int)  {}
func (Nop) Step()     {}
func (Nop) Linefeed() {}
