package driver

import (
	"fmt"
	"io"

	"chainprinter-go/pkg/errors"
)

// Serial drives a printer controller over a byte stream (normally a
// serial.Port) with one ASCII command per line:
//
//	FIRE <column>
//	STEP
//	LINEFEED
//
// The first write error is latched; after it every call is dropped.
type Serial struct {
	w   io.Writer
	err error
}

// NewSerial returns a driver writing commands to w.
func NewSerial(w io.Writer) *Serial {
	return &Serial{w: w}
}

func (s *Serial) Fire(column int) { s.send(fmt.Sprintf("FIRE %d\n", column)) }
func (s *Serial) Step()           { s.send("STEP\n") }
func (s *Serial) Linefeed()       { s.send("LINEFEED\n") }

func (s *Serial) send(cmd string) {
	if s.err != nil {
		return
	}
	n, err := io.WriteString(s.w, cmd)
	if err == nil && n != len(cmd) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = errors.DriverError("serial", err)
	}
}

// Err returns the latched write error.
func (s *Serial) Err() error {
	return s.err
}
