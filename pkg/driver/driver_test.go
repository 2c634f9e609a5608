package driver

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainprinter-go/pkg/errors"
	"chainprinter-go/pkg/log"
)

type brokenWriter struct {
	n     int
	calls int
}

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.n > 0 {
		return w.n, nil
	}
	return 0, stderrors.New("broken pipe")
}

func TestSerialCommands(t *testing.T) {
	var buf bytes.Buffer
	s := NewSerial(&buf)
	s.Fire(3)
	s.Step()
	s.Fire(10)
	s.Linefeed()

	assert.Equal(t, "FIRE 3\nSTEP\nFIRE 10\nLINEFEED\n", buf.String())
	assert.NoError(t, s.Err())
	assert.NoError(t, Err(s))
}

func TestSerialLatchesFirstError(t *testing.T) {
	w := &brokenWriter{}
	s := NewSerial(w)
	s.Fire(0)
	s.Step()
	s.Linefeed()

	require.Error(t, s.Err())
	assert.True(t, errors.Is(s.Err(), errors.ErrDriverIO))
	assert.Contains(t, s.Err().Error(), "broken pipe")
	assert.Equal(t, 1, w.calls)
}

func TestSerialShortWrite(t *testing.T) {
	s := NewSerial(&brokenWriter{n: 2})
	s.Step()
	assert.True(t, errors.Is(s.Err(), errors.ErrDriverIO))
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, b}
	m.Fire(2)
	m.Step()
	m.Linefeed()

	want := []Event{Fire(2), Step(), Linefeed()}
	assert.Equal(t, want, a.Events())
	assert.Equal(t, want, b.Events())
	assert.NoError(t, m.Err())

	failing := NewSerial(&brokenWriter{})
	m = Multi{a, failing}
	m.Step()
	assert.True(t, errors.Is(Err(m), errors.ErrDriverIO))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New("driver")
	logger.SetWriter(&buf)
	logger.SetColorize(false)
	logger.SetLevel(log.DEBUG)

	rec := NewRecorder()
	l := NewLogging(rec, logger)
	l.Fire(1)
	l.Step()
	l.Fire(0)
	l.Linefeed()

	assert.Equal(t, []Event{Fire(1), Step(), Fire(0), Linefeed()}, rec.Events())
	out := buf.String()
	assert.Contains(t, out, "driver: fire {column=1, step=0}")
	assert.Contains(t, out, "driver: fire {column=0, step=1}")
	assert.Contains(t, out, "driver: linefeed {steps=1}")
	assert.NoError(t, l.Err())
}

func TestLoggingWithoutNext(t *testing.T) {
	logger := log.New("driver")
	logger.SetWriter(&bytes.Buffer{})
	l := NewLogging(nil, logger)
	l.Fire(0)
	l.Step()
	l.Linefeed()
	assert.NoError(t, l.Err())
	assert.NoError(t, Err(Nop{}))
}
