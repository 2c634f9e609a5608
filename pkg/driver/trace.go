package driver

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"chainprinter-go/pkg/errors"
)

// Op is a driver primitive.
type Op string

const (
	OpFire     Op = "fire"
	OpStep     Op = "step"
	OpLinefeed Op = "linefeed"
)

// Event is one recorded driver call. Column is only meaningful for OpFire.
type Event struct {
	Op     Op
	Column int
}

// Fire returns a fire event for column.
func Fire(column int) Event { return Event{Op: OpFire, Column: column} }

// Step returns a step event.
func Step() Event { return Event{Op: OpStep} }

// Linefeed returns a linefeed event.
func Linefeed() Event { return Event{Op: OpLinefeed} }

// String renders the event as "fire 3", "step" or "linefeed".
func (e Event) String() string {
	if e.Op == OpFire {
		return fmt.Sprintf("%s %d", e.Op, e.Column)
	}
	return string(e.Op)
}

// ParseEvent is the inverse of Event.String.
func ParseEvent(s string) (Event, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Event{}, fmt.Errorf("empty event")
	}
	switch Op(fields[0]) {
	case OpFire:
		if len(fields) != 2 {
			return Event{}, fmt.Errorf("event %q: fire needs a column", s)
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return Event{}, fmt.Errorf("event %q: %w", s, err)
		}
		return Fire(col), nil
	case OpStep, OpLinefeed:
		if len(fields) != 1 {
			return Event{}, fmt.Errorf("event %q: unexpected argument", s)
		}
		return Event{Op: Op(fields[0])}, nil
	default:
		return Event{}, fmt.Errorf("event %q: unknown op", s)
	}
}

// MarshalYAML encodes the event as its string form.
func (e Event) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// UnmarshalYAML decodes the string form.
func (e *Event) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	ev, err := ParseEvent(s)
	if err != nil {
		return err
	}
	*e = ev
	return nil
}

// Trace is the recorded driver activity for one scheduled line.
type Trace struct {
	Job       string  `yaml:"job,omitempty"`
	Scheduler string  `yaml:"scheduler,omitempty"`
	Line      string  `yaml:"line,omitempty"`
	Events    []Event `yaml:"events"`
}

// String renders one event per line.
func (t Trace) String() string {
	var sb strings.Builder
	for _, e := range t.Events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Fired returns the fired columns in firing order.
func (t Trace) Fired() []int {
	var cols []int
	for _, e := range t.Events {
		if e.Op == OpFire {
			cols = append(cols, e.Column)
		}
	}
	return cols
}

// Count returns how many events of op were recorded.
func (t Trace) Count(op Op) int {
	n := 0
	for _, e := range t.Events {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Validate checks the trace against the driver contract for a line of
// width columns: every fire is in range and happens at most once, and a
// linefeed, if present, is the last event, occurs once, and follows a
// fire of every column.
func (t Trace) Validate(width int) error {
	fired := make(map[int]bool, width)
	for i, e := range t.Events {
		switch e.Op {
		case OpFire:
			if e.Column < 0 || e.Column >= width {
				return errors.TraceError(i, fmt.Sprintf("column %d outside line of %d", e.Column, width))
			}
			if fired[e.Column] {
				return errors.TraceError(i, fmt.Sprintf("column %d fired twice", e.Column))
			}
			fired[e.Column] = true
		case OpStep:
		case OpLinefeed:
			if i != len(t.Events)-1 {
				return errors.TraceError(i, "linefeed is not the last event")
			}
			if len(fired) != width {
				return errors.TraceError(i, fmt.Sprintf("linefeed after %d of %d columns", len(fired), width))
			}
		default:
			return errors.TraceError(i, fmt.Sprintf("unknown op %q", e.Op))
		}
	}
	return nil
}

// WriteYAML writes the trace as a YAML document.
func (t Trace) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return enc.Close()
}

// LoadTrace decodes a YAML trace, rejecting unknown fields.
func LoadTrace(r io.Reader) (Trace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Trace{}, fmt.Errorf("read trace: %w", err)
	}
	var t Trace
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Trace{}, fmt.Errorf("parse trace: %w", err)
	}
	return t, nil
}

// Recorder is a Driver that records every call.
type Recorder struct {
	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Fire(column int) { r.events = append(r.events, Fire(column)) }
func (r *Recorder) Step()           { r.events = append(r.events, Step()) }
func (r *Recorder) Linefeed()       { r.events = append(r.events, Linefeed()) }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Trace returns the recorded events as a Trace.
func (r *Recorder) Trace() Trace {
	return Trace{Events: r.Events()}
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}
