// Package printer is the public surface of the chain printer host: it
// validates input lines and hands them to the hammer scheduler or the
// solenoid simulator, tagging each call with a job id for logs, traces
// and metrics.
package printer

import (
	"github.com/google/uuid"

	"chainprinter-go/pkg/driver"
	"chainprinter-go/pkg/errors"
	"chainprinter-go/pkg/hammer"
	"chainprinter-go/pkg/line"
	"chainprinter-go/pkg/log"
	"chainprinter-go/pkg/metrics"
	"chainprinter-go/pkg/solenoid"
)

// Scheduler names used in logs, traces and metric labels.
const (
	SchedulerHammer   = "hammer"
	SchedulerSolenoid = "solenoid"
)

// Options configures a Printer.
type Options struct {
	// RetryLimit is passed to the hammer scheduler. Zero keeps its default.
	RetryLimit int

	// Logger receives per-line records; nil uses the "printer" component
	// logger.
	Logger *log.Logger

	// Metrics is updated after every call; nil creates a private set.
	Metrics *metrics.PrinterMetrics
}

// Report summarises the most recent call.
type Report struct {
	Job       string
	Scheduler string
	Line      string
	Fired     []int
	Steps     int
	Slips     int
	Err       error
}

// Printer drives one Driver. It is not safe for concurrent use.
type Printer struct {
	drv      driver.Driver
	hammer   *hammer.Scheduler
	solenoid *solenoid.Simulator
	logger   *log.Logger
	metrics  *metrics.PrinterMetrics
	last     Report
}

// New returns a Printer driving drv.
func New(drv driver.Driver, opts Options) *Printer {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger("printer")
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewPrinterMetrics(nil)
	}
	return &Printer{
		drv: drv,
		hammer: hammer.New(drv, hammer.Options{
			RetryLimit: opts.RetryLimit,
			Logger:     logger.WithPrefix(SchedulerHammer),
		}),
		solenoid: solenoid.New(drv, solenoid.Options{
			Logger: logger.WithPrefix(SchedulerSolenoid),
		}),
		logger:  logger,
		metrics: m,
	}
}

// Metrics returns the metrics the printer updates.
func (p *Printer) Metrics() *metrics.PrinterMetrics {
	return p.metrics
}

// LastReport returns the summary of the most recent call.
func (p *Printer) LastReport() Report {
	return p.last
}

// LastJob returns the job id of the most recent call.
func (p *Printer) LastJob() string {
	return p.last.Job
}

func (p *Printer) begin(scheduler, input string) *log.Entry {
	p.last = Report{
		Job:       uuid.Must(uuid.NewV7()).String(),
		Scheduler: scheduler,
		Line:      input,
	}
	return p.logger.WithFields(log.Fields{
		"job":       p.last.Job,
		"scheduler": scheduler,
	})
}

// fail records err against the current report and returns it.
func (p *Printer) fail(entry *log.Entry, err error) error {
	p.last.Err = err
	switch {
	case errors.IsInput(err):
		p.metrics.RecordFailure(p.last.Scheduler, metrics.ResultRejected)
		entry.WithError(err).Warn("line rejected")
	case errors.Is(err, errors.ErrSchedulingStalled):
		p.metrics.RecordFailure(p.last.Scheduler, metrics.ResultStalled)
		entry.WithError(err).Error("line stalled")
	default:
		p.metrics.RecordFailure(p.last.Scheduler, metrics.ResultDriverErr)
		entry.WithError(err).Error("driver failed")
	}
	return err
}

// PrintLine prints a binary line with the alternating-match hammer
// scheduler. Invalid input is rejected before any driver call.
func (p *Printer) PrintLine(s string) error {
	entry := p.begin(SchedulerHammer, s)
	if err := driver.Err(p.drv); err != nil {
		return p.fail(entry, err)
	}

	l, err := line.Parse(s)
	if err != nil {
		return p.fail(entry, err)
	}
	res, err := p.hammer.Schedule(l)
	p.last.Fired = res.Fired
	p.last.Steps = res.Steps()
	p.last.Slips = res.Slips
	if derr := driver.Err(p.drv); derr != nil {
		return p.fail(entry, derr)
	}
	if err != nil {
		return p.fail(entry, err)
	}

	p.metrics.RecordLine(SchedulerHammer, l.Len(), len(res.Fired), res.Steps(), res.Slips)
	entry.WithFields(log.Fields{
		"line":  l.String(),
		"steps": res.Steps(),
		"slips": res.Slips,
	}).Info("line printed")
	return nil
}

// PrintLineFixed8 prints an 8-column binary line with the solenoid print
// head and returns the line as reconstructed from the firings.
func (p *Printer) PrintLineFixed8(s string) (string, error) {
	entry := p.begin(SchedulerSolenoid, s)
	if err := driver.Err(p.drv); err != nil {
		return "", p.fail(entry, err)
	}

	l, err := line.Parse(s)
	if err != nil {
		return "", p.fail(entry, err)
	}
	res, err := p.solenoid.Schedule(l)
	p.last.Fired = res.Fired
	p.last.Steps = res.Steps
	if derr := driver.Err(p.drv); derr != nil {
		return "", p.fail(entry, derr)
	}
	if err != nil {
		return "", p.fail(entry, err)
	}

	out := res.Line.String()
	p.metrics.RecordLine(SchedulerSolenoid, l.Len(), len(res.Fired), res.Steps, 0)
	entry.WithFields(log.Fields{
		"line":  out,
		"steps": res.Steps,
	}).Info("line printed")
	return out, nil
}

// PrintRaw sanitizes arbitrary text with line.Sanitize and prints the
// result with PrintLine. Spaces survive sanitizing and are then rejected
// by PrintLine.
func (p *Printer) PrintRaw(text string) error {
	sanitized := line.Sanitize(text)
	p.logger.WithFields(log.Fields{
		"raw":       text,
		"sanitized": sanitized,
	}).Debug("raw text sanitized")
	return p.PrintLine(sanitized)
}
