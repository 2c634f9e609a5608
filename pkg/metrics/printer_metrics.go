// Chain printer metrics definitions
//
// Copyright (C) 2026 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

// Result label values for LinesTotal.
const (
	ResultPrinted   = "printed"
	ResultRejected  = "rejected"
	ResultStalled   = "stalled"
	ResultDriverErr = "driver_error"
)

// PrinterMetrics holds the metrics updated by the printer facade.
type PrinterMetrics struct {
	LinesTotal   *Counter
	FiresTotal   *Counter
	StepsTotal   *Counter
	PhaseSlips   *Counter
	StepsPerLine *Histogram
	LineWidth    *Gauge

	registry *Registry
}

// NewPrinterMetrics creates the printer metrics and registers them with r.
// A nil r gets a fresh registry.
func NewPrinterMetrics(r *Registry) *PrinterMetrics {
	if r == nil {
		r = NewRegistry()
	}
	m := &PrinterMetrics{
		LinesTotal: NewCounter("chainprinter_lines_total",
			"Lines submitted, by scheduler and result"),
		FiresTotal: NewCounter("chainprinter_fires_total",
			"Hammer or solenoid firings"),
		StepsTotal: NewCounter("chainprinter_steps_total",
			"Chain or print head steps"),
		PhaseSlips: NewCounter("chainprinter_phase_slips_total",
			"Idle steps inserted to break a parity-locked retry queue"),
		StepsPerLine: NewHistogram("chainprinter_steps_per_line",
			"Steps taken to complete one line",
			LinearBuckets(2, 2, 8)),
		LineWidth: NewGauge("chainprinter_last_line_width",
			"Width of the most recently scheduled line"),
		registry: r,
	}
	r.MustRegister(m.LinesTotal)
	r.MustRegister(m.FiresTotal)
	r.MustRegister(m.StepsTotal)
	r.MustRegister(m.PhaseSlips)
	r.MustRegister(m.StepsPerLine)
	r.MustRegister(m.LineWidth)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *PrinterMetrics) Registry() *Registry {
	return m.registry
}

// RecordLine records a completed line.
func (m *PrinterMetrics) RecordLine(scheduler string, width, fires, steps, slips int) {
	sl := Labels{"scheduler": scheduler}
	m.LinesTotal.Inc(Labels{"scheduler": scheduler, "result": ResultPrinted})
	m.FiresTotal.Add(sl, uint64(fires))
	m.StepsTotal.Add(sl, uint64(steps))
	if slips > 0 {
		m.PhaseSlips.Add(nil, uint64(slips))
	}
	m.StepsPerLine.Observe(sl, float64(steps))
	m.LineWidth.Set(nil, float64(width))
}

// RecordFailure records a line that did not complete.
func (m *PrinterMetrics) RecordFailure(scheduler, result string) {
	m.LinesTotal.Inc(Labels{"scheduler": scheduler, "result": result})
}
