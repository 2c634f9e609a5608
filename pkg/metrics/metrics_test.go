// Unit tests for the Prometheus text metrics
//
// Copyright (C) 2026 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"math"
	"strings"
	"sync"
	"testing"
)

func TestCounterBasic(t *testing.T) {
	c := NewCounter("test_counter", "A test counter")

	if v := c.Get(nil); v != 0 {
		t.Errorf("expected initial value 0, got %d", v)
	}
	c.Inc(nil)
	if v := c.Get(nil); v != 1 {
		t.Errorf("expected value 1 after Inc, got %d", v)
	}
	c.Add(nil, 10)
	if v := c.Get(nil); v != 11 {
		t.Errorf("expected value 11 after Add(10), got %d", v)
	}
	if c.Name() != "test_counter" || c.Help() != "A test counter" {
		t.Errorf("unexpected name/help %q/%q", c.Name(), c.Help())
	}
	if c.Type() != TypeCounter {
		t.Errorf("expected counter type, got %s", c.Type())
	}
}

func TestCounterWithLabels(t *testing.T) {
	c := NewCounter("lines_total", "Lines")

	hammer := Labels{"scheduler": "hammer", "result": "printed"}
	solenoid := Labels{"scheduler": "solenoid", "result": "printed"}

	c.Inc(hammer)
	c.Inc(hammer)
	c.Inc(solenoid)

	if v := c.Get(hammer); v != 2 {
		t.Errorf("expected hammer count 2, got %d", v)
	}
	if v := c.Get(solenoid); v != 1 {
		t.Errorf("expected solenoid count 1, got %d", v)
	}
	// Label order does not matter
	if v := c.Get(Labels{"result": "printed", "scheduler": "hammer"}); v != 2 {
		t.Errorf("expected reordered labels to match, got %d", v)
	}
}

func TestCounterConcurrency(t *testing.T) {
	c := NewCounter("concurrent", "Concurrent counter")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc(nil)
			}
		}()
	}
	wg.Wait()
	if v := c.Get(nil); v != 5000 {
		t.Errorf("expected 5000, got %d", v)
	}
}

func TestGaugeBasic(t *testing.T) {
	g := NewGauge("width", "Line width")
	g.Set(nil, 8)
	if v := g.Get(nil); v != 8 {
		t.Errorf("expected 8, got %f", v)
	}
	g.Set(nil, 5)
	if v := g.Get(nil); v != 5 {
		t.Errorf("expected 5 after Set, got %f", v)
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := NewHistogram("steps", "Steps per line", []float64{8, 2, 4})
	for _, v := range []float64{1, 3, 3, 7, 20} {
		h.Observe(nil, v)
	}

	snap := h.GetSnapshot(nil)
	if snap.Count != 5 {
		t.Errorf("expected count 5, got %d", snap.Count)
	}
	if math.Abs(snap.Sum-34) > 1e-9 {
		t.Errorf("expected sum 34, got %f", snap.Sum)
	}
	want := map[float64]uint64{2: 1, 4: 3, 8: 4}
	for bound, n := range want {
		if snap.Buckets[bound] != n {
			t.Errorf("bucket %g: expected %d, got %d", bound, n, snap.Buckets[bound])
		}
	}
}

func TestHistogramEmptySnapshot(t *testing.T) {
	h := NewHistogram("steps", "Steps per line", []float64{1})
	if snap := h.GetSnapshot(Labels{"scheduler": "hammer"}); snap.Count != 0 {
		t.Errorf("expected empty snapshot, got count %d", snap.Count)
	}
}

func TestLinearBuckets(t *testing.T) {
	got := LinearBuckets(2, 2, 4)
	want := []float64{2, 4, 6, 8}
	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d: expected %g, got %g", i, want[i], got[i])
		}
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewCounter("dup", "first")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(NewCounter("dup", "second")); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if r.Get("dup").Help() != "first" {
		t.Error("duplicate registration replaced the original")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown metric")
	}
}

func TestRegistryGather(t *testing.T) {
	r := NewRegistry()

	c := NewCounter("test_lines_total", "Total lines")
	c.Add(Labels{"scheduler": "solenoid"}, 50)
	c.Add(Labels{"scheduler": "hammer"}, 100)
	r.MustRegister(c)

	g := NewGauge("test_width", "Current width")
	g.Set(nil, 12)
	r.MustRegister(g)

	want := `# HELP test_lines_total Total lines
# TYPE test_lines_total counter
test_lines_total{scheduler="hammer"} 100
test_lines_total{scheduler="solenoid"} 50
# HELP test_width Current width
# TYPE test_width gauge
test_width 12
`
	if got := r.Gather(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestHistogramGather(t *testing.T) {
	r := NewRegistry()
	h := NewHistogram("test_steps", "Steps", []float64{4, 8})
	h.Observe(Labels{"scheduler": "hammer"}, 5)
	r.MustRegister(h)

	out := r.Gather()
	for _, line := range []string{
		"# TYPE test_steps histogram",
		`test_steps_bucket{le="4",scheduler="hammer"} 0`,
		`test_steps_bucket{le="8",scheduler="hammer"} 1`,
		`test_steps_bucket{le="+Inf",scheduler="hammer"} 1`,
		`test_steps_sum{scheduler="hammer"} 5`,
		`test_steps_count{scheduler="hammer"} 1`,
	} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("missing %q in:\n%s", line, out)
		}
	}
}

func TestSpecialCharacterEscaping(t *testing.T) {
	c := NewCounter("escaped", "Escaping")
	c.Inc(Labels{"line": "a\"b\\c\nd"})
	var sb strings.Builder
	c.Write(&sb)
	if !strings.Contains(sb.String(), `escaped{line="a\"b\\c\nd"} 1`) {
		t.Errorf("label not escaped: %s", sb.String())
	}
}

func TestPrinterMetrics(t *testing.T) {
	m := NewPrinterMetrics(nil)

	m.RecordLine("hammer", 5, 5, 5, 0)
	m.RecordLine("hammer", 5, 5, 9, 1)
	m.RecordLine("solenoid", 8, 8, 7, 0)
	m.RecordFailure("hammer", ResultRejected)

	if v := m.LinesTotal.Get(Labels{"scheduler": "hammer", "result": ResultPrinted}); v != 2 {
		t.Errorf("expected 2 printed hammer lines, got %d", v)
	}
	if v := m.LinesTotal.Get(Labels{"scheduler": "hammer", "result": ResultRejected}); v != 1 {
		t.Errorf("expected 1 rejected hammer line, got %d", v)
	}
	if v := m.StepsTotal.Get(Labels{"scheduler": "hammer"}); v != 14 {
		t.Errorf("expected 14 hammer steps, got %d", v)
	}
	if v := m.PhaseSlips.Get(nil); v != 1 {
		t.Errorf("expected 1 slip, got %d", v)
	}
	if v := m.LineWidth.Get(nil); v != 8 {
		t.Errorf("expected last width 8, got %f", v)
	}
	if snap := m.StepsPerLine.GetSnapshot(Labels{"scheduler": "solenoid"}); snap.Count != 1 || snap.Sum != 7 {
		t.Errorf("unexpected solenoid histogram %+v", snap)
	}
	if m.Registry().Get("chainprinter_fires_total") == nil {
		t.Error("fires counter not registered")
	}
}

func TestPrinterMetricsSharedRegistry(t *testing.T) {
	r := NewRegistry()
	NewPrinterMetrics(r)

	defer func() {
		if recover() == nil {
			t.Error("expected second registration on the same registry to panic")
		}
	}()
	NewPrinterMetrics(r)
}
