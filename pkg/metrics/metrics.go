// Metrics collection for the chain printer host
//
// Counters, gauges and histograms rendered in the Prometheus text
// exposition format.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// MetricType represents the type of metric
type MetricType int

const (
	TypeCounter MetricType = iota
	TypeGauge
	TypeHistogram
)

func (t MetricType) String() string {
	switch t {
	case TypeCounter:
		return "counter"
	case TypeGauge:
		return "gauge"
	case TypeHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// Labels represents metric labels as key-value pairs
type Labels map[string]string

// labelKey generates a unique, order-independent key for a label set
func labelKey(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}
	keys := sortedKeys(labels)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(labels[k])
	}
	return sb.String()
}

func sortedKeys(labels Labels) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatLabels formats labels for Prometheus output
func formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range sortedKeys(labels) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteString("=\"")
		sb.WriteString(escapeLabel(labels[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// escapeLabel escapes special characters in label values
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func copyLabels(labels Labels) Labels {
	result := make(Labels, len(labels)+1)
	for k, v := range labels {
		result[k] = v
	}
	return result
}

// formatFloat formats a float64 for Prometheus output
func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	return fmt.Sprintf("%g", v)
}

func writeHeader(sb *strings.Builder, name, help string, t MetricType) {
	fmt.Fprintf(sb, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, t)
}

// Metric is the interface for all metric types
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	Write(sb *strings.Builder)
}

// series holds one value per label set, written in label-key order
type series[V any] struct {
	mu     sync.Mutex
	labels map[string]Labels
	values map[string]*V
}

func (s *series[V]) get(labels Labels, create func() *V) *V {
	key := labelKey(labels)
	if s.values == nil {
		s.values = make(map[string]*V)
		s.labels = make(map[string]Labels)
	}
	v, ok := s.values[key]
	if !ok {
		v = create()
		s.values[key] = v
		s.labels[key] = copyLabels(labels)
	}
	return v
}

func (s *series[V]) each(fn func(Labels, *V)) {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(s.labels[k], s.values[k])
	}
}

// Counter is a monotonically increasing metric
type Counter struct {
	name, help string
	s          series[uint64]
}

// NewCounter creates a new counter metric
func NewCounter(name, help string) *Counter {
	return &Counter{name: name, help: help}
}

func (c *Counter) Name() string     { return c.name }
func (c *Counter) Help() string     { return c.help }
func (c *Counter) Type() MetricType { return TypeCounter }

// Inc increments the counter by 1
func (c *Counter) Inc(labels Labels) {
	c.Add(labels, 1)
}

// Add increments the counter by the given value
func (c *Counter) Add(labels Labels, delta uint64) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	*c.s.get(labels, func() *uint64 { return new(uint64) }) += delta
}

// Get returns the current counter value for labels
func (c *Counter) Get(labels Labels) uint64 {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if v, ok := c.s.values[labelKey(labels)]; ok {
		return *v
	}
	return 0
}

func (c *Counter) Write(sb *strings.Builder) {
	writeHeader(sb, c.name, c.help, TypeCounter)
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.each(func(labels Labels, v *uint64) {
		fmt.Fprintf(sb, "%s%s %d\n", c.name, formatLabels(labels), *v)
	})
}

// Gauge is a metric that can go up and down
type Gauge struct {
	name, help string
	s          series[float64]
}

// NewGauge creates a new gauge metric
func NewGauge(name, help string) *Gauge {
	return &Gauge{name: name, help: help}
}

func (g *Gauge) Name() string     { return g.name }
func (g *Gauge) Help() string     { return g.help }
func (g *Gauge) Type() MetricType { return TypeGauge }

// Set sets the gauge value
func (g *Gauge) Set(labels Labels, value float64) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	*g.s.get(labels, func() *float64 { return new(float64) }) = value
}

// Get returns the current gauge value for labels
func (g *Gauge) Get(labels Labels) float64 {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if v, ok := g.s.values[labelKey(labels)]; ok {
		return *v
	}
	return 0
}

func (g *Gauge) Write(sb *strings.Builder) {
	writeHeader(sb, g.name, g.help, TypeGauge)
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	g.s.each(func(labels Labels, v *float64) {
		fmt.Fprintf(sb, "%s%s %s\n", g.name, formatLabels(labels), formatFloat(*v))
	})
}

// Histogram tracks the distribution of observations
type Histogram struct {
	name, help string
	buckets    []float64
	s          series[histogramValue]
}

type histogramValue struct {
	count   uint64
	sum     float64
	buckets []uint64
}

// NewHistogram creates a new histogram metric with the given upper bounds
func NewHistogram(name, help string, buckets []float64) *Histogram {
	sorted := make([]float64, len(buckets))
	copy(sorted, buckets)
	sort.Float64s(sorted)
	return &Histogram{name: name, help: help, buckets: sorted}
}

// LinearBuckets creates count buckets starting at start with width intervals
func LinearBuckets(start, width float64, count int) []float64 {
	buckets := make([]float64, count)
	for i := 0; i < count; i++ {
		buckets[i] = start + float64(i)*width
	}
	return buckets
}

func (h *Histogram) Name() string     { return h.name }
func (h *Histogram) Help() string     { return h.help }
func (h *Histogram) Type() MetricType { return TypeHistogram }

// Observe records a value in the histogram
func (h *Histogram) Observe(labels Labels, value float64) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	hv := h.s.get(labels, func() *histogramValue {
		return &histogramValue{buckets: make([]uint64, len(h.buckets))}
	})
	hv.count++
	hv.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			hv.buckets[i]++
		}
	}
}

// HistogramSnapshot contains a point-in-time snapshot of histogram values.
// Buckets are cumulative, keyed by upper bound.
type HistogramSnapshot struct {
	Count   uint64
	Sum     float64
	Buckets map[float64]uint64
}

// GetSnapshot returns a snapshot of histogram values for the given labels
func (h *Histogram) GetSnapshot(labels Labels) HistogramSnapshot {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	snap := HistogramSnapshot{Buckets: make(map[float64]uint64, len(h.buckets))}
	hv, ok := h.s.values[labelKey(labels)]
	if !ok {
		return snap
	}
	snap.Count = hv.count
	snap.Sum = hv.sum
	for i, bound := range h.buckets {
		snap.Buckets[bound] = hv.buckets[i]
	}
	return snap
}

func (h *Histogram) Write(sb *strings.Builder) {
	writeHeader(sb, h.name, h.help, TypeHistogram)
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.s.each(func(labels Labels, hv *histogramValue) {
		for i, bound := range h.buckets {
			h.writeBucket(sb, labels, bound, hv.buckets[i])
		}
		h.writeBucket(sb, labels, math.Inf(1), hv.count)
		fmt.Fprintf(sb, "%s_sum%s %s\n", h.name, formatLabels(labels), formatFloat(hv.sum))
		fmt.Fprintf(sb, "%s_count%s %d\n", h.name, formatLabels(labels), hv.count)
	})
}

func (h *Histogram) writeBucket(sb *strings.Builder, labels Labels, bound float64, count uint64) {
	bucketLabels := copyLabels(labels)
	bucketLabels["le"] = formatFloat(bound)
	fmt.Fprintf(sb, "%s_bucket%s %d\n", h.name, formatLabels(bucketLabels), count)
}

// Registry holds metrics in registration order
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
	order   []string
}

// NewRegistry creates a new metrics registry
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// Register adds a metric to the registry
func (r *Registry) Register(metric Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := metric.Name()
	if _, exists := r.metrics[name]; exists {
		return fmt.Errorf("metric %q already registered", name)
	}
	r.metrics[name] = metric
	r.order = append(r.order, name)
	return nil
}

// MustRegister adds a metric and panics on error
func (r *Registry) MustRegister(metric Metric) {
	if err := r.Register(metric); err != nil {
		panic(err)
	}
}

// Get returns a metric by name
func (r *Registry) Get(name string) Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metrics[name]
}

// Gather collects all metrics in Prometheus text format
func (r *Registry) Gather() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sb strings.Builder
	for _, name := range r.order {
		r.metrics[name].Write(&sb)
	}
	return sb.String()
}
