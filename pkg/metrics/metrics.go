package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/getmockd/pokedex/pkg/httputil"
)

// ContentType is the Prometheus text exposition content type.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// ErrLabelCountMismatch is returned when the number of label values doesn't match the defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// ErrNegativeCounterValue is returned when attempting to add a negative value to a counter.
var ErrNegativeCounterValue = errors.New("counter cannot be decreased")

// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// atomicFloat64 stores the bits of a float64 in a uint64 for atomic access.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Load() float64 { return math.Float64frombits(a.bits.Load()) }

func (a *atomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }

func (a *atomicFloat64) Add(delta float64) {
	for {
		old := a.bits.Load()
		if a.bits.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+delta)) {
			return
		}
	}
}

// MetricType represents the type of a metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the interface implemented by all metric types.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	// Collect returns all samples for exposition.
	Collect() []Sample
}

// Sample represents a single metric sample with labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// family holds the label series shared by every metric type. newSeries
// creates the per-series state the first time a label combination is seen.
type family[S any] struct {
	name       string
	help       string
	labelNames []string

	mu     sync.RWMutex
	series map[string]*labeled[S]
}

type labeled[S any] struct {
	labels map[string]string
	state  *S
}

func (f *family[S]) init(name, help string, labelNames []string) {
	f.name = name
	f.help = help
	f.labelNames = labelNames
	f.series = make(map[string]*labeled[S])
}

func (f *family[S]) Name() string { return f.name }
func (f *family[S]) Help() string { return f.help }

func (f *family[S]) lookup(kind MetricType, values []string, newSeries func() *S) (*S, error) {
	if len(values) != len(f.labelNames) {
		return nil, fmt.Errorf("%w: %s %s expected %d labels, got %d",
			ErrLabelCountMismatch, kind, f.name, len(f.labelNames), len(values))
	}

	key := strings.Join(values, "\x00")
	f.mu.RLock()
	s, ok := f.series[key]
	f.mu.RUnlock()
	if ok {
		return s.state, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok = f.series[key]; ok {
		return s.state, nil
	}
	labels := make(map[string]string, len(f.labelNames))
	for i, name := range f.labelNames {
		labels[name] = values[i]
	}
	s = &labeled[S]{labels: labels, state: newSeries()}
	f.series[key] = s
	return s.state, nil
}

// each calls fn for every series in a stable order.
func (f *family[S]) each(fn func(labels map[string]string, state *S)) {
	f.mu.RLock()
	keys := make([]string, 0, len(f.series))
	for k := range f.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	series := make([]*labeled[S], len(keys))
	for i, k := range keys {
		series[i] = f.series[k]
	}
	f.mu.RUnlock()

	for _, s := range series {
		fn(s.labels, s.state)
	}
}

// Counter is a monotonically increasing metric.
type Counter struct {
	family[atomicFloat64]
}

// Type returns the metric type.
func (c *Counter) Type() MetricType { return MetricTypeCounter }

// WithLabels returns the series for the given label values.
func (c *Counter) WithLabels(values ...string) (*CounterVec, error) {
	v, err := c.lookup(MetricTypeCounter, values, func() *atomicFloat64 { return new(atomicFloat64) })
	if err != nil {
		return nil, err
	}
	return &CounterVec{v: v}, nil
}

// Inc increments an unlabeled counter by 1.
func (c *Counter) Inc() error { return c.Add(1) }

// Add adds delta to an unlabeled counter.
func (c *Counter) Add(delta float64) error {
	vec, err := c.WithLabels()
	if err != nil {
		return err
	}
	return vec.Add(delta)
}

// Collect returns all metric samples.
func (c *Counter) Collect() []Sample {
	var samples []Sample
	c.each(func(labels map[string]string, v *atomicFloat64) {
		samples = append(samples, Sample{Name: c.name, Labels: labels, Value: v.Load()})
	})
	return samples
}

// CounterVec is one label combination of a Counter.
type CounterVec struct {
	v *atomicFloat64
}

// Inc increments the counter by 1.
func (v *CounterVec) Inc() error { return v.Add(1) }

// Add adds delta to the counter. Returns an error if delta is negative.
func (v *CounterVec) Add(delta float64) error {
	if delta < 0 {
		return ErrNegativeCounterValue
	}
	v.v.Add(delta)
	return nil
}

// Gauge is a metric that can arbitrarily go up and down.
type Gauge struct {
	family[atomicFloat64]
	fn func() float64
}

// Type returns the metric type.
func (g *Gauge) Type() MetricType { return MetricTypeGauge }

// WithLabels returns the series for the given label values.
func (g *Gauge) WithLabels(values ...string) (*GaugeVec, error) {
	v, err := g.lookup(MetricTypeGauge, values, func() *atomicFloat64 { return new(atomicFloat64) })
	if err != nil {
		return nil, err
	}
	return &GaugeVec{v: v}, nil
}

// Set sets an unlabeled gauge.
func (g *Gauge) Set(value float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Set(value)
	return nil
}

// Add adds delta to an unlabeled gauge.
func (g *Gauge) Add(delta float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Add(delta)
	return nil
}

// Collect returns all metric samples. Function gauges are sampled now.
func (g *Gauge) Collect() []Sample {
	if g.fn != nil {
		return []Sample{{Name: g.name, Value: g.fn()}}
	}
	var samples []Sample
	g.each(func(labels map[string]string, v *atomicFloat64) {
		samples = append(samples, Sample{Name: g.name, Labels: labels, Value: v.Load()})
	})
	return samples
}

// GaugeVec is one label combination of a Gauge.
type GaugeVec struct {
	v *atomicFloat64
}

// Set sets the gauge to value.
func (v *GaugeVec) Set(value float64) { v.v.Store(value) }

// Add adds delta to the gauge.
func (v *GaugeVec) Add(delta float64) { v.v.Add(delta) }

// Histogram tracks the distribution of observed values.
type Histogram struct {
	family[histogramState]
	buckets []float64 // sorted upper bounds ending in +Inf
}

type histogramState struct {
	counts []atomic.Uint64
	sum    atomicFloat64
	count  atomic.Uint64
}

// Type returns the metric type.
func (h *Histogram) Type() MetricType { return MetricTypeHistogram }

// WithLabels returns the series for the given label values.
func (h *Histogram) WithLabels(values ...string) (*HistogramVec, error) {
	s, err := h.lookup(MetricTypeHistogram, values, func() *histogramState {
		return &histogramState{counts: make([]atomic.Uint64, len(h.buckets))}
	})
	if err != nil {
		return nil, err
	}
	return &HistogramVec{buckets: h.buckets, s: s}, nil
}

// Observe records a value in an unlabeled histogram.
func (h *Histogram) Observe(value float64) error {
	vec, err := h.WithLabels()
	if err != nil {
		return err
	}
	vec.Observe(value)
	return nil
}

// Collect returns the cumulative bucket, _sum and _count samples.
func (h *Histogram) Collect() []Sample {
	var samples []Sample
	h.each(func(labels map[string]string, s *histogramState) {
		var cumulative uint64
		for i, bound := range h.buckets {
			cumulative += s.counts[i].Load()
			bucketLabels := make(map[string]string, len(labels)+1)
			for k, v := range labels {
				bucketLabels[k] = v
			}
			bucketLabels["le"] = formatFloat(bound)
			samples = append(samples, Sample{Name: h.name + "_bucket", Labels: bucketLabels, Value: float64(cumulative)})
		}
		samples = append(samples,
			Sample{Name: h.name + "_sum", Labels: labels, Value: s.sum.Load()},
			Sample{Name: h.name + "_count", Labels: labels, Value: float64(s.count.Load())},
		)
	})
	return samples
}

// HistogramVec is one label combination of a Histogram.
type HistogramVec struct {
	buckets []float64
	s       *histogramState
}

// Observe records a value.
func (v *HistogramVec) Observe(value float64) {
	i := sort.SearchFloat64s(v.buckets, value)
	if i == len(v.buckets) {
		i-- // NaN
	}
	v.s.counts[i].Add(1)
	v.s.sum.Add(value)
	v.s.count.Add(1)
}

// Registry holds all registered metrics.
type Registry struct {
	mu      sync.RWMutex
	metrics []Metric
	names   map[string]struct{}
}

// NewRegistry creates a new metric registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter creates and registers a new counter.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := &Counter{}
	c.init(name, help, labels)
	r.register(c)
	return c
}

// NewGauge creates and registers a new gauge.
func (r *Registry) NewGauge(name, help string, labels ...string) *Gauge {
	g := &Gauge{}
	g.init(name, help, labels)
	r.register(g)
	return g
}

// NewGaugeFunc registers an unlabeled gauge whose value is read from fn at
// exposition time.
func (r *Registry) NewGaugeFunc(name, help string, fn func() float64) *Gauge {
	g := &Gauge{fn: fn}
	g.init(name, help, nil)
	r.register(g)
	return g
}

// NewHistogram creates and registers a new histogram with the given buckets.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels ...string) *Histogram {
	sorted := append([]float64(nil), buckets...)
	sort.Float64s(sorted)
	if len(sorted) == 0 || !math.IsInf(sorted[len(sorted)-1], 1) {
		sorted = append(sorted, math.Inf(1))
	}
	h := &Histogram{buckets: sorted}
	h.init(name, help, labels)
	r.register(h)
	return h
}

// register panics on a duplicate name since it would produce invalid output.
func (r *Registry) register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[m.Name()]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateMetric, m.Name()))
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
}

// WriteTo writes every metric with at least one sample in Prometheus text format.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	r.mu.RLock()
	metrics := append([]Metric(nil), r.metrics...)
	r.mu.RUnlock()

	var buf bytes.Buffer
	for _, m := range metrics {
		writeMetric(&buf, m)
	}
	return buf.WriteTo(w)
}

// Handler returns an http.Handler that serves the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var buf bytes.Buffer
		_, _ = r.WriteTo(&buf)
		httputil.WriteBlob(w, req, http.StatusOK, ContentType, buf.Bytes())
	})
}

func writeMetric(buf *bytes.Buffer, m Metric) {
	samples := m.Collect()
	if len(samples) == 0 {
		return
	}
	fmt.Fprintf(buf, "# HELP %s %s\n", m.Name(), escapeHelp(m.Help()))
	fmt.Fprintf(buf, "# TYPE %s %s\n", m.Name(), m.Type())
	for _, s := range samples {
		buf.WriteString(s.Name)
		if len(s.Labels) > 0 {
			buf.WriteByte('{')
			buf.WriteString(formatLabels(s.Labels))
			buf.WriteByte('}')
		}
		buf.WriteByte(' ')
		buf.WriteString(formatFloat(s.Value))
		buf.WriteByte('\n')
	}
}

// formatLabels formats labels as key="value" pairs sorted by key.
func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + `="` + escapeLabelValue(labels[k]) + `"`
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escapeHelp(s string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(s)
}

func escapeLabelValue(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
}

// DefaultBuckets are the default histogram buckets for request durations (in seconds).
var DefaultBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
