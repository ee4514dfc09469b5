package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrLabelCountMismatch is returned when the number of label values doesn't
// match the defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// ErrDuplicateMetric is returned when registering a metric with a name that
// is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// atomicFloat64 stores the bits of a float64 as a uint64 for atomic access.
type atomicFloat64 struct {
	bits uint64
}

func (a *atomicFloat64) Load() float64 {
	return math.Float64frombits(atomic.LoadUint64(&a.bits))
}

func (a *atomicFloat64) Add(delta float64) {
	for {
		old := atomic.LoadUint64(&a.bits)
		next := math.Float64frombits(old) + delta
		if atomic.CompareAndSwapUint64(&a.bits, old, math.Float64bits(next)) {
			return
		}
	}
}

// Sample represents a single metric sample with labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Metric is the interface implemented by all metric types.
type Metric interface {
	Name() string
	Help() string
	Type() string
	Collect() []Sample
}

// Counter is a monotonically increasing metric with a fixed label set.
type Counter struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]*counterValue
}

type counterValue struct {
	labels map[string]string
	value  atomicFloat64
}

// Name returns the metric name.
func (c *Counter) Name() string { return c.name }

// Help returns the help text.
func (c *Counter) Help() string { return c.help }

// Type returns the Prometheus type string.
func (c *Counter) Type() string { return "counter" }

// Inc increments the counter for the given label values.
func (c *Counter) Inc(labelValues ...string) error {
	cv, err := c.value(labelValues)
	if err != nil {
		return err
	}
	cv.value.Add(1)
	return nil
}

func (c *Counter) value(labelValues []string) (*counterValue, error) {
	if len(labelValues) != len(c.labelNames) {
		return nil, fmt.Errorf("%w: counter %s expected %d labels, got %d",
			ErrLabelCountMismatch, c.name, len(c.labelNames), len(labelValues))
	}

	key := strings.Join(labelValues, "\x00")
	c.mu.RLock()
	cv, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return cv, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok = c.values[key]; ok {
		return cv, nil
	}
	labels := make(map[string]string, len(c.labelNames))
	for i, name := range c.labelNames {
		labels[name] = labelValues[i]
	}
	cv = &counterValue{labels: labels}
	c.values[key] = cv
	return cv, nil
}

// Collect returns all samples.
func (c *Counter) Collect() []Sample {
	c.mu.RLock()
	defer c.mu.RUnlock()
	samples := make([]Sample, 0, len(c.values))
	for _, cv := range c.values {
		samples = append(samples, Sample{Name: c.name, Labels: cv.labels, Value: cv.value.Load()})
	}
	return samples
}

// Histogram tracks the distribution of observed values in cumulative
// buckets, with _sum and _count aggregations.
type Histogram struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.RWMutex
	values     map[string]*histogramValue
}

type histogramValue struct {
	labels map[string]string
	counts []uint64
	sum    atomicFloat64
	count  uint64
}

// DefaultDurationBuckets suit request latencies in seconds.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Name returns the metric name.
func (h *Histogram) Name() string { return h.name }

// Help returns the help text.
func (h *Histogram) Help() string { return h.help }

// Type returns the Prometheus type string.
func (h *Histogram) Type() string { return "histogram" }

// Observe records a value for the given label values.
func (h *Histogram) Observe(value float64, labelValues ...string) error {
	hv, err := h.value(labelValues)
	if err != nil {
		return err
	}
	for i, bound := range h.buckets {
		if value <= bound {
			atomic.AddUint64(&hv.counts[i], 1)
			break
		}
	}
	hv.sum.Add(value)
	atomic.AddUint64(&hv.count, 1)
	return nil
}

func (h *Histogram) value(labelValues []string) (*histogramValue, error) {
	if len(labelValues) != len(h.labelNames) {
		return nil, fmt.Errorf("%w: histogram %s expected %d labels, got %d",
			ErrLabelCountMismatch, h.name, len(h.labelNames), len(labelValues))
	}

	key := strings.Join(labelValues, "\x00")
	h.mu.RLock()
	hv, ok := h.values[key]
	h.mu.RUnlock()
	if ok {
		return hv, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if hv, ok = h.values[key]; ok {
		return hv, nil
	}
	labels := make(map[string]string, len(h.labelNames))
	for i, name := range h.labelNames {
		labels[name] = labelValues[i]
	}
	hv = &histogramValue{labels: labels, counts: make([]uint64, len(h.buckets))}
	h.values[key] = hv
	return hv, nil
}

// Collect returns bucket, _sum and _count samples.
func (h *Histogram) Collect() []Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()

	samples := make([]Sample, 0, (len(h.buckets)+2)*len(h.values))
	for _, hv := range h.values {
		cumulative := uint64(0)
		for i, bound := range h.buckets {
			cumulative += atomic.LoadUint64(&hv.counts[i])
			labels := make(map[string]string, len(hv.labels)+1)
			for k, v := range hv.labels {
				labels[k] = v
			}
			if math.IsInf(bound, 1) {
				labels["le"] = "+Inf"
			} else {
				labels["le"] = strconv.FormatFloat(bound, 'g', -1, 64)
			}
			samples = append(samples, Sample{Name: h.name + "_bucket", Labels: labels, Value: float64(cumulative)})
		}
		samples = append(samples, Sample{Name: h.name + "_sum", Labels: hv.labels, Value: hv.sum.Load()})
		samples = append(samples, Sample{Name: h.name + "_count", Labels: hv.labels, Value: float64(atomic.LoadUint64(&hv.count))})
	}
	return samples
}

// Registry holds registered metrics.
type Registry struct {
	mu      sync.RWMutex
	metrics []Metric
	names   map[string]struct{}
}

// NewRegistry creates an empty metric registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter creates and registers a counter.
func (r *Registry) NewCounter(name, help string, labelNames ...string) (*Counter, error) {
	c := &Counter{name: name, help: help, labelNames: labelNames, values: make(map[string]*counterValue)}
	if err := r.register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewHistogram creates and registers a histogram. Buckets are sorted and a
// +Inf bucket is appended when missing.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labelNames ...string) (*Histogram, error) {
	sorted := make([]float64, len(buckets))
	copy(sorted, buckets)
	sort.Float64s(sorted)
	if len(sorted) == 0 || !math.IsInf(sorted[len(sorted)-1], 1) {
		sorted = append(sorted, math.Inf(1))
	}

	h := &Histogram{name: name, help: help, labelNames: labelNames, buckets: sorted, values: make(map[string]*histogramValue)}
	if err := r.register(h); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *Registry) register(m Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[m.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMetric, m.Name())
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
	return nil
}

// Gather returns all metrics in registration order.
func (r *Registry) Gather() []Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Metric, len(r.metrics))
	copy(out, r.metrics)
	return out
}
