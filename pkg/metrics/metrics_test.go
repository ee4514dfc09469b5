package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.NewCounter("requests_total", "Total requests.", "method", "status")
	require.NoError(t, err)

	require.NoError(t, c.Inc("GET", "200"))
	require.NoError(t, c.Inc("GET", "200"))
	require.NoError(t, c.Inc("POST", "201"))

	samples := c.Collect()
	require.Len(t, samples, 2)

	byLabels := map[string]float64{}
	for _, s := range samples {
		byLabels[s.Labels["method"]+"/"+s.Labels["status"]] = s.Value
	}
	assert.Equal(t, 2.0, byLabels["GET/200"])
	assert.Equal(t, 1.0, byLabels["POST/201"])
}

func TestCounterLabelMismatch(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.NewCounter("c", "help", "method")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Inc("GET", "extra"), ErrLabelCountMismatch)
	assert.ErrorIs(t, c.Inc(), ErrLabelCountMismatch)
}

func TestDuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.NewCounter("dup", "help")
	require.NoError(t, err)
	_, err = reg.NewHistogram("dup", "help", nil)
	assert.ErrorIs(t, err, ErrDuplicateMetric)
}

func TestHistogramObserve(t *testing.T) {
	reg := NewRegistry()
	h, err := reg.NewHistogram("duration_seconds", "Request duration.", []float64{0.1, 1}, "method")
	require.NoError(t, err)

	require.NoError(t, h.Observe(0.05, "GET"))
	require.NoError(t, h.Observe(0.5, "GET"))
	require.NoError(t, h.Observe(3, "GET"))

	samples := h.Collect()
	values := map[string]float64{}
	for _, s := range samples {
		values[s.Name+s.Labels["le"]] = s.Value
	}

	assert.Equal(t, 1.0, values["duration_seconds_bucket0.1"])
	assert.Equal(t, 2.0, values["duration_seconds_bucket1"])
	assert.Equal(t, 3.0, values["duration_seconds_bucket+Inf"])
	assert.Equal(t, 3.0, values["duration_seconds_count"])
	assert.InDelta(t, 3.55, values["duration_seconds_sum"], 1e-9)
}

func TestExposition(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.NewCounter("requests_total", "Total requests.", "method")
	require.NoError(t, err)
	require.NoError(t, c.Inc("GET"))

	out := reg.Exposition()
	assert.Contains(t, out, "# HELP requests_total Total requests.")
	assert.Contains(t, out, "# TYPE requests_total counter")
	assert.Contains(t, out, `requests_total{method="GET"} 1`)
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.NewCounter("hits", "Hits.")
	require.NoError(t, err)
	require.NoError(t, c.Inc())

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "hits 1")
}

func TestConcurrentUpdates(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.NewCounter("n", "help", "worker")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = c.Inc("w")
			}
		}()
	}
	wg.Wait()

	samples := c.Collect()
	require.Len(t, samples, 1)
	assert.Equal(t, 8000.0, samples[0].Value)
}
