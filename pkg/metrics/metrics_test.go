package metrics

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	t.Run("without labels", func(t *testing.T) {
		c := NewRegistry().NewCounter("test_counter", "A test counter")

		require.NoError(t, c.Inc())
		require.NoError(t, c.Inc())
		require.NoError(t, c.Add(3))

		samples := c.Collect()
		require.Len(t, samples, 1)
		assert.Equal(t, 5.0, samples[0].Value)
	})

	t.Run("with labels", func(t *testing.T) {
		c := NewRegistry().NewCounter("http_requests", "Total HTTP requests", "method", "status")

		for _, labels := range [][]string{{"GET", "200"}, {"GET", "200"}, {"POST", "201"}} {
			vec, err := c.WithLabels(labels...)
			require.NoError(t, err)
			require.NoError(t, vec.Inc())
		}

		samples := c.Collect()
		require.Len(t, samples, 2)
		found := make(map[string]float64)
		for _, s := range samples {
			found[s.Labels["method"]+"_"+s.Labels["status"]] = s.Value
		}
		assert.Equal(t, map[string]float64{"GET_200": 2, "POST_201": 1}, found)
	})

	t.Run("wrong label count", func(t *testing.T) {
		c := NewRegistry().NewCounter("test", "test", "label1", "label2")
		_, err := c.WithLabels("only_one")
		assert.ErrorIs(t, err, ErrLabelCountMismatch)
	})

	t.Run("negative add", func(t *testing.T) {
		c := NewRegistry().NewCounter("test", "test")
		assert.ErrorIs(t, c.Add(-1), ErrNegativeCounterValue)
	})
}

func TestGauge(t *testing.T) {
	g := NewRegistry().NewGauge("test_gauge", "A test gauge")
	require.NoError(t, g.Set(10))
	require.NoError(t, g.Add(-3))

	samples := g.Collect()
	require.Len(t, samples, 1)
	assert.Equal(t, 7.0, samples[0].Value)
}

func TestGaugeFunc(t *testing.T) {
	n := 3
	g := NewRegistry().NewGaugeFunc("test_func", "Sampled", func() float64 { return float64(n) })

	assert.Equal(t, 3.0, g.Collect()[0].Value)
	n = 5
	assert.Equal(t, 5.0, g.Collect()[0].Value)
}

func TestHistogram(t *testing.T) {
	h := NewRegistry().NewHistogram("test_histogram", "A test histogram", []float64{1, 0.1})

	require.NoError(t, h.Observe(0.05))
	require.NoError(t, h.Observe(0.1))
	require.NoError(t, h.Observe(0.5))
	require.NoError(t, h.Observe(100))
	require.NoError(t, h.Observe(math.NaN()))

	values := make(map[string]float64)
	for _, s := range h.Collect() {
		values[s.Name+s.Labels["le"]] = s.Value
	}
	assert.Equal(t, 2.0, values["test_histogram_bucket0.1"], "bucket bounds are inclusive")
	assert.Equal(t, 3.0, values["test_histogram_bucket1"])
	assert.Equal(t, 5.0, values["test_histogram_bucket+Inf"])
	assert.Equal(t, 5.0, values["test_histogram_count"])
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.NewCounter("dup", "first")
	assert.Panics(t, func() { r.NewGauge("dup", "second") })
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()

	c := r.NewCounter("test_requests_total", "Total requests", "method")
	g := r.NewGauge("test_active", "Active items")
	h := r.NewHistogram("test_duration_seconds", "Duration", []float64{0.1, 1.0})
	r.NewCounter("test_unused_total", "Never incremented")

	vec, _ := c.WithLabels("GET")
	_ = vec.Inc()
	vec, _ = c.WithLabels(`PO"ST`)
	_ = vec.Add(5)
	_ = g.Set(42)
	_ = h.Observe(0.5)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	output := rec.Body.String()

	for _, expected := range []string{
		"# HELP test_requests_total Total requests",
		"# TYPE test_requests_total counter",
		`test_requests_total{method="GET"} 1`,
		`test_requests_total{method="PO\"ST"} 5`,
		"# TYPE test_active gauge",
		"test_active 42",
		"# TYPE test_duration_seconds histogram",
		`test_duration_seconds_bucket{le="0.1"} 0`,
		`test_duration_seconds_bucket{le="1"} 1`,
		`test_duration_seconds_bucket{le="+Inf"} 1`,
		"test_duration_seconds_sum 0.5",
		"test_duration_seconds_count 1",
	} {
		assert.Contains(t, output, expected)
	}
	assert.NotContains(t, output, "test_unused_total", "metrics without samples are omitted")

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/metrics", nil))
	assert.Empty(t, rec.Body.String())
}

func TestConcurrency(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("concurrent_counter", "Test counter", "worker")
	h := r.NewHistogram("concurrent_histogram", "Test histogram", []float64{1, 10, 100})

	const workers, iterations = 50, 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				vec, _ := c.WithLabels("worker")
				_ = vec.Inc()
				_ = h.Observe(float64(j % 50))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(workers*iterations), c.Collect()[0].Value)
	for _, s := range h.Collect() {
		if strings.HasSuffix(s.Name, "_count") {
			assert.Equal(t, float64(workers*iterations), s.Value)
		}
	}
}

func TestCollectors(t *testing.T) {
	records := 29
	m := New(func() int { return records })

	m.Observe(http.MethodGet, "/pokemon/{id}", http.StatusOK, 20*time.Millisecond)
	m.Observe(http.MethodGet, "/pokemon/{id}", http.StatusOK, 30*time.Millisecond)
	m.Observe(http.MethodPost, "/addPokemon", http.StatusCreated, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	output := rec.Body.String()

	assert.Contains(t, output, `pokedex_http_requests_total{method="GET",route="/pokemon/{id}",status="200"} 2`)
	assert.Contains(t, output, `pokedex_http_requests_total{method="POST",route="/addPokemon",status="201"} 1`)
	assert.Contains(t, output, `pokedex_http_request_duration_seconds_count{method="GET",route="/pokemon/{id}"} 2`)
	assert.Contains(t, output, "pokedex_records 29")
	assert.Contains(t, output, "# TYPE go_goroutines gauge")
	assert.Contains(t, output, "pokedex_uptime_seconds ")
}

func TestCollectors_NilObserve(t *testing.T) {
	var m *Collectors
	assert.NotPanics(t, func() { m.Observe(http.MethodGet, "/", http.StatusOK, time.Second) })
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0:             "0",
		42:            "42",
		0.5:           "0.5",
		math.Inf(1):   "+Inf",
		math.Inf(-1):  "-Inf",
		0.001:         "0.001",
		1234567890123: "1.234567890123e+12",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatFloat(in))
	}
	assert.Equal(t, "NaN", formatFloat(math.NaN()))
}
