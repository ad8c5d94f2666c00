package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// Collectors bundles the metrics the pokedex server records.
//
// # Label Conventions
//
//   - method: uppercase HTTP method (GET, HEAD, POST, PUT)
//   - route: the matched route pattern, such as /pokemon/{id}; unmatched
//     requests use "unmatched" so arbitrary paths cannot grow the series set
//   - status: numeric status code (200, 204, 404)
type Collectors struct {
	Registry *Registry

	// RequestsTotal counts handled requests.
	// Labels: method, route, status
	RequestsTotal *Counter

	// RequestDuration tracks request latency in seconds.
	// Labels: method, route
	RequestDuration *Histogram

	// Records reports the current catalog size.
	Records *Gauge
}

// New creates a registry with the pokedex collectors and the Go runtime
// gauges. records is sampled whenever /metrics is scraped.
func New(records func() int) *Collectors {
	reg := NewRegistry()
	c := &Collectors{
		Registry: reg,
		RequestsTotal: reg.NewCounter(
			"pokedex_http_requests_total",
			"Total number of HTTP requests",
			"method", "route", "status",
		),
		RequestDuration: reg.NewHistogram(
			"pokedex_http_request_duration_seconds",
			"Duration of HTTP requests in seconds",
			DefaultBuckets,
			"method", "route",
		),
		Records: reg.NewGaugeFunc(
			"pokedex_records",
			"Number of records in the catalog",
			func() float64 { return float64(records()) },
		),
	}
	RegisterRuntime(reg, time.Now())
	return c
}

// Observe records one finished request.
func (c *Collectors) Observe(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if vec, err := c.RequestsTotal.WithLabels(method, route, strconv.Itoa(status)); err == nil {
		_ = vec.Inc()
	}
	if vec, err := c.RequestDuration.WithLabels(method, route); err == nil {
		vec.Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return c.Registry.Handler()
}
