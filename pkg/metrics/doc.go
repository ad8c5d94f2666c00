// Package metrics provides Prometheus-compatible metrics collection for the
// pokedex server.
//
// The registry writes the Prometheus text exposition format
// (text/plain; version=0.0.4). Counters, gauges and histograms are safe for
// concurrent use. Function gauges are sampled when the registry is scraped.
//
// # Usage
//
//	m := metrics.New(store.Len)
//	m.Observe("GET", "/pokemon/{id}", 200, elapsed)
//	mux.Handle("/metrics", m.Handler())
//
// Custom metrics can also be created:
//
//	registry := metrics.NewRegistry()
//	counter := registry.NewCounter("my_counter", "Description of counter", "label1")
//	vec, _ := counter.WithLabels("value1")
//	_ = vec.Inc()
package metrics
