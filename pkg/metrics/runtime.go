package metrics

import (
	"runtime"
	"time"
)

// RegisterRuntime registers Go runtime and process uptime gauges. Values are
// read at scrape time.
func RegisterRuntime(r *Registry, start time.Time) {
	r.NewGaugeFunc("go_goroutines", "Number of goroutines that currently exist", func() float64 {
		return float64(runtime.NumGoroutine())
	})
	r.NewGaugeFunc("go_memstats_heap_alloc_bytes", "Number of heap bytes allocated and still in use", func() float64 {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return float64(ms.HeapAlloc)
	})
	r.NewGaugeFunc("pokedex_uptime_seconds", "Server uptime in seconds", func() float64 {
		return time.Since(start).Seconds()
	})
}
