// Package monitoring provides lightweight in-memory metrics for request
// durations plus pprof wiring for the admin server. No external metrics
// backend; a JSON snapshot endpoint is enough for a single-user service.
package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	pp "net/http/pprof"
)

// Metrics keeps a circular buffer of recent request durations and per
// status-class counters.
type Metrics struct {
	mu        sync.Mutex
	durations []float64 // milliseconds, last N samples
	idx       int
	count     int64 // total requests observed
	n         int   // capacity
	byClass   [6]int64
}

func NewMetrics(capacity int) *Metrics {
	if capacity <= 0 {
		capacity = 256
	}
	return &Metrics{durations: make([]float64, capacity), n: capacity}
}

// Observe records one request: duration in milliseconds and status code.
func (m *Metrics) Observe(ms float64, status int) {
	m.mu.Lock()
	m.durations[m.idx] = ms
	m.idx = (m.idx + 1) % m.n
	m.count++
	if class := status / 100; class >= 1 && class <= 5 {
		m.byClass[class]++
	}
	m.mu.Unlock()
}

// Snapshot returns request count, mean and quantiles over recent samples,
// and per status-class totals.
func (m *Metrics) Snapshot() (count int64, avg, p50, p95 float64, byClass map[string]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var samples []float64
	if m.count < int64(m.n) {
		samples = append(samples, m.durations[:m.idx]...)
	} else {
		samples = append(samples, m.durations...)
	}
	byClass = map[string]int64{
		"2xx": m.byClass[2], "4xx": m.byClass[4], "5xx": m.byClass[5],
	}
	if len(samples) == 0 {
		return m.count, 0, 0, 0, byClass
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	avg = sum / float64(len(samples))
	sort.Float64s(samples)
	p50 = samples[(len(samples)*50)/100]
	p95 = samples[(len(samples)*95)/100]
	return m.count, avg, p50, p95, byClass
}

// statusWriter captures the response status code.
type statusWriter struct {
	w          http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) Header() http.Header         { return sw.w.Header() }
func (sw *statusWriter) Write(b []byte) (int, error) { return sw.w.Write(b) }
func (sw *statusWriter) WriteHeader(statusCode int) {
	sw.statusCode = statusCode
	sw.w.WriteHeader(statusCode)
}

// Middleware measures request duration and status. No per-route labels;
// keep it simple.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{w: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)
			m.Observe(time.Since(start).Seconds()*1000.0, sw.statusCode)
		})
	}
}

// MetricsHandler exposes runtime and request metrics in JSON.
func MetricsHandler(m *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		count, avg, p50, p95, byClass := m.Snapshot()
		resp := map[string]interface{}{
			"time":             time.Now().Format(time.RFC3339),
			"requests_total":   count,
			"requests_status":  byClass,
			"duration_ms_avg":  avg,
			"duration_ms_p50":  p50,
			"duration_ms_p95":  p95,
			"goroutines":       runtime.NumGoroutine(),
			"mem_alloc_bytes":  ms.Alloc,
			"heap_inuse_bytes": ms.HeapInuse,
			"gc_num":           ms.NumGC,
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
}

// RegisterPprof registers the standard pprof handlers on the provided mux
// under /debug/pprof/.
func RegisterPprof(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pp.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pp.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pp.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pp.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pp.Trace)
	mux.Handle("/debug/pprof/goroutine", pp.Handler("goroutine"))
	mux.Handle("/debug/pprof/heap", pp.Handler("heap"))
}

// EnableProfiling toggles block/mutex profiling rates.
func EnableProfiling(enabled bool) {
	if enabled {
		runtime.SetBlockProfileRate(1)
		runtime.SetMutexProfileFraction(5)
	} else {
		runtime.SetBlockProfileRate(0)
		runtime.SetMutexProfileFraction(0)
	}
}
