package api

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics holds process-lifetime counters for /metricz.
type Metrics struct {
	started time.Time

	requests  atomic.Int64
	byClass   [6]atomic.Int64 // index = status / 100
	latencyUS atomic.Int64    // summed handler time, microseconds

	schedulesRead  atomic.Int64
	scheduleWrites atomic.Int64
}

// MetricsSnapshot is the /metricz response body.
type MetricsSnapshot struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Requests       int64   `json:"requests"`
	ServerErrors   int64   `json:"server_errors"`
	ClientErrors   int64   `json:"client_errors"`
	MeanLatencyMS  float64 `json:"mean_latency_ms"`
	SchedulesRead  int64   `json:"schedules_read"`
	ScheduleWrites int64   `json:"schedule_writes"`
}

func NewMetrics() *Metrics {
	return &Metrics{started: time.Now()}
}

func (m *Metrics) observe(status int, took time.Duration) {
	m.requests.Add(1)
	m.latencyUS.Add(took.Microseconds())
	if c := status / 100; c > 0 && c < len(m.byClass) {
		m.byClass[c].Add(1)
	}
}

// RecordRead adds n to the count of schedules returned to clients.
func (m *Metrics) RecordRead(n int64) { m.schedulesRead.Add(n) }

// RecordWrite counts a successful create, update or delete.
func (m *Metrics) RecordWrite() { m.scheduleWrites.Add(1) }

func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		UptimeSeconds:  time.Since(m.started).Seconds(),
		Requests:       m.requests.Load(),
		ServerErrors:   m.byClass[5].Load(),
		ClientErrors:   m.byClass[4].Load(),
		SchedulesRead:  m.schedulesRead.Load(),
		ScheduleWrites: m.scheduleWrites.Load(),
	}
	if snap.Requests > 0 {
		snap.MeanLatencyMS = float64(m.latencyUS.Load()) / float64(snap.Requests) / 1000
	}
	return snap
}

func metricsMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)
			m.observe(rr.status, time.Since(start))
		})
	}
}
