package server

import (
	"sync/atomic"
	"time"

	"github.com/Brownie44l1/boardgate/internal/response"
)

// Metrics holds server runtime metrics
type Metrics struct {
	RequestsTotal     atomic.Int64
	ActiveConnections atomic.Int64
	Errors4xx         atomic.Int64
	Errors5xx         atomic.Int64

	// Dropped counts connections closed without any response
	Dropped atomic.Int64

	TotalLatencyNs atomic.Int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequest records a completed request
func (m *Metrics) RecordRequest(code response.StatusCode, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	if code.IsClientError() {
		m.Errors4xx.Add(1)
	} else if code.IsServerError() {
		m.Errors5xx.Add(1)
	}
}

// RecordDropped records a connection that ended without a response
func (m *Metrics) RecordDropped() {
	m.Dropped.Add(1)
}

// AverageLatency returns average request latency
func (m *Metrics) AverageLatency() time.Duration {
	totalReqs := m.RequestsTotal.Load()
	if totalReqs == 0 {
		return 0
	}
	return time.Duration(m.TotalLatencyNs.Load() / totalReqs)
}

// MetricsSnapshot is a point-in-time copy of Metrics
type MetricsSnapshot struct {
	RequestsTotal     int64
	ActiveConnections int64
	Errors4xx         int64
	Errors5xx         int64
	Dropped           int64
	AverageLatency    time.Duration
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:     m.RequestsTotal.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		Errors4xx:         m.Errors4xx.Load(),
		Errors5xx:         m.Errors5xx.Load(),
		Dropped:           m.Dropped.Load(),
		AverageLatency:    m.AverageLatency(),
	}
}
