package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	quotesFetched   atomic.Uint64
	fetchFailures   atomic.Uint64
	ticksEmitted    atomic.Uint64
	messagesDropped atomic.Uint64

	// Latency tracking for provider fetches
	fetchLatencySumNs atomic.Int64
	fetchLatencyCount atomic.Uint64

	// Gauges
	activeSubscribers atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordFetch records a successful provider fetch with its latency.
func (m *Metrics) RecordFetch(latencyNs int64) {
	m.quotesFetched.Add(1)
	m.fetchLatencySumNs.Add(latencyNs)
	m.fetchLatencyCount.Add(1)
}

// RecordFetchFailure records a failed provider fetch.
func (m *Metrics) RecordFetchFailure() {
	m.fetchFailures.Add(1)
}

// RecordTick records one emitted feed tick.
func (m *Metrics) RecordTick() {
	m.ticksEmitted.Add(1)
}

// RecordDroppedMessage records a message dropped due to subscriber backpressure.
func (m *Metrics) RecordDroppedMessage() {
	m.messagesDropped.Add(1)
}

// IncrementSubscribers increments active subscribers by 1.
func (m *Metrics) IncrementSubscribers() {
	m.activeSubscribers.Add(1)
}

// DecrementSubscribers decrements active subscribers by 1.
func (m *Metrics) DecrementSubscribers() {
	m.activeSubscribers.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	QuotesFetched     uint64    `json:"quotes_fetched"`
	FetchFailures     uint64    `json:"fetch_failures"`
	TicksEmitted      uint64    `json:"ticks_emitted"`
	MessagesDropped   uint64    `json:"messages_dropped"`
	AvgFetchLatencyNs int64     `json:"avg_fetch_latency_ns"`
	ActiveSubscribers int32     `json:"active_subscribers"`
	Timestamp         time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.fetchLatencyCount.Load()
	if count > 0 {
		avgLatency = m.fetchLatencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		QuotesFetched:     m.quotesFetched.Load(),
		FetchFailures:     m.fetchFailures.Load(),
		TicksEmitted:      m.ticksEmitted.Load(),
		MessagesDropped:   m.messagesDropped.Load(),
		AvgFetchLatencyNs: avgLatency,
		ActiveSubscribers: m.activeSubscribers.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.quotesFetched.Store(0)
	m.fetchFailures.Store(0)
	m.ticksEmitted.Store(0)
	m.messagesDropped.Store(0)
	m.fetchLatencySumNs.Store(0)
	m.fetchLatencyCount.Store(0)
	m.activeSubscribers.Store(0)
}
