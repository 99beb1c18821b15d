package infra

import (
	"testing"
)

func TestMetrics_RecordFetch(t *testing.T) {
	m := &Metrics{}

	m.RecordFetch(1000)
	m.RecordFetch(2000)
	m.RecordFetch(3000)

	snap := m.Snapshot()

	if snap.QuotesFetched != 3 {
		t.Errorf("Expected 3 fetches, got %d", snap.QuotesFetched)
	}

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgFetchLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgFetchLatencyNs)
	}
}

func TestMetrics_Subscribers(t *testing.T) {
	m := &Metrics{}

	m.IncrementSubscribers()
	m.IncrementSubscribers()
	m.IncrementSubscribers()

	snap := m.Snapshot()
	if snap.ActiveSubscribers != 3 {
		t.Errorf("Expected 3 subscribers, got %d", snap.ActiveSubscribers)
	}

	m.DecrementSubscribers()
	snap = m.Snapshot()
	if snap.ActiveSubscribers != 2 {
		t.Errorf("Expected 2 subscribers, got %d", snap.ActiveSubscribers)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordFetch(1000)
	m.RecordFetchFailure()
	m.RecordTick()
	m.RecordDroppedMessage()
	m.IncrementSubscribers()

	m.Reset()
	snap := m.Snapshot()

	if snap.QuotesFetched != 0 || snap.FetchFailures != 0 || snap.TicksEmitted != 0 ||
		snap.MessagesDropped != 0 || snap.ActiveSubscribers != 0 {
		t.Errorf("Reset should zero all metrics: %+v", snap)
	}
}
