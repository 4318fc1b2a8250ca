package redfish

import (
	"errors"
	"testing"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	snap := m.Snapshot()
	if snap.AddsIssued != 0 {
		t.Errorf("Expected 0 initial adds, got %d", snap.AddsIssued)
	}

	m.RecordAdd(true)
	m.RecordAdd(true)
	m.RecordAdd(false)
	m.RecordRecvNext()
	m.RecordSlotFinished(500_000) // 500us
	m.RecordSlotFinished(1_500_000)
	m.RecordJoin()

	snap = m.Snapshot()
	if snap.AddsIssued != 2 {
		t.Errorf("Expected 2 adds issued, got %d", snap.AddsIssued)
	}
	if snap.AddsFailed != 1 {
		t.Errorf("Expected 1 add failed, got %d", snap.AddsFailed)
	}
	if snap.RecvNextCalls != 1 {
		t.Errorf("Expected 1 recv_next call, got %d", snap.RecvNextCalls)
	}
	if snap.SlotsFinished != 2 {
		t.Errorf("Expected 2 slots finished, got %d", snap.SlotsFinished)
	}
	if snap.JoinsCompleted != 1 {
		t.Errorf("Expected 1 join completed, got %d", snap.JoinsCompleted)
	}

	expectedAvg := uint64((500_000 + 1_500_000) / 2)
	if snap.AvgLatencyNs != expectedAvg {
		t.Errorf("Expected avg latency %d, got %d", expectedAvg, snap.AvgLatencyNs)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics()

	m.RecordSlotFinished(500) // under every bucket
	snap := m.Snapshot()
	for i, count := range snap.LatencyHistogram {
		if count != 1 {
			t.Errorf("Expected bucket %d to count the 500ns sample, got %d", i, count)
		}
	}
}

func TestMetricsLatencyHistogramOverflowBucket(t *testing.T) {
	m := NewMetrics()

	m.RecordSlotFinished(LatencyBuckets[numLatencyBuckets-1] + 1) // slower than every bucket
	snap := m.Snapshot()

	if snap.SlotsFinished != 1 {
		t.Fatalf("Expected 1 slot finished, got %d", snap.SlotsFinished)
	}
	for i, count := range snap.LatencyHistogram {
		if i == numLatencyBuckets-1 {
			if count != 1 {
				t.Errorf("Expected the overflow sample to land in the last bucket, got %d", count)
			}
			continue
		}
		if count != 0 {
			t.Errorf("Expected bucket %d to not count the overflow sample, got %d", i, count)
		}
	}
}

func TestMetricsReplyFailure(t *testing.T) {
	m := NewMetrics()
	sampleErr := errors.New("connection reset")

	m.RecordReplyFailure(sampleErr)

	snap := m.Snapshot()
	if snap.ReplyFailures != 1 {
		t.Errorf("Expected 1 reply failure, got %d", snap.ReplyFailures)
	}
	if snap.LastError != sampleErr {
		t.Errorf("Expected LastError to be the recorded error, got %v", snap.LastError)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordReset()
	m.RecordReset()

	if snap := m.Snapshot(); snap.ResetCount != 2 {
		t.Errorf("Expected 2 resets, got %d", snap.ResetCount)
	}
}
