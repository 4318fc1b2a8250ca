package redfish

import (
	"sync/atomic"
	"time"

	uatomic "go.uber.org/atomic"
)

// LatencyBuckets defines the add-to-finish latency histogram buckets in
// nanoseconds, logarithmically spaced from 1us to 10s.
var LatencyBuckets = []uint64{
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
}

const numLatencyBuckets = 8

// Metrics tracks coordinator activity for a process: adds issued,
// recv_next calls, join completions, and reply failures.
type Metrics struct {
	AddsIssued     atomic.Uint64 // successful Add/AddTransactionOrFree calls
	AddsFailed     atomic.Uint64 // Add/AddTransactionOrFree calls that returned any error
	RecvNextCalls  atomic.Uint64 // RecvNext calls issued by onComplete
	JoinsCompleted atomic.Uint64 // Join calls that returned
	SlotsFinished  atomic.Uint64 // slots counted as finished across all joins
	ReplyFailures  atomic.Uint64 // Reply/StdReply calls that returned an error
	ResetCount     atomic.Uint64 // Reset calls

	// TotalLatencyNs and SlotCount accumulate add-to-finish latency for
	// computing an average; LatencyHistogram buckets the same samples
	// cumulatively.
	TotalLatencyNs atomic.Uint64
	SlotCount      atomic.Uint64
	LatencyHist    [numLatencyBuckets]atomic.Uint64

	// LastError is the most recently observed per-transaction transport
	// error, kept here purely for observability; per-transaction errors
	// are never hoisted into the coordinator's own return value.
	// go.uber.org/atomic.Error gives a lock-free store of an error
	// value, unlike stdlib sync/atomic which has no Error type.
	LastError uatomic.Error

	StartTime atomic.Int64 // process-wide metrics start, UnixNano
}

// NewMetrics returns a Metrics with StartTime set to now.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordAdd records the outcome of one Add/AddTransactionOrFree call.
func (m *Metrics) RecordAdd(ok bool) {
	if ok {
		m.AddsIssued.Add(1)
	} else {
		m.AddsFailed.Add(1)
	}
}

// RecordRecvNext records one RecvNext call issued by the completion
// callback.
func (m *Metrics) RecordRecvNext() {
	m.RecvNextCalls.Add(1)
}

// RecordSlotFinished records one slot reaching a terminal state and its
// add-to-finish latency, updating the cumulative histogram.
func (m *Metrics) RecordSlotFinished(latencyNs uint64) {
	m.SlotsFinished.Add(1)
	m.TotalLatencyNs.Add(latencyNs)
	m.SlotCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyHist[i].Add(1)
		}
	}
	// The last bucket doubles as a +Inf catch-all so a sample slower than
	// every defined bucket is still counted, rather than silently dropped
	// from the histogram view.
	if latencyNs > LatencyBuckets[numLatencyBuckets-1] {
		m.LatencyHist[numLatencyBuckets-1].Add(1)
	}
}

// RecordJoin records one Join call returning.
func (m *Metrics) RecordJoin() {
	m.JoinsCompleted.Add(1)
}

// RecordReset records one Reset call.
func (m *Metrics) RecordReset() {
	m.ResetCount.Add(1)
}

// RecordReplyFailure records one Reply/StdReply call returning an error,
// and stashes the error for observability.
func (m *Metrics) RecordReplyFailure(err error) {
	m.ReplyFailures.Add(1)
	m.LastError.Store(err)
}

// MetricsSnapshot is a point-in-time copy of Metrics's counters, safe to
// read without further synchronization.
type MetricsSnapshot struct {
	AddsIssued     uint64
	AddsFailed     uint64
	RecvNextCalls  uint64
	JoinsCompleted uint64
	SlotsFinished  uint64
	ReplyFailures  uint64
	ResetCount     uint64

	AvgLatencyNs uint64
	UptimeNs     uint64

	LatencyHistogram [numLatencyBuckets]uint64

	LastError error
}

// Snapshot returns a MetricsSnapshot of m's current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		AddsIssued:     m.AddsIssued.Load(),
		AddsFailed:     m.AddsFailed.Load(),
		RecvNextCalls:  m.RecvNextCalls.Load(),
		JoinsCompleted: m.JoinsCompleted.Load(),
		SlotsFinished:  m.SlotsFinished.Load(),
		ReplyFailures:  m.ReplyFailures.Load(),
		ResetCount:     m.ResetCount.Load(),
		LastError:      m.LastError.Load(),
	}

	total := m.TotalLatencyNs.Load()
	count := m.SlotCount.Load()
	if count > 0 {
		snap.AvgLatencyNs = total / count
	}

	snap.UptimeNs = uint64(time.Now().UnixNano() - m.StartTime.Load())

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyHist[i].Load()
	}

	return snap
}
