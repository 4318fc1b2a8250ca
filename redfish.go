package redfish

import (
	"context"
	"time"

	"github.com/redfish-fs/redfish/internal/bsend"
	"github.com/redfish-fs/redfish/internal/constants"
	"github.com/redfish-fs/redfish/internal/fastlog"
	"github.com/redfish-fs/redfish/internal/logging"
	"github.com/redfish-fs/redfish/internal/msgr"
)

// Re-exported bsend/msgr types so callers never need to import the
// internal packages directly.
type (
	// Flags is bsend's per-slot bit set.
	Flags = bsend.Flags
	// Transaction is the shared messenger/bsend transaction value.
	Transaction = msgr.Transaction
	// Message is the payload carried by a Transaction.
	Message = msgr.Message
	// Messenger is the external transport contract bsend consumes.
	Messenger = msgr.Messenger
	// State is a Transaction's lifecycle state.
	State = msgr.State
)

// FlagExpectResponse marks a two-way slot, one expecting a response in
// addition to send confirmation.
const FlagExpectResponse = bsend.FlagExpectResponse

const (
	StateInit     = msgr.Init
	StateSent     = msgr.Sent
	StateRecv     = msgr.Recv
	StateTerminal = msgr.Terminal
)

// Coordinator pairs a bsend.Context with the Messenger it fans out over,
// a metrics sink, and the module's textual/fast-log diagnostics. It is
// the main API entry point: a small struct wiring the bounded
// coordinator core to its ambient stack, injected at construction
// rather than reached through ambient globals.
type Coordinator struct {
	ctx     *bsend.Context
	m       msgr.Messenger
	log     *fastlog.Buffer
	metrics *Metrics
	logger  *logging.Logger

	// addedAt is written only by the single caller goroutine driving
	// Add/Join/Reset on this Coordinator; no lock is needed.
	addedAt []time.Time
}

// CoordinatorOption configures optional Coordinator dependencies.
type CoordinatorOption func(*Coordinator)

// WithFastLog overrides the fastlog.Buffer the Coordinator's bsend
// context emits events to. Defaults to a fresh buffer sized by
// internal/constants.DefaultFastLogCapacity.
func WithFastLog(log *fastlog.Buffer) CoordinatorOption {
	return func(c *Coordinator) { c.log = log }
}

// WithMetrics overrides the Metrics sink the Coordinator records
// activity to. Defaults to a fresh Metrics.
func WithMetrics(metrics *Metrics) CoordinatorOption {
	return func(c *Coordinator) { c.metrics = metrics }
}

// WithLogger overrides the textual logger used for add-failure and
// reply-failure diagnostics. Defaults to logging.Default().
func WithLogger(logger *logging.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// NewCoordinator allocates a Coordinator with a fixed slot-table capacity
// maxTr, fanning out over m.
func NewCoordinator(m msgr.Messenger, maxTr int, opts ...CoordinatorOption) (*Coordinator, error) {
	c := &Coordinator{m: m}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = fastlog.New(constants.DefaultFastLogCapacity)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics()
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}

	bc, err := bsend.New(c.log, maxTr)
	if err != nil {
		return nil, WrapError("NEW", err)
	}
	c.ctx = bc
	c.m = &meteredMessenger{Messenger: c.m, metrics: c.metrics}
	c.addedAt = make([]time.Time, 0, maxTr)
	return c, nil
}

// meteredMessenger decorates a Messenger with RecvNext call counting, so
// Coordinator's Metrics can report recv_next activity driven from inside
// bsend's completion callback without internal/bsend taking a dependency
// on the root package's Metrics type.
type meteredMessenger struct {
	msgr.Messenger
	metrics *Metrics
}

func (mm *meteredMessenger) RecvNext(ctx context.Context, tr *msgr.Transaction) error {
	err := mm.Messenger.RecvNext(ctx, tr)
	if err == nil {
		mm.metrics.RecordRecvNext()
	}
	return err
}

// Add fans out a new transaction to (ip, port), returning its slot
// index.
func (c *Coordinator) Add(ctx context.Context, flags Flags, msg *Message, ip uint32, port uint16, timeout time.Duration, tag any) (int, error) {
	idx, err := c.ctx.Add(ctx, c.m, flags, msg, ip, port, timeout, tag)
	c.metrics.RecordAdd(err == nil)
	// idx != -1 means a slot was actually occupied (e.g. the messenger's
	// Send itself failed after allocation), so the slot still counts
	// toward numTr and still gets completed; addedAt must track it by
	// position regardless of err so Join's per-slot bookkeeping stays
	// aligned with bsend's own slot count.
	if idx != -1 {
		c.addedAt = append(c.addedAt, time.Now())
	}
	if err != nil {
		c.logger.Warnf("bsend: add to %d.%d.%d.%d:%d failed: %v", byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip), port, err)
		return idx, WrapError("ADD_TR", err)
	}
	return idx, nil
}

// AddTransactionOrFree fans out a caller-owned transaction (e.g. a reply
// path reusing an inbound request's transaction).
func (c *Coordinator) AddTransactionOrFree(ctx context.Context, flags Flags, msg *Message, tr *Transaction, ip uint32, port uint16, timeout time.Duration, tag any) (int, error) {
	idx, err := c.ctx.AddTransactionOrFree(ctx, c.m, flags, msg, tr, ip, port, timeout, tag)
	c.metrics.RecordAdd(err == nil)
	if idx != -1 {
		c.addedAt = append(c.addedAt, time.Now())
	}
	if err != nil {
		c.logger.Warnf("bsend: add-or-free to %d.%d.%d.%d:%d failed: %v", byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip), port, err)
		return idx, WrapError("ADD_TR", err)
	}
	return idx, nil
}

// Join blocks until every issued transaction has reached a terminal
// state, recording per-slot add-to-join latency, and returns the number
// of transactions issued.
func (c *Coordinator) Join() int {
	n := c.ctx.Join()
	now := time.Now()
	for _, t := range c.addedAt {
		c.metrics.RecordSlotFinished(uint64(now.Sub(t)))
	}
	c.metrics.RecordJoin()
	return n
}

// Transaction returns the transaction at index, or nil if out of range.
func (c *Coordinator) Transaction(index int) *Transaction { return c.ctx.GetTransaction(index) }

// Tag returns the caller-supplied tag for the slot at index, or nil if
// out of range.
func (c *Coordinator) Tag(index int) any { return c.ctx.GetTag(index) }

// NumSent returns the number of slots issued so far.
func (c *Coordinator) NumSent() int { return c.ctx.GetNumSent() }

// Reset releases every populated slot's transaction and zeroes counters
// so the Coordinator is reusable for a fresh batch.
func (c *Coordinator) Reset() {
	c.ctx.Reset()
	c.addedAt = c.addedAt[:0]
	c.metrics.RecordReset()
}

// Free releases the Coordinator's bsend context. NumSent() must be 0
// (Reset first).
func (c *Coordinator) Free() {
	c.ctx.Free()
}

// Reply converts an incoming request's transaction tr into an outbound
// response transaction carrying r, using this Coordinator as scratch
// slot table. The Coordinator must have room for exactly one slot
// (maxTr == 1). Once the reply transaction has been added, the slot
// table is reset before Reply returns, win or lose; if adding it fails,
// the error is returned without a reset.
func (c *Coordinator) Reply(tr *Transaction, r *Message, timeout time.Duration) error {
	err := bsend.Reply(c.log, c.ctx, c.m, tr, r, timeout)
	if err != nil {
		c.metrics.RecordReplyFailure(err)
		c.logger.Errorf("bsend: reply to %d.%d.%d.%d:%d failed: %v", byte(tr.IP>>24), byte(tr.IP>>16), byte(tr.IP>>8), byte(tr.IP), tr.Port, err)
	}
	return err
}

// StdReply builds a fixed response carrying a single signed result code
// and sends it via Reply.
func (c *Coordinator) StdReply(tr *Transaction, status int32, timeout time.Duration) error {
	err := bsend.StdReply(c.log, c.ctx, c.m, tr, status, timeout)
	if err != nil {
		c.metrics.RecordReplyFailure(err)
	}
	return err
}

// Metrics returns a point-in-time snapshot of this Coordinator's
// activity counters.
func (c *Coordinator) Metrics() MetricsSnapshot { return c.metrics.Snapshot() }

// FastLog returns the fastlog.Buffer this Coordinator's bsend context
// emits events to, for callers that want to drain it (e.g. to forward
// events to an out-of-band sink).
func (c *Coordinator) FastLog() *fastlog.Buffer { return c.log }
