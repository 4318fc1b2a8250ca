// Package bsend implements the blocking batch-RPC coordinator: a bounded
// slot table that fans out concurrent request/response or fire-and-forget
// transactions over a msgr.Messenger and lets one caller goroutine block
// until every transaction it issued has reached a terminal state.
package bsend

import (
	"context"
	"fmt"
	"sync"
	"syscall"

	"github.com/redfish-fs/redfish/internal/fastlog"
	"github.com/redfish-fs/redfish/internal/msgr"
)

// Flags is the per-slot bit set, packed into a single byte on the wire.
type Flags uint8

const (
	// FlagExpectResponse marks a two-way slot: finished only on RECV (or
	// error after SENT). Its absence marks a one-way slot: finished on
	// SENT.
	FlagExpectResponse Flags = 1 << 0
)

func (f Flags) expectResponse() bool { return f&FlagExpectResponse != 0 }

// slot pairs one transaction with the coordinator bookkeeping: the
// messenger and context.Context it was sent with, a caller tag, and
// flags. The way back from a transaction to its owning Context is the
// slotHandle stored in the transaction's Priv field, not the slot.
type slot struct {
	tr       *msgr.Transaction
	m        msgr.Messenger
	ctx      context.Context
	tag      any
	flags    Flags
	finished bool
}

// slotHandle is what bsend stores in Transaction.Priv: an index +
// generation counter in place of a raw pointer, so a stale completion
// arriving after Reset can never address a slot it no longer owns.
type slotHandle struct {
	ctx        *Context
	index      int
	generation uint64
}

// Context is the bounded slot table. One caller goroutine is expected to
// drive Add/Join/Reset/Free on a given Context at a time; the messenger
// may invoke completions from any goroutine, concurrently across slots.
type Context struct {
	log *fastlog.Buffer

	mu   sync.Mutex
	cond *sync.Cond

	maxTr       int
	slots       []slot
	numTr       int
	numFinished int
	generation  uint64 // bumped on every Reset to invalidate stale handles
}

// New allocates a Context with a fixed slot-table capacity maxTr,
// borrowing log (not owning it) for every event this Context and its
// slots emit.
func New(log *fastlog.Buffer, maxTr int) (*Context, error) {
	if maxTr <= 0 {
		return nil, fmt.Errorf("bsend: New: maxTr must be positive, got %d: %w", maxTr, syscall.EINVAL)
	}

	c := &Context{
		log:   log,
		maxTr: maxTr,
		slots: make([]slot, maxTr),
	}
	c.cond = sync.NewCond(&c.mu)

	c.emit(fastlog.Debug, fastlog.KindInit, 0, 0, 0, 0, uint32(maxTr))
	return c, nil
}

func (c *Context) emit(sev fastlog.Severity, kind fastlog.Kind, port uint16, ip uint32, flags uint8, errno uint16, aux uint32) {
	if c.log == nil {
		return
	}
	c.log.Emit(fastlog.Event{
		Severity: sev,
		Kind:     kind,
		Port:     port,
		IP:       ip,
		Flags:    flags,
		Errno:    errno,
		Aux:      aux,
	})
}

// MaxTransactions returns the fixed slot-table capacity.
func (c *Context) MaxTransactions() int { return c.maxTr }
