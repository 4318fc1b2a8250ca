package bsend

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/redfish-fs/redfish/internal/fastlog"
	"github.com/redfish-fs/redfish/internal/msgr"
)

// ErrCapacity is returned (wrapping syscall.EMFILE) when the slot table
// is already full.
var ErrCapacity = syscall.EMFILE

// ErrAllocFailed is returned (wrapping syscall.ENOMEM) when the messenger
// cannot allocate a transaction.
var ErrAllocFailed = syscall.ENOMEM

// Add obtains a fresh transaction from m and fans it out as a new slot.
// The caller is responsible for ensuring the Context is not concurrently
// being joined. Returns the slot index on success.
func (c *Context) Add(ctx context.Context, m msgr.Messenger, flags Flags, msg *msgr.Message, ip uint32, port uint16, timeout time.Duration, tag any) (int, error) {
	tr, err := m.AllocateTransaction()
	if err != nil {
		c.emit(fastlog.Error, fastlog.KindAddTr, port, ip, uint8(flags), fastlog.CramErrno(int(syscall.ENOMEM)), 0)
		return -1, errAdd(ErrAllocFailed)
	}
	return c.AddTransactionOrFree(ctx, m, flags, msg, tr, ip, port, timeout, tag)
}

// AddTransactionOrFree is Add's variant for a caller-owned transaction
// (e.g. the reply path reusing an inbound request's transaction). On
// capacity overflow it frees tr via m, exactly as Add's own internally
// allocated transaction would be freed.
func (c *Context) AddTransactionOrFree(ctx context.Context, m msgr.Messenger, flags Flags, msg *msgr.Message, tr *msgr.Transaction, ip uint32, port uint16, timeout time.Duration, tag any) (int, error) {
	c.mu.Lock()
	if c.numTr == c.maxTr {
		c.mu.Unlock()
		m.FreeTransaction(tr)
		c.emit(fastlog.Error, fastlog.KindAddTr, port, ip, uint8(flags), fastlog.CramErrno(int(syscall.EMFILE)), uint32(c.maxTr))
		return -1, errAdd(ErrCapacity)
	}

	index := c.numTr
	gen := c.generation
	c.slots[index] = slot{tr: tr, m: m, ctx: ctx, tag: tag, flags: flags}
	c.numTr++
	c.mu.Unlock()

	c.emit(fastlog.Debug, fastlog.KindAddTr, port, ip, uint8(flags), 0, 0)

	priv := &slotHandle{ctx: c, index: index, generation: gen}
	if err := m.Send(ctx, tr, ip, port, msg, timeout, c.onComplete, priv); err != nil {
		return index, errAdd(err)
	}
	return index, nil
}

func errAdd(err error) error {
	return fmt.Errorf("bsend: add: %w", err)
}
