package bsend

import (
	"fmt"

	"github.com/redfish-fs/redfish/internal/fastlog"
)

// Reset releases every populated slot's transaction and zeroes both
// counters so the Context can be reused.
//
// Calling Reset while numFinished != numTr is a caller bug. Logging an
// error and proceeding anyway would race the messenger against a
// still-live transaction; this implementation instead treats it as a
// fatal precondition violation.
func (c *Context) Reset() {
	c.mu.Lock()
	if c.numFinished != c.numTr {
		c.mu.Unlock()
		c.emit(fastlog.Error, fastlog.KindReset, 0, 0, 0, 0, uint32(c.numTr-c.numFinished))
		panic(fmt.Sprintf("bsend: Reset called with %d of %d transactions still outstanding", c.numTr-c.numFinished, c.numTr))
	}

	for i := 0; i < c.numTr; i++ {
		s := &c.slots[i]
		if s.m != nil {
			s.m.FreeTransaction(s.tr)
		}
		c.slots[i] = slot{}
	}
	c.numTr = 0
	c.numFinished = 0
	c.generation++ // invalidate any stale slotHandle a late completion might still carry
	c.mu.Unlock()

	c.emit(fastlog.Debug, fastlog.KindReset, 0, 0, 0, 0, 0)
}

// Free releases the Context's resources. The Context must have been
// Reset (or never populated) first; freeing a Context with outstanding
// transactions is a fatal precondition violation.
func (c *Context) Free() {
	c.mu.Lock()
	numTr := c.numTr
	c.mu.Unlock()

	if numTr != 0 {
		panic(fmt.Sprintf("bsend: Free called with %d transactions still populated; call Reset first", numTr))
	}

	c.emit(fastlog.Debug, fastlog.KindFree, 0, 0, 0, 0, 0)
}
