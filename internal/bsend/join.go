package bsend

import "github.com/redfish-fs/redfish/internal/fastlog"

// Join blocks until every populated slot has reached a terminal state and
// returns the number of transactions issued. It is edge-triggered by
// completions: spurious wakeups are tolerated by re-checking the
// predicate inside the loop.
func (c *Context) Join() int {
	c.mu.Lock()
	for c.numFinished < c.numTr {
		c.emit(fastlog.Debug, fastlog.KindJoin, 0, 0, 0, 0, uint32(c.numTr-c.numFinished))
		c.cond.Wait()
	}
	n := c.numTr
	c.mu.Unlock()

	c.emit(fastlog.Debug, fastlog.KindJoin, 0, 0, 0, 0, uint32(n))
	return n
}
