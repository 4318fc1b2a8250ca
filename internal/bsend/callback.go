package bsend

import (
	"fmt"

	"github.com/redfish-fs/redfish/internal/msgr"
)

// onComplete is the completion callback handed to the messenger at Send
// time. It is reached through tr.Priv, which holds the *slotHandle
// smuggled in at Add time.
func (c *Context) onComplete(tr *msgr.Transaction) {
	h, ok := tr.Priv.(*slotHandle)
	if !ok || h.ctx != c {
		contractViolation("onComplete: transaction.Priv is not this context's slot handle")
	}

	c.mu.Lock()
	if h.generation != c.generation {
		// The context was Reset (or never got this far) between Send and
		// this completion; the slot this handle named no longer belongs
		// to the transaction that fired. Drop it rather than touch
		// unrelated state.
		c.mu.Unlock()
		return
	}
	s := &c.slots[h.index]
	flags := s.flags
	m := s.m
	ctx := s.ctx
	c.mu.Unlock()

	switch {
	case tr.IsError():
		// A timed-out or transport-failed transaction reaches the callback
		// in a terminal error state (Terminal, or Sent/Recv with Err set)
		// and counts as finished like any other completion, regardless of
		// whether the slot expected a response.
		c.finish(h.index, h.generation)
		return
	case flags.expectResponse():
		switch {
		case tr.State == msgr.Sent && tr.M == nil:
			if err := m.RecvNext(ctx, tr); err != nil {
				contractViolation(fmt.Sprintf("onComplete: RecvNext failed: %v", err))
			}
			return
		case (tr.State == msgr.Sent && tr.M != nil) || tr.State == msgr.Recv:
			c.finish(h.index, h.generation)
			return
		default:
			contractViolation(fmt.Sprintf("onComplete: unexpected state %v for response-expecting slot", tr.State))
		}
	default:
		switch tr.State {
		case msgr.Sent:
			c.finish(h.index, h.generation)
			return
		default:
			contractViolation(fmt.Sprintf("onComplete: unexpected state %v for one-way slot", tr.State))
		}
	}
}

// finish marks slot index as terminal and wakes Join if every issued
// slot has now finished.
func (c *Context) finish(index int, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}
	if c.slots[index].finished {
		// A contract-respecting messenger never double-completes a slot;
		// guard anyway rather than double-count.
		return
	}
	c.slots[index].finished = true
	c.numFinished++
	if c.numFinished == c.numTr {
		c.cond.Broadcast()
	}
}

// contractViolation reports a messenger contract violation: a
// completion arriving in a state the protocol never produces. These are
// programming errors, not runtime conditions a caller can recover from.
func contractViolation(msg string) {
	panic("bsend: messenger contract violation: " + msg)
}
