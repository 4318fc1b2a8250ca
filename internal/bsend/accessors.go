package bsend

import "github.com/redfish-fs/redfish/internal/msgr"

// GetTransaction returns the transaction at index, or nil if out of
// range. Safe to call without further synchronization once Join has
// returned: the condition-variable signal/acquire pair establishes a
// happens-before for every slot.
func (c *Context) GetTransaction(index int) *msgr.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= c.numTr {
		return nil
	}
	return c.slots[index].tr
}

// GetTag returns the caller-supplied tag for the slot at index, or nil if
// out of range.
func (c *Context) GetTag(index int) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= c.numTr {
		return nil
	}
	return c.slots[index].tag
}

// GetNumSent returns the number of slots issued so far.
func (c *Context) GetNumSent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.numTr
}
