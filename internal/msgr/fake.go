package msgr

import (
	"context"
	"sync"
	"time"
)

// SendRecord captures one Send call observed by Fake, for assertions in
// interleaving tests.
type SendRecord struct {
	Tr      *Transaction
	IP      uint32
	Port    uint16
	Msg     *Message
	Timeout time.Duration
}

// pending tracks the callback/priv a Send associated with a transaction,
// so a later Complete call can invoke it the way a real messenger's I/O
// thread would.
type pending struct {
	cb   CompletionFunc
	priv any
}

// Fake is a deterministic, script-driven Messenger. Completions are never
// fired automatically; a test drives them explicitly via Complete, from
// whatever goroutine it chooses, giving full control over interleaving.
type Fake struct {
	mu sync.Mutex

	allocLimit   int // 0 means unlimited
	allocated    int
	freed        []*Transaction
	sends        []SendRecord
	recvNextCall []*Transaction
	pendingOf    map[*Transaction]pending

	// OnSend, when set, is invoked synchronously at the end of Send,
	// after the send is recorded and before Send returns. Tests use it
	// to drive an immediate completion without a separate goroutine when
	// the exact interleaving doesn't matter to the scenario under test.
	OnSend func(f *Fake, tr *Transaction)
}

// NewFake returns a Fake with unlimited transaction allocation.
func NewFake() *Fake {
	return &Fake{pendingOf: make(map[*Transaction]pending)}
}

// SetAllocLimit caps the number of transactions AllocateTransaction will
// hand out before returning ErrNoTransactions; 0 (the default) is
// unlimited.
func (f *Fake) SetAllocLimit(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allocLimit = n
}

// AllocateTransaction implements Messenger.
func (f *Fake) AllocateTransaction() (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allocLimit > 0 && f.allocated >= f.allocLimit {
		return nil, ErrNoTransactions
	}
	f.allocated++
	return &Transaction{State: Init}, nil
}

// FreeTransaction implements Messenger.
func (f *Fake) FreeTransaction(tr *Transaction) {
	if tr == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freed = append(f.freed, tr)
	delete(f.pendingOf, tr)
}

// Send implements Messenger. It records the send and sets tr.Priv so the
// eventual Complete call can reach the caller's slot, but does not invoke
// cb itself unless OnSend is set.
func (f *Fake) Send(_ context.Context, tr *Transaction, ip uint32, port uint16, msg *Message, timeout time.Duration, cb CompletionFunc, priv any) error {
	tr.IP = ip
	tr.Port = port
	tr.Priv = priv

	f.mu.Lock()
	f.sends = append(f.sends, SendRecord{Tr: tr, IP: ip, Port: port, Msg: msg, Timeout: timeout})
	f.pendingOf[tr] = pending{cb: cb, priv: priv}
	hook := f.OnSend
	f.mu.Unlock()

	if hook != nil {
		hook(f, tr)
	}
	return nil
}

// RecvNext implements Messenger.
func (f *Fake) RecvNext(_ context.Context, tr *Transaction) error {
	f.mu.Lock()
	f.recvNextCall = append(f.recvNextCall, tr)
	_, ok := f.pendingOf[tr]
	f.mu.Unlock()
	if !ok {
		return ErrNoTransactions
	}
	return nil
}

// Complete drives tr's completion callback as if the messenger's I/O
// thread observed the given state. Safe to call concurrently across
// distinct transactions; slots carry no ordering guarantee relative to
// one another.
func (f *Fake) Complete(tr *Transaction, state State, msg *Message, err error) {
	f.mu.Lock()
	p, ok := f.pendingOf[tr]
	f.mu.Unlock()
	if !ok {
		return
	}

	tr.State = state
	tr.M = msg
	tr.Err = err
	p.cb(tr)
}

// Sends returns the observed Send calls in invocation order.
func (f *Fake) Sends() []SendRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SendRecord, len(f.sends))
	copy(out, f.sends)
	return out
}

// RecvNextCalls returns the transactions RecvNext was invoked for, in
// invocation order (including duplicates).
func (f *Fake) RecvNextCalls() []*Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Transaction, len(f.recvNextCall))
	copy(out, f.recvNextCall)
	return out
}

// Freed returns the transactions passed to FreeTransaction, in order.
func (f *Fake) Freed() []*Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Transaction, len(f.freed))
	copy(out, f.freed)
	return out
}
