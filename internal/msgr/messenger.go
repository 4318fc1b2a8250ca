package msgr

import (
	"context"
	"errors"
	"time"
)

// ErrNoTransactions is returned by AllocateTransaction when the messenger
// has exhausted its own transaction pool.
var ErrNoTransactions = errors.New("msgr: no transactions available")

// CompletionFunc is invoked by the messenger whenever a transaction
// advances to a new externally observable state. It is called on
// whichever goroutine the messenger's I/O machinery happens to run on;
// callers must not assume a single callback goroutine.
type CompletionFunc func(tr *Transaction)

// Messenger is the external, non-blocking, callback-driven transport
// contract bsend rides on top of. Implementations own sockets and I/O
// threads; bsend never touches a socket directly.
type Messenger interface {
	// AllocateTransaction reserves a fresh Transaction. Returns
	// ErrNoTransactions if the messenger's own pool is exhausted.
	AllocateTransaction() (*Transaction, error)

	// FreeTransaction releases a transaction and any attached inbound
	// message. Idempotent on nil.
	FreeTransaction(tr *Transaction)

	// Send takes ownership of msg and transmits tr to (ip, port),
	// associating cb and priv with it. cb is guaranteed to be invoked at
	// least once, exactly once per externally observable state
	// transition (Sent, Recv, error/timeout), eventually.
	Send(ctx context.Context, tr *Transaction, ip uint32, port uint16, msg *Message, timeout time.Duration, cb CompletionFunc, priv any) error

	// RecvNext requests a follow-up inbound frame on tr, which must
	// already be in the Sent state. Triggers a future callback with
	// State Recv (or a terminal error state).
	RecvNext(ctx context.Context, tr *Transaction) error
}
