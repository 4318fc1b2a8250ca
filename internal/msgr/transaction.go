// Package msgr defines the transaction value type and the Messenger
// contract bsend consumes, plus a deterministic fake used by bsend's own
// tests and exported (via the root package's testing.go) for downstream
// integration tests.
package msgr

import "fmt"

// State is the lifecycle state of a Transaction as observed by bsend.
// bsend only branches explicitly on Sent and Recv; any other terminal
// state arrives with Err set.
type State int

const (
	// Init is the state of a Transaction before it has been handed to
	// the messenger.
	Init State = iota
	// Sent means the messenger has placed the transaction on the wire.
	Sent
	// Recv means a follow-up inbound frame has arrived for the
	// transaction (only reachable for EXPECT_RESPONSE slots).
	Recv
	// Terminal is the catch-all error/timeout state. Any transaction
	// reaching Terminal carries a non-nil Err.
	Terminal
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Sent:
		return "SENT"
	case Recv:
		return "RECV"
	case Terminal:
		return "TERMINAL"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Message is the payload carried by a Transaction. Type is the 16-bit
// big-endian message-type header field.
type Message struct {
	Type    uint16
	Payload []byte
}

// Transaction is the shared value co-owned by the messenger (for its I/O
// duration) and by bsend (for its slot lifetime). Errors surface
// through a proper Err field rather than a pointer-tagged sentinel: M
// is nil, a real message, or nil-with-Err-set.
type Transaction struct {
	// IP and Port are the peer endpoint, network byte order on the wire.
	IP   uint32
	Port uint16

	// State is the current externally observable lifecycle state.
	State State

	// M is the inbound message, or nil if none has arrived (or if Err is
	// set instead).
	M *Message

	// Err is set when the transaction reached a terminal error/timeout
	// state; mutually exclusive with M being non-nil.
	Err error

	// Priv is the opaque value the sender attached at Send time and
	// receives back via the completion callback. bsend stores a slot
	// handle (index + generation) here rather than a raw pointer.
	Priv any
}

// IsError reports whether the transaction terminated with a transport
// error rather than a delivered message.
func (t *Transaction) IsError() bool {
	return t.Err != nil
}
