// Package constants holds shared default values for the bsend subsystem.
package constants

import "time"

// Slot-table defaults.
const (
	// DefaultMaxTransactions is a suggested slot-table capacity for a
	// bsend context. Nothing substitutes it automatically: bsend.New
	// rejects a non-positive capacity rather than falling back to it.
	DefaultMaxTransactions = 32

	// DefaultTransactionTimeout is a suggested per-transaction timeout
	// for SENT/RECV. Nothing substitutes it automatically: the timeout a
	// caller passes to Add is handed to the messenger as given.
	DefaultTransactionTimeout = 30 * time.Second
)

// Fast-log ring sizing.
const (
	// DefaultFastLogCapacity is the number of events the default
	// fastlog.Buffer retains before wrapping.
	DefaultFastLogCapacity = 4096
)
