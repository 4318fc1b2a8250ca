package bsend

import (
	"context"
	"encoding/binary"
	"errors"
	"syscall"
	"time"

	"github.com/redfish-fs/redfish/internal/fastlog"
	"github.com/redfish-fs/redfish/internal/msgr"
)

// MsgTypeStdReply is the message-type header value StdReply stamps on
// the fixed status-code response it builds.
const MsgTypeStdReply uint16 = 0x01

// Reply converts an incoming request's transaction tr into an outbound
// response transaction carrying r, reusing scratch's slot table. scratch
// must have room for exactly one slot. Once the reply transaction has
// been added, scratch is joined and reset before Reply returns, win or
// lose; if adding it fails, Reply returns that error without joining or
// resetting scratch.
//
// tr is repointed at its originating connection using the peer endpoint
// already recorded on it from the receive path.
func Reply(log *fastlog.Buffer, scratch *Context, m msgr.Messenger, tr *msgr.Transaction, r *msgr.Message, timeout time.Duration) error {
	ip, port := tr.IP, tr.Port

	if _, err := scratch.AddTransactionOrFree(context.Background(), m, 0, r, tr, ip, port, timeout, nil); err != nil {
		return err
	}
	scratch.Join()
	defer scratch.Reset()

	result := scratch.GetTransaction(0)
	switch {
	case result.M == nil && !result.IsError():
		return nil
	case result.IsError():
		log.Emit(fastlog.Event{
			Severity: fastlog.Error,
			Kind:     fastlog.KindReplyFail,
			Port:     port,
			IP:       ip,
			Errno:    fastlog.CramErrno(errnoOf(result.Err)),
			Aux:      uint32(r.Type),
		})
		return result.Err
	default:
		contractViolation("Reply: received a real inbound message on a one-way reply transaction")
		return nil
	}
}

// StdReply is the standard-reply convenience: it builds a fixed response
// carrying a single signed result code and sends it via Reply.
func StdReply(log *fastlog.Buffer, scratch *Context, m msgr.Messenger, tr *msgr.Transaction, status int32, timeout time.Duration) error {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, uint32(status))
	r := &msgr.Message{Type: MsgTypeStdReply, Payload: payload}
	return Reply(log, scratch, m, tr, r, timeout)
}

// errnoOf extracts a POSIX errno from err if it wraps one, for the
// CramErrno call in the REPLY_FAIL event; errors that don't wrap a
// syscall.Errno log as 0.
func errnoOf(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}
