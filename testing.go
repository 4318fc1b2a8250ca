package redfish

import (
	"github.com/redfish-fs/redfish/internal/msgr"
)

// FakeMessenger is the exported test double for msgr.Messenger, useful
// for applications embedding bsend that want to drive a deterministic
// transport in their own tests.
type FakeMessenger = msgr.Fake

// NewFakeMessenger returns a FakeMessenger with unlimited transaction
// allocation, ready to have completions driven onto it via
// DriveScript or directly via its own Complete method.
func NewFakeMessenger() *FakeMessenger {
	return msgr.NewFake()
}

// ScriptedCompletion describes one completion event a test wants driven
// onto a FakeMessenger: the peer port identifying which Send it targets,
// the state to report, and either a message or an error.
type ScriptedCompletion struct {
	Port  uint16
	State msgr.State
	Msg   *msgr.Message
	Err   error
}

// DriveScript walks script in order, looking up each entry's transaction
// by the peer port recorded at Send time and firing its completion
// callback. Entries whose port was never sent to are skipped.
//
// This is a convenience for integration tests that want to express an
// interleaving as a flat, ordered list rather than hand-matching
// transactions returned from Sends(); tests that need to interleave by
// transaction identity rather than by port call fake.Complete directly
// instead.
func DriveScript(fake *FakeMessenger, script []ScriptedCompletion) {
	for _, sc := range script {
		for _, send := range fake.Sends() {
			if send.Port == sc.Port {
				fake.Complete(send.Tr, sc.State, sc.Msg, sc.Err)
				break
			}
		}
	}
}

// ImmediateSend installs an OnSend hook on fake that completes every
// send synchronously with Sent and a nil message, for tests that don't
// care about SENT/RECV interleaving and just want one-way slots to
// finish as soon as they're added.
func ImmediateSend(fake *FakeMessenger) {
	fake.OnSend = func(f *FakeMessenger, tr *msgr.Transaction) {
		f.Complete(tr, msgr.Sent, nil, nil)
	}
}

// ImmediateRoundTrip installs an OnSend hook that completes every send
// with Sent(nil) followed immediately by Recv(msg), for tests exercising
// two-way slots that don't care about the SENT/RECV interleaving either,
// keyed by peer port so distinct slots get distinct payloads.
func ImmediateRoundTrip(fake *FakeMessenger, payloadFor func(port uint16) *msgr.Message) {
	fake.OnSend = func(f *FakeMessenger, tr *msgr.Transaction) {
		f.Complete(tr, msgr.Sent, nil, nil)
		f.Complete(tr, msgr.Recv, payloadFor(tr.Port), nil)
	}
}
