package redfish

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redfish-fs/redfish/internal/msgr"
)

// sendErrMessenger wraps a Messenger whose underlying Send completes the
// transaction normally but still reports a transport error from Send
// itself, modeling a messenger that fails synchronously after the slot
// it occupied has already started (and possibly finished) its lifecycle.
type sendErrMessenger struct {
	msgr.Messenger
}

func (m *sendErrMessenger) Send(ctx context.Context, tr *msgr.Transaction, ip uint32, port uint16, msg *msgr.Message, timeout time.Duration, cb msgr.CompletionFunc, priv any) error {
	if err := m.Messenger.Send(ctx, tr, ip, port, msg, timeout, cb, priv); err != nil {
		return err
	}
	return errors.New("transport busy")
}

// A slot that occupies a table entry but reports a Send-level error must
// still be tracked by addedAt, since it still counts toward numTr and
// still completes; otherwise Join's per-slot latency bookkeeping
// undercounts against bsend's own finished-slot count.
func TestCoordinatorAddedAtTracksSlotsThatFailPostAllocation(t *testing.T) {
	fake := msgr.NewFake()
	ImmediateSend(fake)
	wrapped := &sendErrMessenger{Messenger: fake}

	c, err := NewCoordinator(wrapped, 1)
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}

	idx, err := c.Add(context.Background(), 0, &Message{}, 1, 1, time.Second, nil)
	if err == nil {
		t.Fatal("expected Add to surface the wrapped Send error")
	}
	if idx != 0 {
		t.Fatalf("expected the slot to still be occupied at index 0, got %d", idx)
	}

	if n := c.Join(); n != 1 {
		t.Fatalf("expected Join to report 1 transaction issued, got %d", n)
	}

	snap := c.Metrics()
	if snap.SlotsFinished != 1 {
		t.Errorf("expected SlotsFinished to count the failed-send slot, got %d", snap.SlotsFinished)
	}
}
