package msgr_test

import (
	"context"
	"testing"
	"time"

	"github.com/redfish-fs/redfish/internal/msgr"
)

func TestFakeAllocLimit(t *testing.T) {
	fake := msgr.NewFake()
	fake.SetAllocLimit(1)

	if _, err := fake.AllocateTransaction(); err != nil {
		t.Fatalf("first allocate: unexpected error %v", err)
	}
	if _, err := fake.AllocateTransaction(); err != msgr.ErrNoTransactions {
		t.Fatalf("second allocate: got %v, want ErrNoTransactions", err)
	}
}

func TestFakeFreeTransactionIsIdempotentOnNil(t *testing.T) {
	fake := msgr.NewFake()
	fake.FreeTransaction(nil) // must not panic
}

func TestFakeRecvNextUnknownTransaction(t *testing.T) {
	fake := msgr.NewFake()
	tr := &msgr.Transaction{}
	if err := fake.RecvNext(context.Background(), tr); err != msgr.ErrNoTransactions {
		t.Errorf("RecvNext on a never-sent transaction = %v, want ErrNoTransactions", err)
	}
}

func TestFakeSendRecordsAndCompletes(t *testing.T) {
	fake := msgr.NewFake()
	tr, err := fake.AllocateTransaction()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	var got *msgr.Transaction
	cb := func(tr *msgr.Transaction) { got = tr }

	if err := fake.Send(context.Background(), tr, 1, 2, &msgr.Message{}, time.Second, cb, "priv"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if tr.Priv != "priv" {
		t.Errorf("Send did not set Priv, got %v", tr.Priv)
	}

	fake.Complete(tr, msgr.Sent, nil, nil)
	if got != tr {
		t.Error("Complete did not invoke the callback with the transaction")
	}
	if tr.State != msgr.Sent {
		t.Errorf("tr.State = %v, want Sent", tr.State)
	}
}
