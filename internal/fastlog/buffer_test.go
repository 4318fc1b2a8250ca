package fastlog

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ev := Event{
		Severity: Error,
		Kind:     KindReplyFail,
		Port:     6000,
		IP:       0x0A000001,
		Flags:    1,
		Errno:    13,
		Aux:      42,
	}

	buf := Encode(ev)
	got, ok := Decode(buf)
	if !ok {
		t.Fatal("Decode reported failure on a well-formed buffer")
	}
	if got != ev {
		t.Errorf("Decode(Encode(ev)) = %+v, want %+v", got, ev)
	}
}

func TestDecodeTooShort(t *testing.T) {
	if _, ok := Decode([]byte{1, 2, 3}); ok {
		t.Error("Decode should reject a buffer shorter than eventWireSize")
	}
}

func TestBufferEmitDrainOrder(t *testing.T) {
	b := New(3)
	for i := 0; i < 3; i++ {
		b.Emit(Event{Kind: Kind(i)})
	}

	drained := b.Drain()
	if len(drained) != 3 {
		t.Fatalf("expected 3 events, got %d", len(drained))
	}
	for i, ev := range drained {
		if int(ev.Kind) != i {
			t.Errorf("drained[%d].Kind = %d, want %d", i, ev.Kind, i)
		}
	}
}

func TestBufferWrapsAtCapacity(t *testing.T) {
	b := New(2)
	b.Emit(Event{Kind: KindInit})
	b.Emit(Event{Kind: KindAddTr})
	b.Emit(Event{Kind: KindJoin}) // overwrites KindInit

	drained := b.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 retained events, got %d", len(drained))
	}
	if drained[0].Kind != KindAddTr || drained[1].Kind != KindJoin {
		t.Errorf("unexpected drain order: %+v", drained)
	}
}

func TestNewBufferRejectsNonPositiveCapacity(t *testing.T) {
	b := New(0)
	b.Emit(Event{Kind: KindInit})
	if got := len(b.Drain()); got != 1 {
		t.Errorf("expected capacity to floor at 1, got %d retained events", got)
	}
}
