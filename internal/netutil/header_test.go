package netutil

import "testing"

func TestPortRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	PutPort(buf, 6000)
	if got := Port(buf); got != 6000 {
		t.Errorf("Port(PutPort(6000)) = %d, want 6000", got)
	}
}

func TestIPRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	PutIP(buf, 0x0A000001)
	if got := IP(buf); got != 0x0A000001 {
		t.Errorf("IP(PutIP(0x0A000001)) = %#x, want %#x", got, 0x0A000001)
	}
}

func TestMessageTypeRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	PutMessageType(buf, 0x01)
	if got := MessageType(buf); got != 0x01 {
		t.Errorf("MessageType(PutMessageType(1)) = %d, want 1", got)
	}
}

func TestMessageTypeShortBuffer(t *testing.T) {
	if got := MessageType([]byte{0x01}); got != 0 {
		t.Errorf("MessageType on a short buffer = %d, want 0", got)
	}
	if got := MessageType(nil); got != 0 {
		t.Errorf("MessageType(nil) = %d, want 0", got)
	}
}
