package fastlog

import (
	"encoding/binary"
	"sync"
)

// eventWireSize is the encoded byte length of one Event.
const eventWireSize = 1 + 1 + 2 + 4 + 1 + 2 + 4

// Buffer is an in-memory, fixed-capacity ring of Event values (Encode
// produces their binary form on demand). It is
// injected at context construction rather than reached through an
// ambient global — callers construct one with New and pass it to
// bsend.New.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	events   []Event
	next     int
	count    int
}

// New returns a Buffer retaining up to capacity events before the oldest
// entries are overwritten.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{
		capacity: capacity,
		events:   make([]Event, capacity),
	}
}

// Emit appends ev, overwriting the oldest retained event once the ring is
// full.
func (b *Buffer) Emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[b.next] = ev
	b.next = (b.next + 1) % b.capacity
	if b.count < b.capacity {
		b.count++
	}
}

// Drain returns the retained events in emission order (oldest first) and
// does not clear the buffer.
func (b *Buffer) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Event, 0, b.count)
	start := (b.next - b.count + b.capacity) % b.capacity
	for i := 0; i < b.count; i++ {
		out = append(out, b.events[(start+i)%b.capacity])
	}
	return out
}

// Encode serializes ev into the opaque wire layout documented in
// event.go. Exposed for the decoder pair; ordinary callers should prefer
// Emit/Drain.
func Encode(ev Event) []byte {
	buf := make([]byte, eventWireSize)
	buf[0] = byte(ev.Severity)
	buf[1] = byte(ev.Kind)
	binary.BigEndian.PutUint16(buf[2:4], ev.Port)
	binary.BigEndian.PutUint32(buf[4:8], ev.IP)
	buf[8] = ev.Flags
	binary.BigEndian.PutUint16(buf[9:11], ev.Errno)
	binary.BigEndian.PutUint32(buf[11:15], ev.Aux)
	return buf
}

// Decode is the inverse of Encode.
func Decode(buf []byte) (Event, bool) {
	if len(buf) < eventWireSize {
		return Event{}, false
	}
	return Event{
		Severity: Severity(buf[0]),
		Kind:     Kind(buf[1]),
		Port:     binary.BigEndian.Uint16(buf[2:4]),
		IP:       binary.BigEndian.Uint32(buf[4:8]),
		Flags:    buf[8],
		Errno:    binary.BigEndian.Uint16(buf[9:11]),
		Aux:      binary.BigEndian.Uint32(buf[11:15]),
	}, true
}
