package logging

import (
	"os"
	"sync"
)

// RingBuffer keeps the most recent log output in memory so a crash can
// dump context even when file logging is off. It implements io.Writer;
// once the capacity is reached the oldest bytes are dropped.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []byte
	start int // index of the oldest byte
	count int // bytes currently held
}

// NewRingBuffer creates a ring buffer holding at most capacity bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1024 * 1024
	}
	return &RingBuffer{buf: make([]byte, capacity)}
}

// Write appends p, evicting the oldest bytes when over capacity. Always
// reports len(p) written.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(p)
	size := len(rb.buf)
	if n >= size {
		// Only the tail of p survives.
		copy(rb.buf, p[n-size:])
		rb.start = 0
		rb.count = size
		return n, nil
	}

	end := (rb.start + rb.count) % size
	first := copy(rb.buf[end:], p)
	copy(rb.buf, p[first:])

	rb.count += n
	if rb.count > size {
		rb.start = (rb.start + rb.count - size) % size
		rb.count = size
	}
	return n, nil
}

// Bytes returns the held bytes, oldest first.
func (rb *RingBuffer) Bytes() []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([]byte, rb.count)
	first := copy(out, rb.buf[rb.start:min(rb.start+rb.count, len(rb.buf))])
	copy(out[first:], rb.buf[:rb.count-first])
	return out
}

// DumpToFile writes the held bytes to path, oldest first.
func (rb *RingBuffer) DumpToFile(path string) error {
	return os.WriteFile(path, rb.Bytes(), 0o644)
}
