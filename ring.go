package vgaconsole

// DefaultInputCapacity is the size of the keyboard input buffer.
const DefaultInputCapacity = 1024

// RingBuffer is a fixed-capacity FIFO of bytes.
// When full, Push drops the incoming byte; existing entries are never evicted.
// It is not safe for concurrent use; Device guards its instance with a lock.
type RingBuffer struct {
	data []byte
	head int
	tail int
	size int
}

// NewRingBuffer creates a ring buffer holding up to capacity bytes.
// Capacities <= 0 fall back to DefaultInputCapacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultInputCapacity
	}
	return &RingBuffer{data: make([]byte, capacity)}
}

// Push appends b. Returns false if the buffer was full and b was dropped.
func (r *RingBuffer) Push(b byte) bool {
	if r.size == len(r.data) {
		return false
	}
	r.data[r.tail] = b
	r.tail = (r.tail + 1) % len(r.data)
	r.size++
	return true
}

// Pop removes and returns the oldest byte.
// The second result is false if the buffer is empty.
func (r *RingBuffer) Pop() (byte, bool) {
	if r.size == 0 {
		return 0, false
	}
	b := r.data[r.head]
	r.head = (r.head + 1) % len(r.data)
	r.size--
	return b, true
}

// Len returns the number of buffered bytes.
func (r *RingBuffer) Len() int {
	return r.size
}

// Cap returns the fixed capacity.
func (r *RingBuffer) Cap() int {
	return len(r.data)
}
