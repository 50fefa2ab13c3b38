package usecase

import "github.com/mmuslimabdulj/tabembed/internal/domain"

// RingBuffer is a fixed-size circular buffer for navigation history
// It provides O(1) append and efficient memory usage
type RingBuffer struct {
	data []domain.NavigationRecord
	head int // next write position
	size int // current number of elements
	cap  int // maximum capacity
}

// NewRingBuffer creates a new ring buffer with the given capacity.
// Capacities below 1 are clamped to 1
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{
		data: make([]domain.NavigationRecord, capacity),
		head: 0,
		size: 0,
		cap:  capacity,
	}
}

// Add appends a record to the buffer, overwriting oldest if full
func (rb *RingBuffer) Add(rec domain.NavigationRecord) {
	rb.data[rb.head] = rec
	rb.head = (rb.head + 1) % rb.cap

	if rb.size < rb.cap {
		rb.size++
	}
}

// GetAll returns all records in chronological order (oldest first)
func (rb *RingBuffer) GetAll() []domain.NavigationRecord {
	if rb.size == 0 {
		return nil
	}

	result := make([]domain.NavigationRecord, rb.size)

	if rb.size < rb.cap {
		// Buffer not full yet, elements are at indices 0..size-1
		copy(result, rb.data[:rb.size])
	} else {
		// Buffer is full, head points to oldest element
		copy(result, rb.data[rb.head:])
		copy(result[rb.cap-rb.head:], rb.data[:rb.head])
	}

	return result
}

// Len returns the current number of elements
func (rb *RingBuffer) Len() int {
	return rb.size
}

// Clear removes all elements from the buffer
func (rb *RingBuffer) Clear() {
	rb.head = 0
	rb.size = 0
	for i := range rb.data {
		rb.data[i] = domain.NavigationRecord{}
	}
}
