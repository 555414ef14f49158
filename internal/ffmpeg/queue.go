package ffmpeg

import "sync"

// ringQueue is a growable FIFO ring shared between the stdout reader and the
// pulling caller.
type ringQueue[T any] struct {
	mu       sync.Mutex
	data     []T
	size     int
	readPos  int
	writePos int
}

func newRingQueue[T any](capacity int) *ringQueue[T] {
	return &ringQueue[T]{data: make([]T, max(capacity, 1))}
}

// Push appends v, doubling the ring when full.
func (q *ringQueue[T]) Push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == len(q.data) {
		q.grow()
	}
	q.data[q.writePos] = v
	q.writePos = (q.writePos + 1) % len(q.data)
	q.size++
}

// Peek returns the oldest element without removing it.
func (q *ringQueue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.size == 0 {
		return zero, false
	}
	return q.data[q.readPos], true
}

// Pop removes and returns the oldest element.
func (q *ringQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.data[q.readPos]
	q.data[q.readPos] = zero
	q.readPos = (q.readPos + 1) % len(q.data)
	q.size--
	return v, true
}

// Len returns the number of queued elements.
func (q *ringQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Clear drops every queued element.
func (q *ringQueue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	clear(q.data)
	q.size, q.readPos, q.writePos = 0, 0, 0
}

// grow doubles capacity, unwrapping the contents to the front.
func (q *ringQueue[T]) grow() {
	next := make([]T, 2*len(q.data))
	if q.size > 0 {
		if q.readPos < q.writePos {
			copy(next, q.data[q.readPos:q.writePos])
		} else {
			n := copy(next, q.data[q.readPos:])
			copy(next[n:], q.data[:q.writePos])
		}
	}
	q.data = next
	q.readPos = 0
	q.writePos = q.size
}
