// Package notify provides the bounded single-producer/single-consumer queue
// for deferred notifications. The audio thread pushes during a block without
// locking or blocking; a non-realtime thread drains after the block returns.
package notify

import (
	"sync/atomic"
)

// Kind identifies the notification type.
type Kind uint8

const (
	ParameterChanged Kind = iota
	ProgramChanged
	NoteOn
	NoteOff
)

// Notification describes a state change that happened during rendering.
// Index is a parameter or program index; the host-level pseudo-parameters
// use negative indices.
type Notification struct {
	Kind    Kind
	Index   int32
	Channel uint8
	Note    uint8
	Value   float64
}

// Queue is a fixed-size SPSC ring. Push never blocks; when the ring is full
// the notification is dropped and counted.
type Queue struct {
	buf     []Notification
	mask    uint32
	head    atomic.Uint32 // next write position
	tail    atomic.Uint32 // next read position
	dropped atomic.Uint64
}

// NewQueue creates a queue holding at least capacity notifications
// (rounded up to a power of two).
func NewQueue(capacity int) *Queue {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Queue{
		buf:  make([]Notification, size),
		mask: uint32(size - 1),
	}
}

// Push enqueues a notification from the producer side. Returns false when
// the ring is full and the notification was dropped.
func (q *Queue) Push(n Notification) bool {
	head := q.head.Load()
	tail := q.tail.Load()
	if head-tail >= uint32(len(q.buf)) {
		q.dropped.Add(1)
		return false
	}
	q.buf[head&q.mask] = n
	q.head.Store(head + 1)
	return true
}

// Drain delivers all pending notifications to fn in push order and returns
// how many were delivered. Consumer side only.
func (q *Queue) Drain(fn func(Notification)) int {
	tail := q.tail.Load()
	head := q.head.Load()
	count := 0
	for ; tail != head; tail++ {
		fn(q.buf[tail&q.mask])
		count++
	}
	q.tail.Store(tail)
	return count
}

// Len reports the number of pending notifications.
func (q *Queue) Len() int {
	return int(q.head.Load() - q.tail.Load())
}

// Dropped reports how many notifications were lost to a full ring.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
