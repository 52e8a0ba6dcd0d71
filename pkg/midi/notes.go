package midi

import (
	"sync"
)

// ExternalNote is a note injected by a non-realtime thread. Velocity zero
// encodes note-off.
type ExternalNote struct {
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// ExternalNoteQueue is the lock-protected FIFO between a non-realtime
// producer and the audio thread. The audio thread drains with TryDrain and
// never blocks: if the producer holds the lock, the drain is skipped for
// that block and the notes stay queued for the next one.
type ExternalNoteQueue struct {
	mu    sync.Mutex
	notes []ExternalNote
	max   int
}

// NewExternalNoteQueue creates a queue holding at most capacity notes.
func NewExternalNoteQueue(capacity int) *ExternalNoteQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &ExternalNoteQueue{
		notes: make([]ExternalNote, 0, capacity),
		max:   capacity,
	}
}

// Append enqueues a note from the producer side. Returns false when the
// queue is full and the note was dropped.
func (q *ExternalNoteQueue) Append(n ExternalNote) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.notes) >= q.max {
		return false
	}
	q.notes = append(q.notes, n)
	return true
}

// WithLock runs fn while holding the queue lock, keeping TryDrain out for
// the duration of fn. The lock is not reentrant; fn must not call other
// queue methods.
func (q *ExternalNoteQueue) WithLock(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fn()
}

// TryDrain moves queued notes into dst without blocking. It returns the
// number of notes copied and whether the lock was acquired at all; when the
// lock is contended it returns (0, false) and consumes nothing. Notes that
// do not fit in dst remain queued.
func (q *ExternalNoteQueue) TryDrain(dst []ExternalNote) (int, bool) {
	if !q.mu.TryLock() {
		return 0, false
	}
	defer q.mu.Unlock()

	n := copy(dst, q.notes)
	if n == len(q.notes) {
		q.notes = q.notes[:0]
	} else {
		rest := copy(q.notes, q.notes[n:])
		q.notes = q.notes[:rest]
	}
	return n, true
}

// Clear drops all queued notes.
func (q *ExternalNoteQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notes = q.notes[:0]
}

// Len reports the number of queued notes.
func (q *ExternalNoteQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notes)
}
