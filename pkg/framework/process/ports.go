package process

import (
	"sort"

	"github.com/audiohost/synthhost/pkg/midi"
)

// EventIn is the host-side input event port. Events returned by Event are
// in non-decreasing sample-offset order.
type EventIn interface {
	EventCount() uint32
	Event(index uint32) midi.Event
}

// EventOut accepts control events emitted during a block, e.g. the
// voice-count feedback parameter. Returns false when the event was not
// accepted.
type EventOut interface {
	WriteControlEvent(offset uint32, channel uint8, controller uint8, value float64) bool
}

// EventBuffer is an in-memory implementation of both ports, used by the
// offline renderer and tests. It keeps input events sorted by offset
// (stable, so equal-time events keep insertion order).
type EventBuffer struct {
	in     []midi.Event
	out    []midi.Event
	sorted bool
}

// NewEventBuffer creates an empty event buffer.
func NewEventBuffer() *EventBuffer {
	return &EventBuffer{sorted: true}
}

// Add appends an input event.
func (b *EventBuffer) Add(ev midi.Event) {
	b.in = append(b.in, ev)
	b.sorted = false
}

// EventCount implements EventIn.
func (b *EventBuffer) EventCount() uint32 {
	b.ensureSorted()
	return uint32(len(b.in))
}

// Event implements EventIn.
func (b *EventBuffer) Event(index uint32) midi.Event {
	b.ensureSorted()
	return b.in[index]
}

// WriteControlEvent implements EventOut.
func (b *EventBuffer) WriteControlEvent(offset uint32, channel uint8, controller uint8, value float64) bool {
	b.out = append(b.out, midi.ControlChangeEvent{
		BaseEvent:  midi.BaseEvent{EventChannel: channel, Offset: offset},
		Controller: controller,
		Value:      value,
	})
	return true
}

// OutEvents returns the control events written during processing.
func (b *EventBuffer) OutEvents() []midi.Event {
	return b.out
}

// Clear drops all input and output events.
func (b *EventBuffer) Clear() {
	b.in = b.in[:0]
	b.out = b.out[:0]
	b.sorted = true
}

func (b *EventBuffer) ensureSorted() {
	if b.sorted {
		return
	}
	sort.SliceStable(b.in, func(i, j int) bool {
		return b.in[i].SampleOffset() < b.in[j].SampleOffset()
	})
	b.sorted = true
}
