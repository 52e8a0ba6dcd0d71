package process

import (
	"testing"

	"github.com/audiohost/synthhost/pkg/midi"
)

func TestEventBufferSortsByOffset(t *testing.T) {
	b := NewEventBuffer()
	b.Add(midi.NewRawNoteOn(96, 0, 62, 100))
	b.Add(midi.NewRawNoteOn(32, 0, 60, 100))
	b.Add(midi.NewRawNoteOn(64, 0, 61, 100))

	if b.EventCount() != 3 {
		t.Fatalf("EventCount = %d, want 3", b.EventCount())
	}
	offsets := []uint32{32, 64, 96}
	for i, want := range offsets {
		if got := b.Event(uint32(i)).SampleOffset(); got != want {
			t.Errorf("event %d offset = %d, want %d", i, got, want)
		}
	}
}

func TestEventBufferStableForEqualOffsets(t *testing.T) {
	b := NewEventBuffer()
	b.Add(midi.BankSelectEvent{BaseEvent: midi.BaseEvent{EventChannel: 0, Offset: 10}, Bank: 1})
	b.Add(midi.ProgramChangeEvent{BaseEvent: midi.BaseEvent{EventChannel: 0, Offset: 10}, Program: 5})

	if _, ok := b.Event(0).(midi.BankSelectEvent); !ok {
		t.Errorf("event 0 = %T, want bank select first", b.Event(0))
	}
	if _, ok := b.Event(1).(midi.ProgramChangeEvent); !ok {
		t.Errorf("event 1 = %T, want program change second", b.Event(1))
	}
}

func TestEventBufferControlOut(t *testing.T) {
	b := NewEventBuffer()
	if !b.WriteControlEvent(128, 0, 85, 0.5) {
		t.Fatal("WriteControlEvent rejected")
	}
	out := b.OutEvents()
	if len(out) != 1 {
		t.Fatalf("OutEvents = %d, want 1", len(out))
	}
	cc := out[0].(midi.ControlChangeEvent)
	if cc.Controller != 85 || cc.Value != 0.5 || cc.SampleOffset() != 128 {
		t.Errorf("control event = %+v", cc)
	}

	b.Clear()
	if b.EventCount() != 0 || len(b.OutEvents()) != 0 {
		t.Error("Clear left events behind")
	}
}

func TestContext(t *testing.T) {
	ctx := &Context{
		Out: [][]float32{make([]float32, 64), make([]float32, 64)},
	}
	if ctx.NumSamples() != 64 {
		t.Errorf("NumSamples = %d, want 64", ctx.NumSamples())
	}
	if ctx.NumOutChannels() != 2 {
		t.Errorf("NumOutChannels = %d, want 2", ctx.NumOutChannels())
	}

	ctx.Out[0][10] = 1
	ctx.Out[1][20] = -1
	ctx.Clear()
	if ctx.Out[0][10] != 0 || ctx.Out[1][20] != 0 {
		t.Error("Clear left samples behind")
	}

	empty := &Context{}
	if empty.NumSamples() != 0 {
		t.Errorf("empty NumSamples = %d, want 0", empty.NumSamples())
	}
}
