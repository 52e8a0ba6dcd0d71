package midi

import (
	"math"
	"testing"
)

func TestNoteToFrequency(t *testing.T) {
	cases := []struct {
		note   uint8
		tuning float64
		want   float64
	}{
		{69, 440.0, 440.0},
		{57, 440.0, 220.0},
		{81, 440.0, 880.0},
		{69, 0, 440.0}, // zero tuning falls back to concert pitch
		{69, 432.0, 432.0},
	}
	for _, tc := range cases {
		got := NoteToFrequency(tc.note, tc.tuning)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NoteToFrequency(%d, %g) = %g, want %g", tc.note, tc.tuning, got, tc.want)
		}
	}
}

func TestRawConstructorsMaskInputs(t *testing.T) {
	ev := NewRawNoteOn(10, 0x1F, 0xFF, 0xFF)
	if ev.Data[0] != 0x9F {
		t.Errorf("status = %#x, want 0x9F", ev.Data[0])
	}
	if ev.Data[1] != 0x7F || ev.Data[2] != 0x7F {
		t.Errorf("data bytes = %#x %#x, want masked to 7 bits", ev.Data[1], ev.Data[2])
	}
	if ev.SampleOffset() != 10 {
		t.Errorf("offset = %d, want 10", ev.SampleOffset())
	}
	if ev.Type() != EventTypeRaw {
		t.Errorf("type = %d, want raw", ev.Type())
	}
}
