package voice

import "testing"

// testVoice releases instantly so active counts drop as soon as Release is
// called, which keeps allocation tests deterministic.
type testVoice struct {
	active   bool
	channel  uint8
	note     uint8
	velocity uint8
	amp      float64
	age      int64
	released bool
	stopped  bool
}

func (v *testVoice) IsActive() bool     { return v.active }
func (v *testVoice) Channel() uint8     { return v.channel }
func (v *testVoice) Note() uint8        { return v.note }
func (v *testVoice) Amplitude() float64 { return v.amp }
func (v *testVoice) Age() int64         { return v.age }

func (v *testVoice) Trigger(channel, note, velocity uint8) {
	v.active = true
	v.channel = channel
	v.note = note
	v.velocity = velocity
	v.amp = float64(velocity) / 127.0
	v.age = 0
	v.released = false
	v.stopped = false
}

func (v *testVoice) Release() {
	v.active = false
	v.released = true
}

func (v *testVoice) Stop() {
	v.active = false
	v.stopped = true
}

func newTestAllocator(n int) (*Allocator, []*testVoice) {
	voices := make([]*testVoice, n)
	ifaces := make([]Voice, n)
	for i := range voices {
		voices[i] = &testVoice{}
		ifaces[i] = voices[i]
	}
	return NewAllocator(ifaces), voices
}

func TestNoteOnAllocates(t *testing.T) {
	a, _ := newTestAllocator(4)

	a.NoteOn(0, 60, 100)
	a.NoteOn(0, 64, 100)
	a.NoteOn(1, 60, 100)
	if got := a.ActiveVoiceCount(); got != 3 {
		t.Errorf("ActiveVoiceCount = %d, want 3", got)
	}
}

func TestNoteOnRetriggersSameNote(t *testing.T) {
	a, voices := newTestAllocator(4)

	a.NoteOn(0, 60, 100)
	a.NoteOn(0, 60, 80)
	if got := a.ActiveVoiceCount(); got != 1 {
		t.Errorf("ActiveVoiceCount = %d, want 1 after retrigger", got)
	}
	for _, v := range voices {
		if v.active && v.velocity != 80 {
			t.Errorf("retriggered velocity = %d, want 80", v.velocity)
		}
	}

	// Same note on a different channel is a separate voice.
	a.NoteOn(1, 60, 100)
	if got := a.ActiveVoiceCount(); got != 2 {
		t.Errorf("ActiveVoiceCount = %d, want 2 across channels", got)
	}
}

func TestNoteOffReleasesMatchingChannel(t *testing.T) {
	a, _ := newTestAllocator(4)

	a.NoteOn(0, 60, 100)
	a.NoteOn(1, 60, 100)
	a.NoteOff(0, 60)
	if got := a.ActiveVoiceCount(); got != 1 {
		t.Errorf("ActiveVoiceCount = %d, want 1; note-off must match channel", got)
	}
}

func TestSustainDefersNoteOff(t *testing.T) {
	a, voices := newTestAllocator(4)

	a.SetSustain(0, true)
	a.NoteOn(0, 60, 100)
	a.NoteOff(0, 60)
	if got := a.ActiveVoiceCount(); got != 1 {
		t.Fatalf("ActiveVoiceCount = %d, want 1 while pedal held", got)
	}

	a.SetSustain(0, false)
	if got := a.ActiveVoiceCount(); got != 0 {
		t.Errorf("ActiveVoiceCount = %d, want 0 after pedal lift", got)
	}
	for _, v := range voices {
		if v.stopped {
			t.Error("pedal lift must release, not stop")
		}
	}
}

func TestSustainedNoteOffDoesNotAllocate(t *testing.T) {
	a, _ := newTestAllocator(4)
	a.SetSustain(0, true)
	for note := uint8(0); note < 16; note++ {
		a.NoteOn(0, note, 100)
	}

	allocs := testing.AllocsPerRun(100, func() {
		for note := uint8(0); note < 16; note++ {
			a.NoteOff(0, note)
		}
	})
	if allocs != 0 {
		t.Errorf("NoteOff allocated %.0f times per run, want 0", allocs)
	}
}

func TestSustainedNoteRetriggerClearsDeferredRelease(t *testing.T) {
	a, _ := newTestAllocator(4)

	a.SetSustain(0, true)
	a.NoteOn(0, 60, 100)
	a.NoteOff(0, 60)
	a.NoteOn(0, 60, 90)
	a.SetSustain(0, false)
	if got := a.ActiveVoiceCount(); got != 1 {
		t.Errorf("ActiveVoiceCount = %d, want 1; retrigger cancels the deferred release", got)
	}
}

func TestStealOldest(t *testing.T) {
	a, voices := newTestAllocator(2)

	a.NoteOn(0, 60, 100)
	a.NoteOn(0, 61, 100)
	for _, v := range voices {
		if v.note == 60 {
			v.age = 1000
		}
	}

	a.NoteOn(0, 62, 100)
	for _, v := range voices {
		if v.active && v.note == 60 {
			t.Error("oldest voice not stolen")
		}
	}
	if got := a.ActiveVoiceCount(); got != 2 {
		t.Errorf("ActiveVoiceCount = %d, want 2", got)
	}
}

func TestStealQuietest(t *testing.T) {
	a, voices := newTestAllocator(2)
	a.SetStealingMode(StealQuietest)

	a.NoteOn(0, 60, 20)
	a.NoteOn(0, 61, 120)
	a.NoteOn(0, 62, 100)

	for _, v := range voices {
		if v.active && v.note == 60 {
			t.Error("quietest voice not stolen")
		}
	}
}

func TestStealNoneDropsNote(t *testing.T) {
	a, voices := newTestAllocator(2)
	a.SetStealingMode(StealNone)

	a.NoteOn(0, 60, 100)
	a.NoteOn(0, 61, 100)
	a.NoteOn(0, 62, 100)

	for _, v := range voices {
		if v.note == 62 {
			t.Error("note allocated despite StealNone")
		}
	}
}

func TestReleaseAndStopChannel(t *testing.T) {
	a, voices := newTestAllocator(4)

	a.NoteOn(0, 60, 100)
	a.NoteOn(0, 61, 100)
	a.NoteOn(1, 62, 100)

	a.ReleaseChannel(0)
	if got := a.ActiveVoiceCount(); got != 1 {
		t.Errorf("ActiveVoiceCount = %d, want 1 after ReleaseChannel(0)", got)
	}

	a.StopChannel(1)
	if got := a.ActiveVoiceCount(); got != 0 {
		t.Errorf("ActiveVoiceCount = %d, want 0 after StopChannel(1)", got)
	}
	for _, v := range voices {
		if v.note == 62 && !v.stopped {
			t.Error("StopChannel must stop, not release")
		}
	}
}

func TestResetClearsEverything(t *testing.T) {
	a, _ := newTestAllocator(4)
	a.SetSustain(0, true)
	a.NoteOn(0, 60, 100)
	a.NoteOff(0, 60)

	a.Reset()
	if got := a.ActiveVoiceCount(); got != 0 {
		t.Errorf("ActiveVoiceCount = %d, want 0 after Reset", got)
	}

	// Pedal state must be gone: a fresh note-off releases immediately.
	a.NoteOn(0, 60, 100)
	a.NoteOff(0, 60)
	if got := a.ActiveVoiceCount(); got != 0 {
		t.Errorf("ActiveVoiceCount = %d, want 0; Reset must clear sustain", got)
	}
}

func TestSetMaxVoicesClamps(t *testing.T) {
	a, _ := newTestAllocator(4)

	a.SetMaxVoices(100)
	if a.MaxVoices() != 4 {
		t.Errorf("MaxVoices = %d, want clamp at pool size", a.MaxVoices())
	}
	a.SetMaxVoices(0)
	if a.MaxVoices() != 1 {
		t.Errorf("MaxVoices = %d, want floor of 1", a.MaxVoices())
	}

	a.SetMaxVoices(2)
	a.NoteOn(0, 60, 100)
	a.NoteOn(0, 61, 100)
	a.NoteOn(0, 62, 100)
	if got := a.ActiveVoiceCount(); got != 2 {
		t.Errorf("ActiveVoiceCount = %d, want polyphony limit 2", got)
	}
}
