// Package voice provides polyphonic voice allocation keyed by
// (channel, note) for multi-timbral engines.
package voice

// StealingMode defines how voices are stolen when all are in use
type StealingMode int

const (
	// StealOldest steals the oldest playing voice
	StealOldest StealingMode = iota
	// StealQuietest steals the voice with lowest amplitude
	StealQuietest
	// StealNone doesn't steal - new notes are ignored when full
	StealNone
)

// Voice represents a single voice in the synthesizer
type Voice interface {
	// IsActive returns true if the voice is currently playing
	IsActive() bool
	// Channel returns the MIDI channel this voice is bound to
	Channel() uint8
	// Note returns the MIDI note number this voice is playing
	Note() uint8
	// Amplitude returns the current amplitude (for steal quietest)
	Amplitude() float64
	// Age returns how long this voice has been playing (in samples)
	Age() int64
	// Trigger starts playing a note
	Trigger(channel, note, velocity uint8)
	// Release releases the note
	Release()
	// Stop immediately stops the voice
	Stop()
}

// Allocator manages voice allocation for polyphonic synthesis. Single
// audio-thread owner; no internal locking, no allocation after construction.
type Allocator struct {
	voices       []Voice
	stealingMode StealingMode
	maxVoices    int
	lastUsed     int

	sustain   [16]bool
	sustained [16][128]bool
}

// NewAllocator creates a new voice allocator
func NewAllocator(voices []Voice) *Allocator {
	return &Allocator{
		voices:       voices,
		stealingMode: StealOldest,
		maxVoices:    len(voices),
	}
}

// SetStealingMode sets the voice stealing mode
func (a *Allocator) SetStealingMode(mode StealingMode) {
	a.stealingMode = mode
}

// SetMaxVoices limits the number of usable voices (the polyphony).
func (a *Allocator) SetMaxVoices(max int) {
	if max > len(a.voices) {
		max = len(a.voices)
	}
	if max < 1 {
		max = 1
	}
	a.maxVoices = max
}

// MaxVoices returns the current polyphony limit.
func (a *Allocator) MaxVoices() int {
	return a.maxVoices
}

// NoteOn allocates a voice for (channel, note).
func (a *Allocator) NoteOn(channel, note, velocity uint8) {
	if channel >= 16 || note >= 128 {
		return
	}

	// Retrigger if the same (channel, note) is already sounding.
	for _, v := range a.voices[:a.maxVoices] {
		if v.IsActive() && v.Channel() == channel && v.Note() == note {
			v.Trigger(channel, note, velocity)
			a.sustained[channel][note] = false
			return
		}
	}

	idx := a.findFreeVoice()
	if idx == -1 {
		idx = a.stealVoice()
		if idx == -1 {
			return
		}
	}
	a.voices[idx].Trigger(channel, note, velocity)
}

// NoteOff releases the voice playing (channel, note). With the sustain
// pedal held, the release is deferred until the pedal is lifted.
func (a *Allocator) NoteOff(channel, note uint8) {
	if channel >= 16 || note >= 128 {
		return
	}
	if a.sustain[channel] {
		a.sustained[channel][note] = true
		return
	}
	for _, v := range a.voices[:a.maxVoices] {
		if v.IsActive() && v.Channel() == channel && v.Note() == note {
			v.Release()
		}
	}
}

// SetSustain sets the sustain pedal state for a channel.
func (a *Allocator) SetSustain(channel uint8, on bool) {
	if channel >= 16 {
		return
	}
	a.sustain[channel] = on
	if !on {
		for note := 0; note < 128; note++ {
			if a.sustained[channel][note] {
				a.sustained[channel][note] = false
				a.NoteOff(channel, uint8(note))
			}
		}
	}
}

// ReleaseChannel releases every sounding voice on a channel (all notes off).
func (a *Allocator) ReleaseChannel(channel uint8) {
	if channel >= 16 {
		return
	}
	for _, v := range a.voices[:a.maxVoices] {
		if v.IsActive() && v.Channel() == channel {
			v.Release()
		}
	}
	a.sustain[channel] = false
	a.sustained[channel] = [128]bool{}
}

// StopChannel immediately silences every voice on a channel (all sound off).
func (a *Allocator) StopChannel(channel uint8) {
	if channel >= 16 {
		return
	}
	for _, v := range a.voices[:a.maxVoices] {
		if v.IsActive() && v.Channel() == channel {
			v.Stop()
		}
	}
	a.sustain[channel] = false
	a.sustained[channel] = [128]bool{}
}

// Reset stops all voices and clears pedal state.
func (a *Allocator) Reset() {
	for _, v := range a.voices {
		v.Stop()
	}
	for ch := range a.sustained {
		a.sustain[ch] = false
		a.sustained[ch] = [128]bool{}
	}
}

// ActiveVoiceCount returns the number of active voices
func (a *Allocator) ActiveVoiceCount() int {
	count := 0
	for _, v := range a.voices[:a.maxVoices] {
		if v.IsActive() {
			count++
		}
	}
	return count
}

// findFreeVoice finds an inactive voice, round-robin to distribute evenly.
func (a *Allocator) findFreeVoice() int {
	start := a.lastUsed
	for i := 0; i < a.maxVoices; i++ {
		idx := (start + i + 1) % a.maxVoices
		if !a.voices[idx].IsActive() {
			a.lastUsed = idx
			return idx
		}
	}
	return -1
}

// stealVoice steals a voice based on the stealing mode
func (a *Allocator) stealVoice() int {
	if a.stealingMode == StealNone {
		return -1
	}

	bestIdx := -1
	var bestValue float64

	for i := 0; i < a.maxVoices; i++ {
		if !a.voices[i].IsActive() {
			continue
		}
		switch a.stealingMode {
		case StealOldest:
			age := float64(a.voices[i].Age())
			if bestIdx == -1 || age > bestValue {
				bestIdx = i
				bestValue = age
			}
		case StealQuietest:
			amp := a.voices[i].Amplitude()
			if bestIdx == -1 || amp < bestValue {
				bestIdx = i
				bestValue = amp
			}
		}
	}

	if bestIdx != -1 {
		a.voices[bestIdx].Stop()
	}
	return bestIdx
}
