// Package polysynth implements a small multi-timbral polyphonic engine
// satisfying the synth.Synthesizer contract. Each of the 16 MIDI channels
// plays one of the waveform programs; bank 128 holds the percussion
// programs by convention.
package polysynth

import (
	"math"

	"github.com/audiohost/synthhost/pkg/dsp/oscillator"
	"github.com/audiohost/synthhost/pkg/framework/param"
	"github.com/audiohost/synthhost/pkg/framework/preset"
	"github.com/audiohost/synthhost/pkg/framework/voice"
	"github.com/audiohost/synthhost/pkg/midi"
)

// Parameter indices, in the order Parameters() returns them.
const (
	ParamAttack int32 = iota
	ParamDecay
	ParamSustain
	ParamRelease
	ParamPolyphony
)

const (
	maxVoices        = 64
	defaultPolyphony = 16
	numChannels      = 16

	// Master mix gain keeps a full chord below clipping.
	mixGain = 0.2

	// Pitch wheel range in semitones.
	bendRange = 2.0
)

type channelState struct {
	wave     oscillator.Waveform
	bend     float64 // frequency multiplier derived from the pitch wheel
	pressure float64 // channel pressure, 0..1
}

// Engine is a polyphonic waveform synthesizer. All methods are called from
// the audio thread only, per the synth.Synthesizer contract.
type Engine struct {
	sampleRate float64

	voices []*synthVoice
	alloc  *voice.Allocator

	channels [numChannels]channelState

	// Current envelope settings, applied to voices at trigger time.
	attack  float64
	decay   float64
	sustain float64
	release float64

	mixBuf []float32
}

// New creates an engine for the given sample rate and maximum block size.
func New(sampleRate float64, maxBlockSize int) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		attack:     0.005,
		decay:      0.1,
		sustain:    0.7,
		release:    0.2,
		mixBuf:     make([]float32, maxBlockSize),
	}

	e.voices = make([]*synthVoice, maxVoices)
	ifaces := make([]voice.Voice, maxVoices)
	for i := range e.voices {
		e.voices[i] = newSynthVoice(e)
		ifaces[i] = e.voices[i]
	}
	e.alloc = voice.NewAllocator(ifaces)
	e.alloc.SetMaxVoices(defaultPolyphony)

	for ch := range e.channels {
		e.channels[ch].bend = 1.0
	}
	return e
}

// NoteOn starts a note.
func (e *Engine) NoteOn(channel, note, velocity uint8) {
	e.alloc.NoteOn(channel, note, velocity)
}

// NoteOff releases a note.
func (e *Engine) NoteOff(channel, note uint8) {
	e.alloc.NoteOff(channel, note)
}

// ControlChange handles the controllers the engine understands; everything
// else is ignored.
func (e *Engine) ControlChange(channel, controller, value uint8) {
	switch controller {
	case midi.CCSustain:
		e.alloc.SetSustain(channel, value >= 64)
	case midi.CCAllSoundOff:
		e.AllSoundOff(channel)
	case midi.CCAllNotesOff:
		e.AllNotesOff(channel)
	}
}

// ProgramSelect switches the waveform program for a channel. Unknown
// (bank, program) pairs are ignored.
func (e *Engine) ProgramSelect(channel uint8, bank, program uint32) {
	if channel >= numChannels {
		return
	}
	for _, p := range enginePrograms {
		if p.Program.Bank == bank && p.Program.Program == program {
			e.channels[channel].wave = p.wave
			return
		}
	}
}

// PitchBend applies the 14-bit wheel value to a channel.
func (e *Engine) PitchBend(channel uint8, value uint16) {
	if channel >= numChannels {
		return
	}
	semis := bendRange * (float64(value) - 8192.0) / 8192.0
	e.channels[channel].bend = math.Exp2(semis / 12.0)
}

// ChannelPressure applies channel aftertouch.
func (e *Engine) ChannelPressure(channel, pressure uint8) {
	if channel >= numChannels {
		return
	}
	e.channels[channel].pressure = float64(pressure) / 127.0
}

// AllNotesOff releases every note on a channel.
func (e *Engine) AllNotesOff(channel uint8) {
	e.alloc.ReleaseChannel(channel)
}

// AllSoundOff silences a channel immediately.
func (e *Engine) AllSoundOff(channel uint8) {
	e.alloc.StopChannel(channel)
}

// Render mixes all active voices into the planar stereo buffers.
func (e *Engine) Render(left, right []float32) {
	n := len(left)
	if n == 0 {
		return
	}
	buf := e.mixBuf[:n]

	for _, v := range e.voices[:e.alloc.MaxVoices()] {
		if !v.IsActive() {
			continue
		}
		v.Process(buf)
		for i := 0; i < n; i++ {
			s := buf[i] * mixGain
			left[i] += s
			right[i] += s
		}
	}
}

// ActiveVoiceCount reports the number of sounding voices.
func (e *Engine) ActiveVoiceCount() int {
	return e.alloc.ActiveVoiceCount()
}

// SetParameter applies a denormalized parameter value by index. Implements
// synth.ParameterTarget.
func (e *Engine) SetParameter(index int32, value float32) {
	switch index {
	case ParamAttack:
		e.attack = float64(value)
	case ParamDecay:
		e.decay = float64(value)
	case ParamSustain:
		e.sustain = float64(value)
	case ParamRelease:
		e.release = float64(value)
	case ParamPolyphony:
		e.alloc.SetMaxVoices(int(value))
	}
}

// Parameters returns the engine's input parameters for the host registry.
// Implements synth.ParameterProvider. Attack and release carry the
// conventional sound-controller CC bindings.
func (e *Engine) Parameters() []*param.Parameter {
	return []*param.Parameter{
		param.New("Attack").Range(0.001, 2.0).Default(float32(e.attack)).Unit("s").MidiCC(0, 73).Build(),
		param.New("Decay").Range(0.001, 2.0).Default(float32(e.decay)).Unit("s").Build(),
		param.New("Sustain").Range(0.0, 1.0).Default(float32(e.sustain)).Build(),
		param.New("Release").Range(0.001, 5.0).Default(float32(e.release)).Unit("s").MidiCC(0, 72).Build(),
		param.New("Polyphony").Range(1, maxVoices).Default(defaultPolyphony).Integer().Build(),
	}
}

type engineProgram struct {
	preset.Program
	wave oscillator.Waveform
}

var enginePrograms = []engineProgram{
	{preset.Program{Bank: 0, Program: 0, Name: "Sine"}, oscillator.Sine},
	{preset.Program{Bank: 0, Program: 1, Name: "Sawtooth"}, oscillator.Sawtooth},
	{preset.Program{Bank: 0, Program: 2, Name: "Square"}, oscillator.Square},
	{preset.Program{Bank: 0, Program: 3, Name: "Triangle"}, oscillator.Triangle},
	{preset.Program{Bank: 128, Program: 0, Name: "Noise Kit"}, oscillator.Noise},
}

// Programs enumerates the engine's presets. Implements preset.Source.
func (e *Engine) Programs() []preset.Program {
	progs := make([]preset.Program, len(enginePrograms))
	for i, p := range enginePrograms {
		progs[i] = p.Program
	}
	return progs
}
