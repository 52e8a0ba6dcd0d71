// Package synth defines the contract between the render core and a
// synthesis engine. All methods are called synchronously from the audio
// thread and must be real-time safe: no allocation, no locking, no I/O.
package synth

import (
	"github.com/audiohost/synthhost/pkg/framework/param"
)

// Synthesizer is the synthesis engine driven by the render core.
type Synthesizer interface {
	NoteOn(channel, note, velocity uint8)
	NoteOff(channel, note uint8)
	ControlChange(channel, controller, value uint8)
	ProgramSelect(channel uint8, bank, program uint32)
	// PitchBend takes the 14-bit wheel value; 0x2000 is center.
	PitchBend(channel uint8, value uint16)
	ChannelPressure(channel, pressure uint8)
	AllNotesOff(channel uint8)
	AllSoundOff(channel uint8)

	// Render adds len(left) frames of audio into the two planar buffers.
	// Buffers are pre-zeroed slices of the block.
	Render(left, right []float32)

	// ActiveVoiceCount reports the number of currently sounding voices.
	ActiveVoiceCount() int
}

// ParameterProvider is implemented by engines that expose input parameters
// for the host's registry. The returned parameters are adopted in order.
type ParameterProvider interface {
	Parameters() []*param.Parameter
}

// ParameterTarget is implemented by engines that accept denormalized
// parameter values by registry index.
type ParameterTarget interface {
	SetParameter(index int32, value float32)
}
