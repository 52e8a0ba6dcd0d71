package polysynth

import (
	"github.com/audiohost/synthhost/pkg/dsp/envelope"
	"github.com/audiohost/synthhost/pkg/dsp/oscillator"
	"github.com/audiohost/synthhost/pkg/midi"
)

// synthVoice renders one note. It reads its channel's bend and pressure
// from the owning engine on every Process call.
type synthVoice struct {
	engine *Engine

	osc *oscillator.Oscillator
	env *envelope.ADSR

	channel  uint8
	note     uint8
	velocity uint8
	baseFreq float64
	amp      float64
	active   bool
	age      int64
}

func newSynthVoice(e *Engine) *synthVoice {
	return &synthVoice{
		engine: e,
		osc:    oscillator.New(e.sampleRate),
		env:    envelope.New(e.sampleRate),
	}
}

func (v *synthVoice) IsActive() bool {
	return v.active
}

func (v *synthVoice) Channel() uint8 {
	return v.channel
}

func (v *synthVoice) Note() uint8 {
	return v.note
}

func (v *synthVoice) Amplitude() float64 {
	if !v.active {
		return 0
	}
	return v.amp
}

func (v *synthVoice) Age() int64 {
	return v.age
}

func (v *synthVoice) Trigger(channel, note, velocity uint8) {
	v.channel = channel
	v.note = note
	v.velocity = velocity
	v.baseFreq = midi.NoteToFrequency(note, 440.0)
	v.amp = float64(velocity) / 127.0
	v.active = true
	v.age = 0

	ch := &v.engine.channels[channel&0x0F]
	v.osc.SetWaveform(ch.wave)
	v.osc.SetFrequency(v.baseFreq * ch.bend)
	v.env.SetADSR(v.engine.attack, v.engine.decay, v.engine.sustain, v.engine.release)
	v.env.Trigger()
}

func (v *synthVoice) Release() {
	v.env.Release()
}

func (v *synthVoice) Stop() {
	v.active = false
	v.env.Reset()
	v.osc.Reset()
	v.age = 0
}

// Process fills output with the voice signal. The voice deactivates itself
// once its envelope reaches idle.
func (v *synthVoice) Process(output []float32) {
	if !v.active {
		for i := range output {
			output[i] = 0
		}
		return
	}

	ch := &v.engine.channels[v.channel&0x0F]
	v.osc.SetFrequency(v.baseFreq * ch.bend)
	pressureGain := float32(1.0 + 0.5*ch.pressure)

	for i := range output {
		sample := v.osc.Next() * v.env.Next() * float32(v.amp) * pressureGain
		output[i] = sample
		v.age++

		if v.env.CurrentStage() == envelope.StageIdle {
			v.active = false
			for j := i + 1; j < len(output); j++ {
				output[j] = 0
			}
			return
		}
	}
}
