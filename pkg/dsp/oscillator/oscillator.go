// Package oscillator provides audio oscillators for synthesis
package oscillator

import "math"

// Waveform selects the generated wave shape.
type Waveform uint8

const (
	Sine Waveform = iota
	Sawtooth
	Square
	Triangle
	Noise
)

// Oscillator generates periodic waveforms
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64
	phaseInc   float64
	wave       Waveform
	noiseState uint32
}

// New creates a new oscillator
func New(sampleRate float64) *Oscillator {
	return &Oscillator{
		sampleRate: sampleRate,
		frequency:  440.0,
		phaseInc:   440.0 / sampleRate,
		noiseState: 0x12345678,
	}
}

// SetFrequency sets the oscillator frequency
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// SetWaveform selects the wave shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.wave = w
}

// Waveform returns the current wave shape.
func (o *Oscillator) Waveform() Waveform {
	return o.wave
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0.0
}

// Next generates one sample of the selected waveform.
func (o *Oscillator) Next() float32 {
	var sample float32

	switch o.wave {
	case Sine:
		sample = float32(math.Sin(2.0 * math.Pi * o.phase))
	case Sawtooth:
		sample = float32(2.0*o.phase - 1.0)
	case Square:
		if o.phase < 0.5 {
			sample = 1.0
		} else {
			sample = -1.0
		}
	case Triangle:
		if o.phase < 0.5 {
			sample = float32(4.0*o.phase - 1.0)
		} else {
			sample = float32(3.0 - 4.0*o.phase)
		}
	case Noise:
		// xorshift32, scaled to [-1, 1)
		o.noiseState ^= o.noiseState << 13
		o.noiseState ^= o.noiseState >> 17
		o.noiseState ^= o.noiseState << 5
		sample = float32(int32(o.noiseState)) / float32(1<<31)
	}

	o.phase += o.phaseInc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
	return sample
}

// Process fills buffer with the selected waveform - no allocations
func (o *Oscillator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = o.Next()
	}
}
