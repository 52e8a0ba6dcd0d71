// Package param provides typed control-parameter descriptors and the
// fixed-size registry the render core addresses by integer index.
package param

import (
	"math"
	"sync/atomic"
)

// Direction tells whether a parameter is written by the host (Input) or
// reported by the plugin (Output).
type Direction uint8

const (
	Input Direction = iota
	Output
)

// Hints describe parameter behavior.
type Hints uint32

const (
	IsEnabled Hints = 1 << iota
	IsAutomatable
	IsBoolean
	IsInteger
	UsesScalePoints
)

// CCUnbound marks a parameter with no MIDI controller binding.
const CCUnbound int16 = -1

// Ranges holds the value range of a parameter in plain (denormalized) units.
type Ranges struct {
	Min       float32
	Max       float32
	Def       float32
	Step      float32
	StepSmall float32
	StepLarge float32
}

// FixValue clamps v into [Min, Max].
func (r Ranges) FixValue(v float32) float32 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// NormalizeValue maps a plain value into [0,1].
func (r Ranges) NormalizeValue(v float32) float32 {
	if r.Max <= r.Min {
		return 0
	}
	n := (v - r.Min) / (r.Max - r.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// UnnormalizeValue maps a normalized [0,1] value into the plain range.
func (r Ranges) UnnormalizeValue(n float32) float32 {
	return r.Min + n*(r.Max-r.Min)
}

// Parameter is a single control parameter. Identity is the stable Index
// assigned by the registry at configuration time.
type Parameter struct {
	Index     int32
	Name      string
	Unit      string
	Direction Direction
	Hints     Hints
	Ranges    Ranges

	// MIDI binding. MidiCC is CCUnbound when the parameter has no
	// controller assigned.
	MidiChannel uint8
	MidiCC      int16

	// Plain value, stored as bits for lock-free reads off the audio thread.
	value atomic.Uint32
}

// Value returns the current plain value.
func (p *Parameter) Value() float32 {
	return math.Float32frombits(p.value.Load())
}

// SetValue stores a plain value, clamped into the parameter's range.
func (p *Parameter) SetValue(v float32) {
	p.value.Store(math.Float32bits(p.Ranges.FixValue(v)))
}

// NormalizedValue returns the current value mapped into [0,1].
func (p *Parameter) NormalizedValue() float32 {
	return p.Ranges.NormalizeValue(p.Value())
}

// DenormalizeMIDI maps an incoming normalized controller value into the
// parameter's plain range. Boolean parameters threshold at the midpoint;
// integer parameters round to nearest.
func (p *Parameter) DenormalizeMIDI(norm float64) float32 {
	if p.Hints&IsBoolean != 0 {
		if norm < 0.5 {
			return p.Ranges.Min
		}
		return p.Ranges.Max
	}

	v := p.Ranges.UnnormalizeValue(float32(norm))
	if p.Hints&IsInteger != 0 {
		v = float32(math.RoundToEven(float64(v)))
	}
	return v
}

// IsInput reports whether the parameter is host-writable.
func (p *Parameter) IsInput() bool {
	return p.Direction == Input
}

// IsAutomatable reports whether the parameter accepts MIDI/host automation.
func (p *Parameter) IsAutomatable() bool {
	return p.Hints&IsAutomatable != 0
}
