package param

// Builder provides a fluent API for creating parameters.
type Builder struct {
	param *Parameter
}

// New creates a parameter builder. Parameters start as enabled, automatable
// inputs over [0,1] with no MIDI binding; the registry assigns the index.
func New(name string) *Builder {
	return &Builder{
		param: &Parameter{
			Index:     -1,
			Name:      name,
			Direction: Input,
			Hints:     IsEnabled | IsAutomatable,
			Ranges:    Ranges{Min: 0, Max: 1},
			MidiCC:    CCUnbound,
		},
	}
}

// Range sets the plain value range.
func (b *Builder) Range(min, max float32) *Builder {
	b.param.Ranges.Min = min
	b.param.Ranges.Max = max
	return b
}

// Default sets the default plain value.
func (b *Builder) Default(v float32) *Builder {
	b.param.Ranges.Def = v
	return b
}

// Steps sets the step sizes.
func (b *Builder) Steps(step, small, large float32) *Builder {
	b.param.Ranges.Step = step
	b.param.Ranges.StepSmall = small
	b.param.Ranges.StepLarge = large
	return b
}

// Unit sets the unit string.
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Output marks the parameter as plugin-reported. Output parameters are not
// automatable.
func (b *Builder) Output() *Builder {
	b.param.Direction = Output
	b.param.Hints &^= IsAutomatable
	return b
}

// Boolean marks the parameter as an on/off toggle.
func (b *Builder) Boolean() *Builder {
	b.param.Hints |= IsBoolean
	b.param.Ranges.Step = b.param.Ranges.Max - b.param.Ranges.Min
	return b
}

// Integer marks the parameter as integer-valued.
func (b *Builder) Integer() *Builder {
	b.param.Hints |= IsInteger
	if b.param.Ranges.Step == 0 {
		b.param.Ranges.Step = 1
	}
	return b
}

// ScalePoints marks the parameter as using enumerated scale points.
func (b *Builder) ScalePoints() *Builder {
	b.param.Hints |= UsesScalePoints
	return b
}

// NotAutomatable clears the automation hint.
func (b *Builder) NotAutomatable() *Builder {
	b.param.Hints &^= IsAutomatable
	return b
}

// Disabled clears the enabled hint.
func (b *Builder) Disabled() *Builder {
	b.param.Hints &^= IsEnabled
	return b
}

// MidiCC binds the parameter to a (channel, controller) pair.
func (b *Builder) MidiCC(channel uint8, cc uint8) *Builder {
	b.param.MidiChannel = channel
	b.param.MidiCC = int16(cc)
	return b
}

// Build returns the configured parameter, initialized to its default value.
func (b *Builder) Build() *Parameter {
	b.param.SetValue(b.param.Ranges.Def)
	return b.param
}
