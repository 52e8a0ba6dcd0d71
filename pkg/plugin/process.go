package plugin

import (
	"github.com/audiohost/synthhost/pkg/framework/notify"
	"github.com/audiohost/synthhost/pkg/framework/process"
	"github.com/audiohost/synthhost/pkg/midi"
)

// Process renders one block. It always runs to completion: runtime data
// errors (unmapped channels, unknown status bytes, out-of-window
// timestamps) are absorbed silently, and nothing on this path allocates,
// locks unconditionally, or blocks.
func (p *SynthPlugin) Process(ctx *process.Context) {
	frames := ctx.NumSamples()
	if frames == 0 {
		return
	}
	if frames > p.maxFrames {
		// Blocks larger than configured would outgrow the scratch buffers.
		ctx.Clear()
		return
	}

	if !p.active.Load() {
		ctx.Clear()
		p.activeBefore = false
		return
	}

	if ctx.NumOutChannels() < 2 {
		ctx.Clear()
		p.activeBefore = true
		return
	}
	outL := ctx.Out[0]
	outR := ctx.Out[1]

	// Coming back from inactive: reset every channel before accepting any
	// event, so no note survives an enable/disable cycle.
	if !p.activeBefore {
		for ch := uint8(0); ch < numMidiChannels; ch++ {
			p.synth.AllNotesOff(ch)
			p.synth.AllSoundOff(ch)
		}
	}

	// The engine renders additively into zeroed buffers.
	ctx.Clear()

	midiEventCount := 0

	// External notes first: they are already-overdue real-time input and
	// apply at time zero. If the producer holds the lock we skip the drain
	// rather than stall the audio thread.
	if n, ok := p.notes.TryDrain(p.noteScratch); ok {
		for _, note := range p.noteScratch[:n] {
			if note.Velocity > 0 {
				p.synth.NoteOn(note.Channel, note.Note, note.Velocity)
			} else {
				p.synth.NoteOff(note.Channel, note.Note)
			}
			midiEventCount++
		}
	}

	// In-block events, rendering each segment up to the event time before
	// applying it. Segments partition [0, frames) left to right.
	var timeOffset uint32
	allOffSent := false

	if ctx.Events != nil {
		nEvents := ctx.Events.EventCount()
		for i := uint32(0); i < nEvents; i++ {
			ev := ctx.Events.Event(i)

			// Unsigned math clips events before FramesOffset too.
			t := ev.SampleOffset() - ctx.FramesOffset
			if t >= frames {
				continue
			}
			if t < timeOffset {
				continue
			}
			if t > timeOffset {
				p.synth.Render(outL[timeOffset:t], outR[timeOffset:t])
				timeOffset = t
			}

			switch e := ev.(type) {
			case midi.ControlChangeEvent:
				p.handleControlChange(e)

			case midi.BankSelectEvent:
				if e.Channel() < numMidiChannels && e.Channel() != drumChannel {
					p.bankMemory[e.Channel()] = e.Bank
				}

			case midi.ProgramChangeEvent:
				p.handleProgramChange(e)

			case midi.AllSoundOffEvent:
				if e.Channel() == p.ctrlInChannel {
					if !allOffSent {
						p.sendAllNotesOff()
						allOffSent = true
					}
					// Bounce the active flag so the host resyncs UI state.
					p.deferred.Push(notify.Notification{Kind: notify.ParameterChanged, Index: ParamActive, Value: 0})
					p.deferred.Push(notify.Notification{Kind: notify.ParameterChanged, Index: ParamActive, Value: 1})
				}

			case midi.AllNotesOffEvent:
				if e.Channel() == p.ctrlInChannel && !allOffSent {
					p.sendAllNotesOff()
					allOffSent = true
				}

			case midi.RawEvent:
				if midiEventCount >= maxMidiEvents {
					continue
				}
				if p.dispatchRaw(e) {
					midiEventCount++
				}
			}
		}
	}

	if frames > timeOffset {
		p.synth.Render(outL[timeOffset:frames], outR[timeOffset:frames])
	}

	p.processPostOps(ctx, frames)
	p.emitControlOutput(ctx)

	p.activeBefore = true
}

// handleControlChange applies a control-change event: host-level mappings
// on the control channel first, generic parameter matching otherwise.
func (p *SynthPlugin) handleControlChange(e midi.ControlChangeEvent) {
	if e.Channel() == p.ctrlInChannel {
		switch {
		case e.Controller == midi.CCExpression && p.caps&CanDryWet != 0:
			v := clampNorm(e.Value)
			p.dryWet = float32(v)
			p.deferred.Push(notify.Notification{Kind: notify.ParameterChanged, Index: ParamDryWet, Value: v})
			return

		case e.Controller == midi.CCVolume && p.caps&CanVolume != 0:
			v := e.Value * 127.0 / 100.0
			if v > 1.27 {
				v = 1.27
			}
			p.volume = float32(v)
			p.deferred.Push(notify.Notification{Kind: notify.ParameterChanged, Index: ParamVolume, Value: v})
			return

		case e.Controller == midi.CCPan && p.caps&CanBalance != 0:
			left, right := panToBalance(e.Value)
			p.balanceLeft = left
			p.balanceRight = right
			p.deferred.Push(notify.Notification{Kind: notify.ParameterChanged, Index: ParamBalanceLeft, Value: float64(left)})
			p.deferred.Push(notify.Notification{Kind: notify.ParameterChanged, Index: ParamBalanceRight, Value: float64(right)})
			return
		}
	}

	matched := false
	count := p.params.Count()
	for k := int32(0); k < count; k++ {
		prm := p.params.Get(k)
		if prm.MidiChannel != e.Channel() || prm.MidiCC != int16(e.Controller) {
			continue
		}
		if !prm.IsInput() || !prm.IsAutomatable() {
			continue
		}
		v := prm.DenormalizeMIDI(e.Value)
		p.setParameterRT(k, v)
		matched = true
	}

	// Controllers nobody claimed go to the engine as-is, so things like the
	// sustain pedal work without a parameter binding.
	if !matched {
		p.synth.ControlChange(e.Channel(), e.Controller, uint8(e.Value*127.0+0.5))
	}
}

// handleProgramChange resolves (pending bank, program) against the preset
// table. No match means the change is dropped without a notification.
func (p *SynthPlugin) handleProgramChange(e midi.ProgramChangeEvent) {
	ch := e.Channel()
	if ch >= numMidiChannels {
		return
	}
	bank := p.bankMemory[ch]
	index, ok := p.presets.Lookup(bank, e.Program)
	if !ok {
		return
	}
	if ch == p.ctrlInChannel {
		p.setMidiProgram(index)
		p.deferred.Push(notify.Notification{Kind: notify.ProgramChanged, Index: index})
	} else {
		// Multi-timbral passthrough: silent change on that channel only.
		p.synth.ProgramSelect(ch, bank, e.Program)
	}
}

// dispatchRaw decodes and applies a raw MIDI event. Reports whether the
// event counted against the per-block cap.
func (p *SynthPlugin) dispatchRaw(e midi.RawEvent) bool {
	msg, ok := midi.DecodeRaw(e.Data[:e.Size])
	if !ok {
		return false
	}

	switch msg.Kind {
	case midi.RawNoteOn:
		p.synth.NoteOn(msg.Channel, msg.Note, msg.Velocity)
		p.deferred.Push(notify.Notification{Kind: notify.NoteOn, Channel: msg.Channel, Note: msg.Note, Value: float64(msg.Velocity)})
	case midi.RawNoteOff:
		p.synth.NoteOff(msg.Channel, msg.Note)
		p.deferred.Push(notify.Notification{Kind: notify.NoteOff, Channel: msg.Channel, Note: msg.Note})
	case midi.RawChannelPressure:
		p.synth.ChannelPressure(msg.Channel, msg.Pressure)
	case midi.RawPitchBend:
		p.synth.PitchBend(msg.Channel, msg.Bend)
	default:
		return false
	}
	return true
}

func (p *SynthPlugin) setParameterRT(index int32, value float32) {
	prm := p.params.Get(index)
	prm.SetValue(value)
	if p.target != nil {
		p.target.SetParameter(index, prm.Value())
	}
	p.deferred.Push(notify.Notification{Kind: notify.ParameterChanged, Index: index, Value: float64(prm.Value())})
}

func (p *SynthPlugin) sendAllNotesOff() {
	for ch := uint8(0); ch < numMidiChannels; ch++ {
		p.synth.AllNotesOff(ch)
	}
}

// emitControlOutput samples the live voice count once per block, clamps it
// into the output parameter's range, and emits one control event at the
// block's start offset when the parameter is bound.
func (p *SynthPlugin) emitControlOutput(ctx *process.Context) {
	if p.voiceCountIndex < 0 {
		return
	}
	prm := p.params.Get(p.voiceCountIndex)
	if prm == nil {
		return
	}

	v := prm.Ranges.FixValue(float32(p.synth.ActiveVoiceCount()))
	prm.SetValue(v)

	if prm.MidiCC > 0 && ctx.ControlOut != nil {
		norm := float64(prm.Ranges.NormalizeValue(v))
		ctx.ControlOut.WriteControlEvent(ctx.FramesOffset, prm.MidiChannel, uint8(prm.MidiCC), norm)
	}
}

// panToBalance maps a normalized pan CC value to the balance pair: hard
// left keeps [-1,-1+x], center keeps [-1,1], hard right keeps [x,1].
func panToBalance(norm float64) (left, right float32) {
	v := norm/0.5 - 1.0
	switch {
	case v < 0:
		return -1.0, float32(v*2 + 1.0)
	case v > 0:
		return float32(v*2 - 1.0), 1.0
	default:
		return -1.0, 1.0
	}
}

func clampNorm(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
