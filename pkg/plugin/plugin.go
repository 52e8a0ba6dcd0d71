// Package plugin implements the plugin adapter around a synthesis engine:
// the real-time event-merge-and-render loop, post-processing, and control
// feedback. Process runs on a single audio thread; everything it touches is
// pre-allocated at construction or Init time.
package plugin

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/audiohost/synthhost/pkg/framework/notify"
	"github.com/audiohost/synthhost/pkg/framework/param"
	"github.com/audiohost/synthhost/pkg/framework/preset"
	"github.com/audiohost/synthhost/pkg/framework/state"
	"github.com/audiohost/synthhost/pkg/midi"
	"github.com/audiohost/synthhost/pkg/synth"
)

// Host-level pseudo-parameter indices used in deferred notifications.
const (
	ParamActive       int32 = -2
	ParamDryWet       int32 = -3
	ParamVolume       int32 = -4
	ParamBalanceLeft  int32 = -5
	ParamBalanceRight int32 = -6
)

// Caps describe which host-level transforms the plugin supports.
type Caps uint32

const (
	CanDryWet Caps = 1 << iota
	CanVolume
	CanBalance
)

const (
	// drumChannel is the channel reserved for percussion by MIDI
	// convention; bank-select events never rebind it.
	drumChannel = 9

	// drumBank is the percussion bank that channel 9 defaults to.
	drumBank = 128

	numMidiChannels = 16

	// maxMidiEvents bounds raw MIDI dispatch per block.
	maxMidiEvents = 512

	defaultMaxBlockSize    = 8192
	defaultNoteQueueSize   = 128
	defaultNotifyQueueSize = 512
)

// Options configure a SynthPlugin. The zero value picks sensible defaults
// with all capabilities enabled.
type Options struct {
	// MaxBlockSize is the largest block Process will ever be handed.
	MaxBlockSize int

	// ControlChannel is the channel receiving host-level parameter CCs
	// and program switches.
	ControlChannel uint8

	// Capabilities defaults to CanDryWet|CanVolume|CanBalance when zero.
	Capabilities Caps

	NoteQueueSize   int
	NotifyQueueSize int

	// VoiceCountCC, when positive, binds the voice-count output parameter
	// to an outbound controller on VoiceCountChannel.
	VoiceCountCC      int16
	VoiceCountChannel uint8
}

// SynthPlugin hosts a synthesis engine. Construction fails fast on a nil
// engine; Process never raises errors mid-block.
type SynthPlugin struct {
	synth  synth.Synthesizer
	target synth.ParameterTarget // nil when the engine takes no parameters

	params   *param.Registry
	presets  *preset.Table
	notes    *midi.ExternalNoteQueue
	deferred *notify.Queue
	state    *state.Manager

	caps          Caps
	ctrlInChannel uint8
	maxFrames     uint32

	// active is toggled by the host thread; activeBefore belongs to the
	// audio thread and drives the reactivation reset.
	active       atomic.Bool
	activeBefore bool

	// Host-level post-processing state. Written by the audio thread via
	// control events, or by the host between blocks.
	dryWet       float32
	volume       float32
	balanceLeft  float32
	balanceRight float32

	// bankMemory holds the pending bank per channel. Persists across
	// blocks; reset only by Init.
	bankMemory [numMidiChannels]uint32

	voiceCountIndex int32
	voiceCountOpts  voiceCountBinding

	noteScratch    []midi.ExternalNote
	balanceScratch []float32

	lastError string
	ready     bool
}

// New creates a plugin around a synthesis engine. The engine must be
// non-nil: a missing handle is a precondition violation caught here, never
// at render time.
func New(s synth.Synthesizer, opts Options) (*SynthPlugin, error) {
	if s == nil {
		return nil, errors.New("plugin: nil synthesis engine")
	}
	if opts.MaxBlockSize <= 0 {
		opts.MaxBlockSize = defaultMaxBlockSize
	}
	if opts.NoteQueueSize <= 0 {
		opts.NoteQueueSize = defaultNoteQueueSize
	}
	if opts.NotifyQueueSize <= 0 {
		opts.NotifyQueueSize = defaultNotifyQueueSize
	}
	if opts.Capabilities == 0 {
		opts.Capabilities = CanDryWet | CanVolume | CanBalance
	}
	if opts.ControlChannel >= numMidiChannels {
		return nil, fmt.Errorf("plugin: control channel %d out of range", opts.ControlChannel)
	}

	p := &SynthPlugin{
		synth:           s,
		params:          param.NewRegistry(),
		presets:         preset.NewTable(),
		notes:           midi.NewExternalNoteQueue(opts.NoteQueueSize),
		deferred:        notify.NewQueue(opts.NotifyQueueSize),
		caps:            opts.Capabilities,
		ctrlInChannel:   opts.ControlChannel,
		maxFrames:       uint32(opts.MaxBlockSize),
		dryWet:          1.0,
		volume:          1.0,
		balanceLeft:     -1.0,
		balanceRight:    1.0,
		voiceCountIndex: -1,
		noteScratch:     make([]midi.ExternalNote, opts.NoteQueueSize),
		balanceScratch:  make([]float32, opts.MaxBlockSize),
	}
	p.state = state.NewManager(p.params)
	if t, ok := s.(synth.ParameterTarget); ok {
		p.target = t
	}
	p.voiceCountOpts = voiceCountBinding{cc: opts.VoiceCountCC, channel: opts.VoiceCountChannel}
	return p, nil
}

type voiceCountBinding struct {
	cc      int16
	channel uint8
}

// Init builds the parameter table and loads the program list from src. When
// src is nil the engine itself is used if it enumerates programs. On
// failure the last error is retrievable via LastError and no partial state
// stays active.
func (p *SynthPlugin) Init(src preset.Source) error {
	p.ready = false

	if src == nil {
		if s, ok := p.synth.(preset.Source); ok {
			src = s
		}
	}
	if src == nil {
		return p.fail("no preset source available")
	}
	if err := p.presets.Reload(src); err != nil {
		return p.fail(fmt.Sprintf("failed to load programs: %v", err))
	}

	p.buildParameters()
	p.resetBankMemory()

	// Default program on the control channel, percussion default on the
	// drum channel when the source provides one.
	if p.presets.Count() > 0 {
		p.setMidiProgram(0)
	}
	if _, ok := p.presets.Lookup(drumBank, 0); ok {
		p.synth.ProgramSelect(drumChannel, drumBank, 0)
	}

	p.ready = true
	return nil
}

func (p *SynthPlugin) buildParameters() {
	p.params.Reset()

	if provider, ok := p.synth.(synth.ParameterProvider); ok {
		p.params.Add(provider.Parameters()...)
	}

	voices := param.New("Voices").
		Range(0, 255).
		Default(0).
		Integer().
		Output().
		Build()
	if p.voiceCountOpts.cc > 0 {
		voices.MidiChannel = p.voiceCountOpts.channel
		voices.MidiCC = p.voiceCountOpts.cc
	}
	p.params.Add(voices)
	p.voiceCountIndex = voices.Index
}

func (p *SynthPlugin) resetBankMemory() {
	for ch := range p.bankMemory {
		p.bankMemory[ch] = 0
	}
	p.bankMemory[drumChannel] = drumBank
}

func (p *SynthPlugin) fail(msg string) error {
	p.lastError = msg
	return errors.New("plugin: " + msg)
}

// LastError returns the most recent configuration error message.
func (p *SynthPlugin) LastError() string {
	return p.lastError
}

// Ready reports whether Init completed successfully.
func (p *SynthPlugin) Ready() bool {
	return p.ready
}

// SetActive enables or disables processing. Disabling zero-fills subsequent
// blocks; re-enabling resets all channels before new events are accepted.
func (p *SynthPlugin) SetActive(active bool) {
	p.active.Store(active)
}

// Active reports whether the plugin is processing.
func (p *SynthPlugin) Active() bool {
	return p.active.Load()
}

// InjectNote enqueues an external note for the next drained block. Velocity
// zero encodes note-off. Safe to call from any non-realtime thread. Returns
// false when the queue is full.
func (p *SynthPlugin) InjectNote(channel, note, velocity uint8) bool {
	return p.notes.Append(midi.ExternalNote{Channel: channel, Note: note, Velocity: velocity})
}

// NoteQueue exposes the external note queue for producers that batch
// injections under one lock acquisition.
func (p *SynthPlugin) NoteQueue() *midi.ExternalNoteQueue {
	return p.notes
}

// Notifications returns the deferred notification queue. Drained by a
// non-realtime thread after each block.
func (p *SynthPlugin) Notifications() *notify.Queue {
	return p.deferred
}

// Parameters returns the parameter registry.
func (p *SynthPlugin) Parameters() *param.Registry {
	return p.params
}

// Presets returns the program table.
func (p *SynthPlugin) Presets() *preset.Table {
	return p.presets
}

// ControlChannel returns the designated control-input channel.
func (p *SynthPlugin) ControlChannel() uint8 {
	return p.ctrlInChannel
}

// Volume returns the output gain.
func (p *SynthPlugin) Volume() float32 {
	return p.volume
}

// SetVolume sets the output gain. Host thread use between blocks only; use
// the event path for changes during playback.
func (p *SynthPlugin) SetVolume(v float32) {
	if v < 0 {
		v = 0
	}
	if v > 1.27 {
		v = 1.27
	}
	p.volume = v
}

// DryWet returns the dry/wet mix.
func (p *SynthPlugin) DryWet() float32 {
	return p.dryWet
}

// SetDryWet sets the dry/wet mix in [0,1].
func (p *SynthPlugin) SetDryWet(v float32) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.dryWet = v
}

// Balance returns the stereo balance pair.
func (p *SynthPlugin) Balance() (left, right float32) {
	return p.balanceLeft, p.balanceRight
}

// SetBalance sets the stereo balance pair, each clamped to [-1,1].
func (p *SynthPlugin) SetBalance(left, right float32) {
	p.balanceLeft = clampBalance(left)
	p.balanceRight = clampBalance(right)
}

func clampBalance(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetParameterValue sets an input parameter from the host thread and
// forwards it to the engine.
func (p *SynthPlugin) SetParameterValue(index int32, value float32) bool {
	prm := p.params.Get(index)
	if prm == nil || !prm.IsInput() {
		return false
	}
	prm.SetValue(value)
	if p.target != nil {
		p.target.SetParameter(index, prm.Value())
	}
	return true
}

// SetMidiProgram switches the active program from the host thread.
func (p *SynthPlugin) SetMidiProgram(index int32) bool {
	return p.setMidiProgram(index)
}

// setMidiProgram selects the program on the control channel and records its
// bank as the channel's pending bank.
func (p *SynthPlugin) setMidiProgram(index int32) bool {
	pr, ok := p.presets.Get(index)
	if !ok {
		return false
	}
	p.presets.SetCurrent(index)
	p.synth.ProgramSelect(p.ctrlInChannel, pr.Bank, pr.Program)
	if p.ctrlInChannel != drumChannel {
		p.bankMemory[p.ctrlInChannel] = pr.Bank
	}
	return true
}
