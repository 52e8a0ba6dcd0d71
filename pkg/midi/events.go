// Package midi provides the event types consumed by the render core and
// the external note queue shared with non-realtime producers.
package midi

import (
	"fmt"
	"math"
)

type EventType uint8

const (
	EventTypeControlChange EventType = iota
	EventTypeBankSelect
	EventTypeProgramChange
	EventTypeAllSoundOff
	EventTypeAllNotesOff
	EventTypeRaw
)

// Event is a time-stamped in-block event. The host event port guarantees
// events are delivered in non-decreasing SampleOffset order.
type Event interface {
	Type() EventType
	Channel() uint8
	SampleOffset() uint32
	String() string
}

type BaseEvent struct {
	EventChannel uint8
	Offset       uint32
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

func (e BaseEvent) SampleOffset() uint32 {
	return e.Offset
}

// ControlChangeEvent carries a controller value normalized to [0,1].
type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      float64
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%.3f, offset:%d}",
		e.EventChannel, e.Controller, e.Value, e.Offset)
}

// BankSelectEvent sets the pending bank for a channel. It only takes effect
// when a ProgramChangeEvent follows on the same channel.
type BankSelectEvent struct {
	BaseEvent
	Bank uint32
}

func (e BankSelectEvent) Type() EventType {
	return EventTypeBankSelect
}

func (e BankSelectEvent) String() string {
	return fmt.Sprintf("BankSelect{ch:%d, bank:%d, offset:%d}",
		e.EventChannel, e.Bank, e.Offset)
}

type ProgramChangeEvent struct {
	BaseEvent
	Program uint32
}

func (e ProgramChangeEvent) Type() EventType {
	return EventTypeProgramChange
}

func (e ProgramChangeEvent) String() string {
	return fmt.Sprintf("ProgramChange{ch:%d, prog:%d, offset:%d}",
		e.EventChannel, e.Program, e.Offset)
}

type AllSoundOffEvent struct {
	BaseEvent
}

func (e AllSoundOffEvent) Type() EventType {
	return EventTypeAllSoundOff
}

func (e AllSoundOffEvent) String() string {
	return fmt.Sprintf("AllSoundOff{ch:%d, offset:%d}", e.EventChannel, e.Offset)
}

type AllNotesOffEvent struct {
	BaseEvent
}

func (e AllNotesOffEvent) Type() EventType {
	return EventTypeAllNotesOff
}

func (e AllNotesOffEvent) String() string {
	return fmt.Sprintf("AllNotesOff{ch:%d, offset:%d}", e.EventChannel, e.Offset)
}

// RawEvent carries up to three raw MIDI bytes (status + data).
type RawEvent struct {
	BaseEvent
	Data [3]byte
	Size uint8
}

func (e RawEvent) Type() EventType {
	return EventTypeRaw
}

func (e RawEvent) String() string {
	return fmt.Sprintf("Raw{ch:%d, data:% X, offset:%d}",
		e.EventChannel, e.Data[:e.Size], e.Offset)
}

// Common controller numbers.
const (
	CCBankSelect  uint8 = 0
	CCModWheel    uint8 = 1
	CCVolume      uint8 = 7
	CCPan         uint8 = 10
	CCExpression  uint8 = 11
	CCSustain     uint8 = 64
	CCAllSoundOff uint8 = 120
	CCAllNotesOff uint8 = 123
)

// Raw status nibbles.
const (
	statusNoteOff         = 0x80
	statusNoteOn          = 0x90
	statusChannelPressure = 0xD0
	statusPitchBend       = 0xE0
)

// NewRawNoteOn builds a raw note-on event.
func NewRawNoteOn(offset uint32, channel, note, velocity uint8) RawEvent {
	return RawEvent{
		BaseEvent: BaseEvent{EventChannel: channel, Offset: offset},
		Data:      [3]byte{statusNoteOn | (channel & 0x0F), note & 0x7F, velocity & 0x7F},
		Size:      3,
	}
}

// NewRawNoteOff builds a raw note-off event.
func NewRawNoteOff(offset uint32, channel, note uint8) RawEvent {
	return RawEvent{
		BaseEvent: BaseEvent{EventChannel: channel, Offset: offset},
		Data:      [3]byte{statusNoteOff | (channel & 0x0F), note & 0x7F, 0},
		Size:      3,
	}
}

// NewRawPitchBend builds a raw pitch-bend event from a 14-bit value
// (0x2000 is center).
func NewRawPitchBend(offset uint32, channel uint8, value uint16) RawEvent {
	return RawEvent{
		BaseEvent: BaseEvent{EventChannel: channel, Offset: offset},
		Data:      [3]byte{statusPitchBend | (channel & 0x0F), uint8(value & 0x7F), uint8((value >> 7) & 0x7F)},
		Size:      3,
	}
}

// NewRawChannelPressure builds a raw channel-pressure event.
func NewRawChannelPressure(offset uint32, channel, pressure uint8) RawEvent {
	return RawEvent{
		BaseEvent: BaseEvent{EventChannel: channel, Offset: offset},
		Data:      [3]byte{statusChannelPressure | (channel & 0x0F), pressure & 0x7F, 0},
		Size:      2,
	}
}

// NoteToFrequency converts a MIDI note number to a frequency in Hz.
func NoteToFrequency(note uint8, tuningA4 float64) float64 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	return tuningA4 * math.Exp2((float64(note)-69.0)/12.0)
}
