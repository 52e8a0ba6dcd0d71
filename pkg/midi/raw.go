package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// RawKind classifies a decoded raw MIDI message.
type RawKind uint8

const (
	RawNone RawKind = iota
	RawNoteOn
	RawNoteOff
	RawChannelPressure
	RawPitchBend
)

// RawMessage is a decoded raw MIDI message. A note-on with velocity zero is
// already normalized to RawNoteOff by DecodeRaw.
type RawMessage struct {
	Kind     RawKind
	Channel  uint8
	Note     uint8
	Velocity uint8
	Pressure uint8
	Bend     uint16 // 14-bit absolute, 0x2000 center
}

// DecodeRaw decodes the raw bytes of an event. Unrecognized or unsupported
// status bytes return false; callers ignore those rather than treating them
// as errors.
func DecodeRaw(data []byte) (RawMessage, bool) {
	msg := gomidi.Message(data)

	var m RawMessage
	var relative int16

	switch {
	case msg.GetNoteStart(&m.Channel, &m.Note, &m.Velocity):
		m.Kind = RawNoteOn
		return m, true
	case msg.GetNoteEnd(&m.Channel, &m.Note):
		m.Kind = RawNoteOff
		return m, true
	case msg.GetAfterTouch(&m.Channel, &m.Pressure):
		m.Kind = RawChannelPressure
		return m, true
	case msg.GetPitchBend(&m.Channel, &relative, &m.Bend):
		m.Kind = RawPitchBend
		return m, true
	}
	return RawMessage{}, false
}
