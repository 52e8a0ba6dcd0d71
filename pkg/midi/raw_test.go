package midi

import "testing"

func TestDecodeRaw(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want RawMessage
		ok   bool
	}{
		{
			name: "note on",
			data: []byte{0x91, 60, 100},
			want: RawMessage{Kind: RawNoteOn, Channel: 1, Note: 60, Velocity: 100},
			ok:   true,
		},
		{
			name: "note on velocity zero is note off",
			data: []byte{0x90, 60, 0},
			want: RawMessage{Kind: RawNoteOff, Channel: 0, Note: 60},
			ok:   true,
		},
		{
			name: "note off",
			data: []byte{0x83, 45, 64},
			want: RawMessage{Kind: RawNoteOff, Channel: 3, Note: 45},
			ok:   true,
		},
		{
			name: "channel pressure",
			data: []byte{0xD2, 90},
			want: RawMessage{Kind: RawChannelPressure, Channel: 2, Pressure: 90},
			ok:   true,
		},
		{
			name: "pitch bend center",
			data: []byte{0xE5, 0x00, 0x40},
			want: RawMessage{Kind: RawPitchBend, Channel: 5, Bend: 0x2000},
			ok:   true,
		},
		{
			name: "control change unsupported",
			data: []byte{0xB0, 7, 100},
			ok:   false,
		},
		{
			name: "garbage",
			data: []byte{0x42},
			ok:   false,
		},
		{
			name: "empty",
			data: nil,
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DecodeRaw(tc.data)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if got.Kind != tc.want.Kind || got.Channel != tc.want.Channel ||
				got.Note != tc.want.Note || got.Velocity != tc.want.Velocity ||
				got.Pressure != tc.want.Pressure || got.Bend != tc.want.Bend {
				t.Errorf("DecodeRaw = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecodeRawRoundTripsConstructors(t *testing.T) {
	on := NewRawNoteOn(0, 4, 72, 110)
	msg, ok := DecodeRaw(on.Data[:on.Size])
	if !ok || msg.Kind != RawNoteOn || msg.Channel != 4 || msg.Note != 72 || msg.Velocity != 110 {
		t.Errorf("note on = %+v, ok=%v", msg, ok)
	}

	off := NewRawNoteOff(0, 4, 72)
	msg, ok = DecodeRaw(off.Data[:off.Size])
	if !ok || msg.Kind != RawNoteOff || msg.Note != 72 {
		t.Errorf("note off = %+v, ok=%v", msg, ok)
	}

	bend := NewRawPitchBend(0, 1, 0x2000)
	msg, ok = DecodeRaw(bend.Data[:bend.Size])
	if !ok || msg.Kind != RawPitchBend || msg.Bend != 0x2000 {
		t.Errorf("pitch bend = %+v, ok=%v", msg, ok)
	}

	press := NewRawChannelPressure(0, 1, 33)
	msg, ok = DecodeRaw(press.Data[:press.Size])
	if !ok || msg.Kind != RawChannelPressure || msg.Pressure != 33 {
		t.Errorf("pressure = %+v, ok=%v", msg, ok)
	}
}
