// Command renderwav renders a built-in demo sequence through the plugin
// host offline and writes the result as a 16-bit stereo WAV file.
package main

import (
	"flag"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/audiohost/synthhost/pkg/framework/debug"
	"github.com/audiohost/synthhost/pkg/framework/notify"
	"github.com/audiohost/synthhost/pkg/framework/process"
	"github.com/audiohost/synthhost/pkg/midi"
	"github.com/audiohost/synthhost/pkg/plugin"
	"github.com/audiohost/synthhost/pkg/synth/polysynth"
)

func main() {
	var (
		outPath    = flag.String("out", "out.wav", "output WAV path")
		sampleRate = flag.Int("rate", 48000, "sample rate in Hz")
		blockSize  = flag.Int("block", 512, "render block size in frames")
		seconds    = flag.Float64("duration", 6.0, "length of the rendering in seconds")
		volume     = flag.Float64("volume", 1.0, "output gain, 0..1.27")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		debug.SetLevel(debug.LogLevelDebug)
	}

	engine := polysynth.New(float64(*sampleRate), *blockSize)
	host, err := plugin.New(engine, plugin.Options{MaxBlockSize: *blockSize})
	if err != nil {
		debug.Error("create plugin: %v", err)
		os.Exit(1)
	}
	if err := host.Init(nil); err != nil {
		debug.Error("init plugin: %v", err)
		os.Exit(1)
	}
	host.SetActive(true)
	host.SetVolume(float32(*volume))

	events := demoSequence(uint32(*sampleRate))
	totalFrames := int(float64(*sampleRate) * *seconds)

	left := make([]float32, *blockSize)
	right := make([]float32, *blockSize)
	data := make([]int, 0, totalFrames*2)

	for pos := 0; pos < totalFrames; pos += *blockSize {
		ctx := &process.Context{
			Out:          [][]float32{left, right},
			SampleRate:   float64(*sampleRate),
			FramesOffset: uint32(pos),
			Events:       events,
			ControlOut:   events,
		}
		host.Process(ctx)

		n := *blockSize
		if pos+n > totalFrames {
			n = totalFrames - pos
		}
		for i := 0; i < n; i++ {
			data = append(data, toPCM16(left[i]), toPCM16(right[i]))
		}
	}

	notified := host.Notifications().Drain(func(notify.Notification) {})
	debug.Debug("collected %d notifications during rendering", notified)

	if err := writeWav(*outPath, *sampleRate, data); err != nil {
		debug.Error("write %s: %v", *outPath, err)
		os.Exit(1)
	}
	debug.Info("wrote %s: %d frames at %d Hz", *outPath, totalFrames, *sampleRate)
}

// demoSequence schedules an arpeggio over the waveform programs, a pan
// sweep, and a noise-kit hit, with absolute sample timestamps.
func demoSequence(rate uint32) *process.EventBuffer {
	b := process.NewEventBuffer()
	beat := rate / 2

	notes := []uint8{60, 64, 67, 72, 67, 64, 60, 55}
	programs := []uint32{0, 1, 2, 3}
	for i, n := range notes {
		at := uint32(i) * beat
		if i < len(programs) {
			b.Add(midi.ProgramChangeEvent{
				BaseEvent: midi.BaseEvent{EventChannel: 0, Offset: at},
				Program:   programs[i],
			})
		}
		b.Add(midi.NewRawNoteOn(at, 0, n, 100))
		b.Add(midi.NewRawNoteOff(at+beat*3/4, 0, n))
	}

	// Pan sweep across the sequence.
	steps := uint32(16)
	span := uint32(len(notes)) * beat
	for i := uint32(0); i <= steps; i++ {
		b.Add(midi.ControlChangeEvent{
			BaseEvent:  midi.BaseEvent{EventChannel: 0, Offset: i * span / steps},
			Controller: midi.CCPan,
			Value:      float64(i) / float64(steps),
		})
	}

	// A noise-kit hit on the drum channel halfway through.
	b.Add(midi.ProgramChangeEvent{BaseEvent: midi.BaseEvent{EventChannel: 9, Offset: span / 2}, Program: 0})
	b.Add(midi.NewRawNoteOn(span/2, 9, 36, 110))
	b.Add(midi.NewRawNoteOff(span/2+beat/4, 9, 36))

	return b
}

func toPCM16(s float32) int {
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	return int(s * 32767)
}

func writeWav(path string, rate int, data []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
