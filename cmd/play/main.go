// Command play runs the plugin host live: audio goes out through the
// system mixer and notes come in from a MIDI input port or a built-in
// demo loop.
package main

import (
	"encoding/binary"
	"flag"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/audiohost/synthhost/pkg/framework/debug"
	"github.com/audiohost/synthhost/pkg/framework/notify"
	"github.com/audiohost/synthhost/pkg/framework/process"
	"github.com/audiohost/synthhost/pkg/plugin"
	"github.com/audiohost/synthhost/pkg/synth/polysynth"
)

func main() {
	var (
		sampleRate = flag.Int("rate", 48000, "sample rate in Hz")
		blockSize  = flag.Int("block", 512, "render block size in frames")
		midiPort   = flag.Int("midi", -1, "MIDI input port index, -1 for the demo loop")
		listPorts  = flag.Bool("list", false, "list MIDI input ports and exit")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()
	defer gomidi.CloseDriver()

	if *verbose {
		debug.SetLevel(debug.LogLevelDebug)
	}

	if *listPorts {
		for i, in := range gomidi.GetInPorts() {
			debug.Info("%d: %s", i, in.String())
		}
		return
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

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		debug.Error("open audio device: %v", err)
		os.Exit(1)
	}
	<-ready

	player := otoCtx.NewPlayer(&hostStream{
		host:  host,
		rate:  float64(*sampleRate),
		left:  make([]float32, *blockSize),
		right: make([]float32, *blockSize),
	})
	player.Play()
	defer player.Close()

	stopInput := startInput(host, *midiPort)
	defer stopInput()

	go drainNotifications(host)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	debug.Info("shutting down")
}

// hostStream adapts the plugin to the pull-based audio backend: every Read
// renders as many blocks as needed and hands them over as interleaved
// little-endian float32 frames.
type hostStream struct {
	host    *plugin.SynthPlugin
	rate    float64
	left    []float32
	right   []float32
	pending []byte
}

func (s *hostStream) Read(p []byte) (int, error) {
	for len(s.pending) < len(p) {
		ctx := &process.Context{
			Out:        [][]float32{s.left, s.right},
			SampleRate: s.rate,
		}
		s.host.Process(ctx)

		var frame [8]byte
		for i := range s.left {
			binary.LittleEndian.PutUint32(frame[0:], math.Float32bits(s.left[i]))
			binary.LittleEndian.PutUint32(frame[4:], math.Float32bits(s.right[i]))
			s.pending = append(s.pending, frame[:]...)
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// startInput connects a MIDI input port to the plugin's note queue, or
// starts the demo loop when no port is selected. Returns a stop function.
func startInput(host *plugin.SynthPlugin, port int) func() {
	ins := gomidi.GetInPorts()
	if port < 0 || port >= len(ins) {
		if port >= 0 {
			debug.Warn("MIDI port %d not found, falling back to demo loop", port)
		}
		done := make(chan struct{})
		go demoLoop(host, done)
		return func() { close(done) }
	}

	in := ins[port]
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			host.InjectNote(ch, key, vel)
		case msg.GetNoteEnd(&ch, &key):
			host.InjectNote(ch, key, 0)
		}
	})
	if err != nil {
		debug.Error("listen on %s: %v", in.String(), err)
		os.Exit(1)
	}
	debug.Info("listening on %s", in.String())
	return stop
}

// demoLoop feeds a chord progression through the external note queue.
func demoLoop(host *plugin.SynthPlugin, done <-chan struct{}) {
	chords := [][]uint8{
		{60, 64, 67},
		{57, 60, 64},
		{65, 69, 72},
		{55, 59, 62},
	}
	for i := 0; ; i++ {
		chord := chords[i%len(chords)]
		for _, n := range chord {
			host.InjectNote(0, n, 90)
		}
		select {
		case <-time.After(900 * time.Millisecond):
		case <-done:
			return
		}
		for _, n := range chord {
			host.InjectNote(0, n, 0)
		}
		select {
		case <-time.After(100 * time.Millisecond):
		case <-done:
			return
		}
	}
}

// drainNotifications logs deferred host notifications off the audio thread.
func drainNotifications(host *plugin.SynthPlugin) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		host.Notifications().Drain(func(n notify.Notification) {
			switch n.Kind {
			case notify.NoteOn:
				debug.Debug("note on  ch=%d note=%d vel=%.0f", n.Channel, n.Note, n.Value)
			case notify.NoteOff:
				debug.Debug("note off ch=%d note=%d", n.Channel, n.Note)
			case notify.ProgramChanged:
				debug.Info("program changed to %d", n.Index)
			case notify.ParameterChanged:
				debug.Debug("parameter %d = %.3f", n.Index, n.Value)
			}
		})
	}
}
