package state

import (
	"bytes"
	"testing"

	"github.com/audiohost/synthhost/pkg/framework/param"
)

func newRegistry() *param.Registry {
	r := param.NewRegistry()
	r.Add(
		param.New("Attack").Range(0.001, 2).Default(0.005).Build(),
		param.New("Release").Range(0.001, 5).Default(0.2).Build(),
		param.New("Voices").Range(0, 255).Integer().Output().Build(),
	)
	return r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := newRegistry()
	src.Get(0).SetValue(0.5)
	src.Get(1).SetValue(1.25)

	var buf bytes.Buffer
	host := HostState{Program: 2, DryWet: 0.8, Volume: 1.1, BalanceLeft: -0.5, BalanceRight: 0.5}
	if err := NewManager(src).Save(&buf, host); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := newRegistry()
	got, err := NewManager(dst).Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != host {
		t.Errorf("host state = %+v, want %+v", got, host)
	}
	if v := dst.Get(0).Value(); v != 0.5 {
		t.Errorf("attack = %f, want 0.5", v)
	}
	if v := dst.Get(1).Value(); v != 1.25 {
		t.Errorf("release = %f, want 1.25", v)
	}
}

func TestLoadRejectsBadHeader(t *testing.T) {
	r := newRegistry()
	if _, err := NewManager(r).Load(bytes.NewReader([]byte("NOTAST\x01\x00\x00\x00"))); err == nil {
		t.Fatal("expected error for bad header")
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	src := newRegistry()
	var buf bytes.Buffer
	m := NewManager(src)
	m.version = 99
	if err := m.Save(&buf, HostState{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := NewManager(newRegistry()).Load(&buf); err == nil {
		t.Fatal("expected error for newer snapshot version")
	}
}

func TestLoadSkipsUnknownParameters(t *testing.T) {
	big := param.NewRegistry()
	big.Add(
		param.New("A").Range(0, 1).Build(),
		param.New("B").Range(0, 1).Build(),
	)
	big.Get(0).SetValue(0.25)
	big.Get(1).SetValue(0.75)

	var buf bytes.Buffer
	if err := NewManager(big).Save(&buf, HostState{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	small := param.NewRegistry()
	small.Add(param.New("A").Range(0, 1).Build())
	if _, err := NewManager(small).Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v := small.Get(0).Value(); v != 0.25 {
		t.Errorf("A = %f, want 0.25", v)
	}
}
