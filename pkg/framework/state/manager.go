// Package state snapshots and restores host state: input parameter values,
// the active program, and the host-level mix settings. The binary layout is
// versioned; unknown parameter indices in old snapshots are skipped.
package state

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/audiohost/synthhost/pkg/framework/param"
)

const currentVersion uint32 = 1

var magic = [6]byte{'S', 'Y', 'N', 'H', 'S', 'T'}

// HostState carries the host-level values stored alongside the parameters.
type HostState struct {
	Program      int32
	DryWet       float32
	Volume       float32
	BalanceLeft  float32
	BalanceRight float32
}

// Manager serializes the host state against a parameter registry. Host
// thread only; never touched during rendering.
type Manager struct {
	version  uint32
	registry *param.Registry
}

// NewManager creates a state manager over the given registry.
func NewManager(registry *param.Registry) *Manager {
	return &Manager{
		version:  currentVersion,
		registry: registry,
	}
}

// Save writes the snapshot: header, host state, then every input
// parameter as an (index, value) pair.
func (m *Manager) Save(w io.Writer, host HostState) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, host); err != nil {
		return err
	}

	var count int32
	for _, p := range m.registry.All() {
		if p.IsInput() {
			count++
		}
	}
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}
	for _, p := range m.registry.All() {
		if !p.IsInput() {
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, p.Index); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.Value()); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a snapshot, applies the stored parameter values to the
// registry, and returns the host state. Parameters the registry no longer
// has are skipped for forward compatibility.
func (m *Manager) Load(r io.Reader) (HostState, error) {
	var host HostState

	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return host, err
	}
	if header != magic {
		return host, fmt.Errorf("state: invalid snapshot header")
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return host, err
	}
	if version > m.version {
		return host, fmt.Errorf("state: snapshot version %d is newer than supported %d", version, m.version)
	}

	if err := binary.Read(r, binary.LittleEndian, &host); err != nil {
		return host, err
	}

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return host, err
	}
	for i := int32(0); i < count; i++ {
		var index int32
		var value float32
		if err := binary.Read(r, binary.LittleEndian, &index); err != nil {
			return host, err
		}
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return host, err
		}
		if p := m.registry.Get(index); p != nil && p.IsInput() {
			p.SetValue(value)
		}
	}
	return host, nil
}
