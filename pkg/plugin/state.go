package plugin

import (
	"io"

	"github.com/audiohost/synthhost/pkg/framework/state"
)

// SaveState writes a snapshot of the input parameters, the active program,
// and the host-level mix settings. Host thread only.
func (p *SynthPlugin) SaveState(w io.Writer) error {
	return p.state.Save(w, state.HostState{
		Program:      p.presets.Current(),
		DryWet:       p.dryWet,
		Volume:       p.volume,
		BalanceLeft:  p.balanceLeft,
		BalanceRight: p.balanceRight,
	})
}

// LoadState restores a snapshot written by SaveState, forwarding the
// restored parameter values to the engine. Host thread only, between blocks.
func (p *SynthPlugin) LoadState(r io.Reader) error {
	host, err := p.state.Load(r)
	if err != nil {
		return err
	}

	p.SetDryWet(host.DryWet)
	p.SetVolume(host.Volume)
	p.SetBalance(host.BalanceLeft, host.BalanceRight)
	if host.Program >= 0 {
		p.setMidiProgram(host.Program)
	}

	if p.target != nil {
		for _, prm := range p.params.All() {
			if prm.IsInput() {
				p.target.SetParameter(prm.Index, prm.Value())
			}
		}
	}
	return nil
}
