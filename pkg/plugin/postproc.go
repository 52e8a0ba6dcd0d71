package plugin

import (
	"github.com/audiohost/synthhost/pkg/dsp/gain"
	"github.com/audiohost/synthhost/pkg/framework/process"
)

// processPostOps applies stereo balance and output gain in place. Each stage
// is skipped exactly at its identity value so an untouched plugin is
// bit-transparent.
func (p *SynthPlugin) processPostOps(ctx *process.Context, frames uint32) {
	outL := ctx.Out[0][:frames]
	outR := ctx.Out[1][:frames]

	doBalance := p.caps&CanBalance != 0 && (p.balanceLeft != -1.0 || p.balanceRight != 1.0)
	doVolume := p.caps&CanVolume != 0 && p.volume != 1.0

	if doBalance {
		oldLeft := p.balanceScratch[:frames]
		copy(oldLeft, outL)

		rangeL := (p.balanceLeft + 1.0) / 2.0
		rangeR := (p.balanceRight + 1.0) / 2.0

		for i := uint32(0); i < frames; i++ {
			outL[i] = oldLeft[i]*(1.0-rangeL) + outR[i]*(1.0-rangeR)
			outR[i] = outR[i]*rangeR + oldLeft[i]*rangeL
		}
	}

	if doVolume {
		gain.ApplyBuffer(outL, p.volume)
		gain.ApplyBuffer(outR, p.volume)
	}
}
