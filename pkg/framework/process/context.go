// Package process provides the per-block processing context and the host
// event ports the render core reads from and writes to.
package process

// Context describes one render call: the output buffers for the block plus
// the event ports. The audio thread fills Out completely on every call; no
// allocation happens during processing.
type Context struct {
	// Out holds one buffer per output channel; all buffers share the same
	// length, which is the block size.
	Out [][]float32

	SampleRate float64

	// FramesOffset is subtracted from incoming event timestamps, which are
	// expressed relative to a larger host cycle.
	FramesOffset uint32

	// Events delivers the block's time-stamped events in ascending order.
	// May be nil when the host has no event port connected.
	Events EventIn

	// ControlOut accepts outbound control events. May be nil.
	ControlOut EventOut
}

// NumSamples returns the block size.
func (c *Context) NumSamples() uint32 {
	if len(c.Out) == 0 {
		return 0
	}
	return uint32(len(c.Out[0]))
}

// NumOutChannels returns the number of output channels.
func (c *Context) NumOutChannels() int {
	return len(c.Out)
}

// Clear zero-fills all output buffers.
func (c *Context) Clear() {
	for ch := range c.Out {
		buf := c.Out[ch]
		for i := range buf {
			buf[i] = 0
		}
	}
}
