package fx

import (
	"encoding/binary"
	"fmt"
)

// Clip is one mono 16-bit effect sound and its playback position.
type Clip struct {
	header  Header
	samples []int16
	cursor  int
	total   int
	state   State
	ready   bool
}

// Load decodes a minimal WAV buffer into the clip. On any failure the clip
// is left not ready and holds no samples.
func (c *Clip) Load(buf []byte) error {
	c.free()

	h, err := ParseHeader(buf)
	if err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if h.Subchunk2Size > MaxClipBytes {
		return fmt.Errorf("%w: data chunk is %d bytes (limit %d)", ErrAllocation, h.Subchunk2Size, MaxClipBytes)
	}

	total := h.Frames()
	samples := make([]int16, total)

	// Payload beyond the declared data chunk is ignored; a short payload
	// leaves the remaining samples silent.
	payload := buf[HeaderSize:]
	if n := total * clipBytesPerFrame; len(payload) > n {
		payload = payload[:n]
	}
	for i := 0; i+1 < len(payload); i += clipBytesPerFrame {
		samples[i/clipBytesPerFrame] = int16(binary.NativeEndian.Uint16(payload[i:]))
	}

	c.header = h
	c.samples = samples
	c.total = total
	c.cursor = 0
	c.state = Off
	c.ready = true
	return nil
}

// free releases the samples and resets the clip to its zero state.
func (c *Clip) free() {
	c.ready = false
	c.samples = nil
	c.total = 0
	c.cursor = 0
	c.state = Off
	c.header = Header{}
}

// stop silences the clip and rewinds it for the next play.
func (c *Clip) stop() {
	c.cursor = 0
	c.state = Off
}

// reserve applies the end-of-clip policy for a mix of n frames and returns
// how many frames may be mixed from the cursor. A one-shot clip that cannot
// supply n frames is stopped and returns 0. A looped clip rewinds; it only
// returns fewer than n frames when the whole clip is shorter than n.
func (c *Clip) reserve(n int) int {
	if c.cursor+n > c.total {
		if c.state == PlayingOnce {
			c.stop()
			return 0
		}
		c.cursor = 0
		if n > c.total {
			return c.total
		}
	}
	return n
}

// settle runs after a mix: a clip whose cursor reached the end is stopped
// if one-shot, or rewound if looped, without waiting for the next tick.
func (c *Clip) settle() {
	if c.cursor < c.total {
		return
	}
	if c.state == PlayingOnce {
		c.stop()
		return
	}
	c.cursor = 0
}

// Header returns the parsed WAV header of a loaded clip.
func (c *Clip) Header() Header { return c.header }

// Ready reports whether the clip loaded successfully.
func (c *Clip) Ready() bool { return c.ready }

// State returns the playback mode.
func (c *Clip) State() State { return c.state }

// Cursor returns the next sample index to be mixed.
func (c *Clip) Cursor() int { return c.cursor }

// Total returns the clip length in samples.
func (c *Clip) Total() int { return c.total }
