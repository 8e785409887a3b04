package fx

// MixBatch adds every active clip into out, a stereo interleaved buffer of
// at least BatchWidth frames. Mono samples are duplicated to both channels.
// Sums wrap on int16 overflow; there is no clipping.
//
// A clip must be driven by either MixBatch or MixSample for a session,
// never both.
func (s *Store) MixBatch(out []int16) {
	width := s.width
	out = out[:width*OutputChannels]

	for i := range s.clips {
		c := &s.clips[i]
		if c.state == Off {
			continue
		}

		n := c.reserve(width)
		if n == 0 {
			continue
		}

		src := c.samples[c.cursor : c.cursor+n]
		for j, v := range src {
			out[j*2] += v
			out[j*2+1] += v
		}
		c.cursor += n
		c.settle()
	}
}

// MixSample adds one frame of every active clip to left and right. It
// follows the same end-of-clip policy as MixBatch with a width of one.
func (s *Store) MixSample(left, right *int16) {
	for i := range s.clips {
		c := &s.clips[i]
		if c.state == Off {
			continue
		}

		if c.reserve(1) == 0 {
			continue
		}

		v := c.samples[c.cursor]
		*left += v
		*right += v
		c.cursor++
		c.settle()
	}
}
