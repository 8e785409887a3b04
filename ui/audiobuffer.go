package ui

import (
	"io"
	"sync"
)

// channels per frame in the interleaved stream
const ringChannels = 2

// AudioRingBuffer is a thread-safe ring of interleaved int16 stereo
// samples implementing io.Reader. The emulation goroutine writes whole
// frames via Write(), and oto's player reads little-endian bytes via
// Read(). Read blocks when empty; Write drops the oldest frames on
// overflow so the producer never stalls.
type AudioRingBuffer struct {
	buf      []int16
	readPos  int
	writePos int
	count    int // samples buffered
	capacity int // samples, a multiple of ringChannels
	mu       sync.Mutex
	cond     *sync.Cond
	closed   bool
}

// NewAudioRingBuffer creates a ring buffer holding up to frames stereo
// frames.
func NewAudioRingBuffer(frames int) *AudioRingBuffer {
	if frames < 1 {
		frames = 1
	}
	capacity := frames * ringChannels
	rb := &AudioRingBuffer{
		buf:      make([]int16, capacity),
		capacity: capacity,
	}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write adds interleaved stereo samples. A trailing odd sample is ignored.
// Non-blocking; if the buffer overflows the oldest frames are dropped.
func (rb *AudioRingBuffer) Write(samples []int16) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed {
		return
	}

	n := len(samples) &^ (ringChannels - 1)
	if n == 0 {
		return
	}
	samples = samples[:n]

	if n > rb.capacity {
		samples = samples[n-rb.capacity:]
		n = rb.capacity
	}

	// Overflow is always a whole number of frames since both count and
	// capacity stay frame aligned on the write side.
	overflow := rb.count + n - rb.capacity
	if overflow > 0 {
		overflow = (overflow + ringChannels - 1) &^ (ringChannels - 1)
		if overflow > rb.count {
			overflow = rb.count
		}
		rb.readPos = (rb.readPos + overflow) % rb.capacity
		rb.count -= overflow
	}

	first := rb.capacity - rb.writePos
	if first >= n {
		copy(rb.buf[rb.writePos:], samples)
	} else {
		copy(rb.buf[rb.writePos:], samples[:first])
		copy(rb.buf, samples[first:])
	}
	rb.writePos = (rb.writePos + n) % rb.capacity
	rb.count += n

	rb.cond.Signal()
}

// Read implements io.Reader, producing signed 16-bit little-endian PCM.
// Blocks until data is available or the buffer is closed. Returns io.EOF
// when closed and empty.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	if len(p) < 2 {
		return 0, io.ErrShortBuffer
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		rb.cond.Wait()
	}

	n := len(p) / 2
	if n > rb.count {
		n = rb.count
	}

	pos := rb.readPos
	for i := 0; i < n; i++ {
		s := rb.buf[pos]
		p[i*2] = byte(s)
		p[i*2+1] = byte(s >> 8)
		pos++
		if pos == rb.capacity {
			pos = 0
		}
	}
	rb.readPos = pos
	rb.count -= n

	return n * 2, nil
}

// Buffered returns the number of bytes currently in the buffer.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count * 2
}

// Clear resets the buffer, discarding all data.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
}

// Close signals shutdown. Subsequent Reads return io.EOF when the buffer
// is empty. Unblocks any goroutines waiting in Read.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
