package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ringBufferFrames is ~170ms of stereo audio at 48kHz.
const ringBufferFrames = 8192

// AudioPlayer plays the mixed drive audio via oto. Samples are queued into
// a ring buffer which oto's player reads from in a pull model.
type AudioPlayer struct {
	player     *oto.Player
	ringBuffer *AudioRingBuffer
}

// oto context singleton. oto allows one context per process, so the
// first sample rate requested wins.
var (
	otoCtx        *oto.Context
	otoSampleRate int
	otoInitOnce   sync.Once
	otoInitErr    error
)

func ensureOtoContext(sampleRate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		otoSampleRate = sampleRate
		<-readyChan
	})
	if otoInitErr == nil && otoSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already running at %d Hz", otoSampleRate)
	}
	return otoCtx, otoInitErr
}

// NewAudioPlayer creates and starts playback at sampleRate.
func NewAudioPlayer(sampleRate int, volume float64) (*AudioPlayer, error) {
	ctx, err := ensureOtoContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	rb := NewAudioRingBuffer(ringBufferFrames)
	player := ctx.NewPlayer(rb)
	// 100ms of 16-bit stereo
	player.SetBufferSize(sampleRate / 10 * 4)
	player.SetVolume(volume)
	player.Play()

	return &AudioPlayer{
		player:     player,
		ringBuffer: rb,
	}, nil
}

// QueueSamples queues interleaved int16 stereo samples for playback.
func (a *AudioPlayer) QueueSamples(samples []int16) {
	a.ringBuffer.Write(samples)
}

// GetBufferLevel returns the total bytes of audio data currently buffered
// (ring buffer + oto player internal buffer). Used for ADT pacing.
func (a *AudioPlayer) GetBufferLevel() int {
	return a.ringBuffer.Buffered() + a.player.BufferedSize()
}

// Flush drops queued audio, e.g. after loading a state.
func (a *AudioPlayer) Flush() {
	a.ringBuffer.Clear()
}

// SetVolume sets the playback volume (0.0 = silent, 1.0 = full).
func (a *AudioPlayer) SetVolume(vol float64) {
	a.player.SetVolume(vol)
}

// Close cleans up audio resources.
func (a *AudioPlayer) Close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}
