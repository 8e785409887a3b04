// Package render runs the drive host offline and writes its audio to a
// WAV file.
package render

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/user-none/emfx/drive"
	"github.com/user-none/emfx/fx"
)

// Event is a manual sound command applied before a given frame runs.
type Event struct {
	Frame int
	Slot  fx.Slot
	State fx.State
}

var (
	slotNames = map[string]fx.Slot{
		"motor": fx.SlotMotor,
		"seek":  fx.SlotSeek,
		"read":  fx.SlotRead,
	}
	stateNames = map[string]fx.State{
		"off":    fx.Off,
		"once":   fx.PlayingOnce,
		"looped": fx.PlayingLooped,
		"loop":   fx.PlayingLooped,
	}
)

// ParseEvents parses a comma separated list of frame:slot:state entries,
// e.g. "0:motor:looped,25:seek:once,100:motor:off".
func ParseEvents(s string) ([]Event, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var events []Event
	for _, entry := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("event %q: want frame:slot:state", entry)
		}
		frame, err := strconv.Atoi(parts[0])
		if err != nil || frame < 0 {
			return nil, fmt.Errorf("event %q: invalid frame", entry)
		}
		slot, ok := slotNames[strings.ToLower(parts[1])]
		if !ok {
			return nil, fmt.Errorf("event %q: unknown sound %q", entry, parts[1])
		}
		state, ok := stateNames[strings.ToLower(parts[2])]
		if !ok {
			return nil, fmt.Errorf("event %q: unknown state %q", entry, parts[2])
		}
		events = append(events, Event{Frame: frame, Slot: slot, State: state})
	}
	return events, nil
}

// SlotSummary describes one sound over a render.
type SlotSummary struct {
	Slot fx.Slot
	// Frames during which the sound was playing at frame end
	ActiveFrames int
	Final        fx.ClipStatus
}

// Summary describes a finished render.
type Summary struct {
	Path       string
	Frames     int
	Samples    int
	SampleRate int
	Mode       drive.MixMode
	Peak       int
	Slots      [fx.NumSlots]SlotSummary
}

// Renderer writes renders to a filesystem.
type Renderer struct {
	Fs afero.Fs
}

// New creates a renderer writing to fs.
func New(fs afero.Fs) *Renderer {
	return &Renderer{Fs: fs}
}

// Render runs m for frames frames, applying events before the frame they
// name, and writes the stereo output to path as 16-bit PCM. Events sharing
// a frame apply in the given order.
func (r *Renderer) Render(m *drive.Machine, frames int, events []Event, path string) (Summary, error) {
	if frames <= 0 {
		return Summary{}, errors.New("frame count must be positive")
	}

	timing := m.GetTiming()
	sum := Summary{
		Path:       path,
		Frames:     frames,
		SampleRate: timing.SampleRate,
		Mode:       m.Mode(),
	}
	for _, slot := range fx.Slots {
		sum.Slots[slot].Slot = slot
	}

	f, err := r.Fs.Create(path)
	if err != nil {
		return Summary{}, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, timing.SampleRate, 16, fx.OutputChannels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: fx.OutputChannels,
			SampleRate:  timing.SampleRate,
		},
		Data:           make([]int, timing.SamplesPerFrame()*fx.OutputChannels),
		SourceBitDepth: 16,
	}

	events = slices.Clone(events)
	slices.SortStableFunc(events, func(a, b Event) int { return a.Frame - b.Frame })

	next := 0
	for frame := 0; frame < frames; frame++ {
		for next < len(events) && events[next].Frame <= frame {
			m.SetCommand(events[next].Slot, events[next].State)
			next++
		}

		m.RunFrame()

		samples := m.GetAudioSamples()
		buf.Data = buf.Data[:len(samples)]
		for i, s := range samples {
			v := int(s)
			buf.Data[i] = v
			if v < 0 {
				v = -v
			}
			if v > sum.Peak {
				sum.Peak = v
			}
		}
		if err := enc.Write(buf); err != nil {
			return Summary{}, fmt.Errorf("writing %s: %w", path, err)
		}
		sum.Samples += len(samples) / fx.OutputChannels

		for _, st := range m.Status() {
			if st.State != fx.Off {
				sum.Slots[st.Slot].ActiveFrames++
			}
		}
	}

	if err := enc.Close(); err != nil {
		return Summary{}, fmt.Errorf("finalizing %s: %w", path, err)
	}

	for _, st := range m.Status() {
		sum.Slots[st.Slot].Final = st
	}
	return sum, nil
}
