package fx

import "fmt"

// Output buffer format shared with the host.
const (
	BytesPerSample = 2
	OutputChannels = 2
)

// Assets holds one WAV buffer per slot.
type Assets [NumSlots][]byte

// Store owns the clip of every slot and the batch mixing width. It is not
// safe for concurrent use; hosts that mix and command from different
// goroutines must serialize access.
type Store struct {
	clips [NumSlots]Clip
	width int
}

// NewStore returns an empty Store. Every clip is silent until Init.
func NewStore() *Store {
	return &Store{}
}

// Init loads the embedded drive sounds. outputBytes is the size in bytes of
// the stereo 16-bit buffer a single MixBatch call fills.
func (s *Store) Init(outputBytes int) error {
	return s.InitWith(EmbeddedAssets(), outputBytes)
}

// InitWith loads every slot from assets. If any slot fails to load, every
// clip is released and the error names the failing slot.
func (s *Store) InitWith(assets Assets, outputBytes int) error {
	s.Close()

	for _, slot := range Slots {
		if err := s.clips[slot].Load(assets[slot]); err != nil {
			s.Close()
			return fmt.Errorf("loading %s sound: %w", slot, err)
		}
	}

	s.width = outputBytes / BytesPerSample / OutputChannels
	return nil
}

// Close releases every clip. It is safe to call more than once and after a
// failed Init.
func (s *Store) Close() {
	for i := range s.clips {
		s.clips[i].free()
	}
	s.width = 0
}

// BatchWidth returns the number of stereo frames mixed by MixBatch.
func (s *Store) BatchWidth() int {
	return s.width
}

// ClipStatus is a snapshot of one clip's playback state.
type ClipStatus struct {
	Slot   Slot
	Ready  bool
	State  State
	Cursor int
	Total  int
}

// String formats the status as a fixed-width status line.
func (c ClipStatus) String() string {
	if !c.Ready {
		return fmt.Sprintf("%-6s  not loaded", c.Slot)
	}
	return fmt.Sprintf("%-6s  %-7s %6d/%d", c.Slot, c.State, c.Cursor, c.Total)
}

// Status returns a snapshot of slot. An out of range slot reports a zero
// status that is not ready.
func (s *Store) Status(slot Slot) ClipStatus {
	if !slot.valid() {
		return ClipStatus{Slot: slot}
	}
	c := &s.clips[slot]
	return ClipStatus{
		Slot:   slot,
		Ready:  c.ready,
		State:  c.state,
		Cursor: c.cursor,
		Total:  c.total,
	}
}

// Clip returns the clip in slot, or nil if slot is out of range.
func (s *Store) Clip(slot Slot) *Clip {
	if !slot.valid() {
		return nil
	}
	return &s.clips[slot]
}
