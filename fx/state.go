// Package fx mixes the floppy drive sound effects (motor, seek, read) into
// a host's stereo audio stream.
package fx

import "fmt"

// State is the playback mode of a clip.
type State uint8

const (
	Off           State = iota // Idle; cursor rewound
	PlayingOnce                // Stops when the clip is exhausted
	PlayingLooped              // Rewinds when the clip is exhausted
)

// Valid reports whether s is one of the defined playback states.
func (s State) Valid() bool {
	return s <= PlayingLooped
}

func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case PlayingOnce:
		return "once"
	case PlayingLooped:
		return "looped"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Slot selects one clip in the Store. The set is fixed at build time.
type Slot int

const (
	SlotMotor Slot = iota
	SlotSeek
	SlotRead

	NumSlots = 3
)

// Slots lists every slot in load order.
var Slots = [NumSlots]Slot{SlotMotor, SlotSeek, SlotRead}

func (s Slot) String() string {
	switch s {
	case SlotMotor:
		return "motor"
	case SlotSeek:
		return "seek"
	case SlotRead:
		return "read"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// valid reports whether s addresses a clip in the Store.
func (s Slot) valid() bool {
	return s >= 0 && s < NumSlots
}
