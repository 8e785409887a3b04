package fx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// clipSerializeSize is state(1) + cursor(4).
const clipSerializeSize = 5

// SerializeSize is the number of bytes written by Serialize.
const SerializeSize = NumSlots * clipSerializeSize

// Serialize writes the playback state of every clip into data. Sample data
// is not saved; it is reloaded from the assets.
func (s *Store) Serialize(data []byte) error {
	if len(data) < SerializeSize {
		return errors.New("fx state buffer too small")
	}
	offset := 0
	for i := range s.clips {
		c := &s.clips[i]
		data[offset] = uint8(c.state)
		binary.LittleEndian.PutUint32(data[offset+1:], uint32(c.cursor))
		offset += clipSerializeSize
	}
	return nil
}

// Deserialize restores the playback state written by Serialize. The state
// is validated against the loaded clips before anything is applied.
func (s *Store) Deserialize(data []byte) error {
	if len(data) < SerializeSize {
		return errors.New("fx state too short")
	}

	var states [NumSlots]State
	var cursors [NumSlots]int
	offset := 0
	for i := range s.clips {
		c := &s.clips[i]
		st := State(data[offset])
		cursor := int(binary.LittleEndian.Uint32(data[offset+1:]))
		offset += clipSerializeSize

		if !st.Valid() {
			return fmt.Errorf("%s: invalid state %d", Slot(i), uint8(st))
		}
		if !c.ready && (st != Off || cursor != 0) {
			return fmt.Errorf("%s: state for a clip that is not loaded", Slot(i))
		}
		if cursor < 0 || cursor > c.total {
			return fmt.Errorf("%s: cursor %d beyond clip length %d", Slot(i), cursor, c.total)
		}
		states[i] = st
		cursors[i] = cursor
	}

	for i := range s.clips {
		s.clips[i].state = states[i]
		s.clips[i].cursor = cursors[i]
	}
	return nil
}
