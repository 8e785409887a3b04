package fx

// SetCommand changes the playback state of slot. Commands for an out of
// range slot, a clip that is not ready, or an undefined state are ignored.
// Switching to Off rewinds the clip.
func (s *Store) SetCommand(slot Slot, st State) {
	if !slot.valid() || !st.Valid() {
		return
	}
	c := &s.clips[slot]
	if !c.ready {
		return
	}

	c.state = st
	if st == Off {
		c.cursor = 0
	}
}

// StopAll switches every ready clip to Off.
func (s *Store) StopAll() {
	for _, slot := range Slots {
		s.SetCommand(slot, Off)
	}
}
