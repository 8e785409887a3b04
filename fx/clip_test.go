package fx

import (
	"errors"
	"testing"
)

func TestClipLoad_Success(t *testing.T) {
	var c Clip
	if err := c.Load(makeWAV(1, 16, []int16{10, -20, 30, 32767, -32768})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !c.Ready() {
		t.Error("clip not ready after load")
	}
	if c.Total() != 5 {
		t.Errorf("total: got %d, want 5", c.Total())
	}
	if c.Cursor() != 0 {
		t.Errorf("cursor: got %d, want 0", c.Cursor())
	}
	if c.State() != Off {
		t.Errorf("state: got %v, want off", c.State())
	}
	want := []int16{10, -20, 30, 32767, -32768}
	for i, v := range want {
		if c.samples[i] != v {
			t.Errorf("sample %d: got %d, want %d", i, c.samples[i], v)
		}
	}
}

func TestClipLoad_RejectsFormat(t *testing.T) {
	for _, tc := range []struct {
		channels, bits uint16
	}{
		{2, 16},
		{1, 8},
	} {
		var c Clip
		err := c.Load(makeWAV(tc.channels, tc.bits, []int16{1, 2, 3, 4}))
		if !errors.Is(err, ErrIncompatibleFormat) {
			t.Errorf("%dch/%dbits: got %v, want ErrIncompatibleFormat", tc.channels, tc.bits, err)
		}
		if c.Ready() {
			t.Errorf("%dch/%dbits: clip ready after rejected load", tc.channels, tc.bits)
		}
		if c.samples != nil {
			t.Errorf("%dch/%dbits: samples retained after rejected load", tc.channels, tc.bits)
		}
	}
}

func TestClipLoad_ShortBuffer(t *testing.T) {
	var c Clip
	if err := c.Load([]byte("RIFF")); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("got %v, want ErrShortBuffer", err)
	}
	if c.Ready() {
		t.Error("clip ready after short buffer")
	}
}

func TestClipLoad_AllocationLimit(t *testing.T) {
	var c Clip
	err := c.Load(makeWAVSized(1, 16, MaxClipBytes+2, []int16{1, 2}))
	if !errors.Is(err, ErrAllocation) {
		t.Fatalf("got %v, want ErrAllocation", err)
	}
	if c.Ready() || c.samples != nil {
		t.Error("clip kept state after allocation failure")
	}
}

func TestClipLoad_TotalFromDataChunk(t *testing.T) {
	// Data chunk declares 4 samples but only 2 are present.
	var c Clip
	if err := c.Load(makeWAVSized(1, 16, 8, []int16{7, 8})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Total() != 4 {
		t.Errorf("total: got %d, want 4", c.Total())
	}
	want := []int16{7, 8, 0, 0}
	for i, v := range want {
		if c.samples[i] != v {
			t.Errorf("sample %d: got %d, want %d", i, c.samples[i], v)
		}
	}
}

func TestClipLoad_PayloadBeyondDataChunkIgnored(t *testing.T) {
	var c Clip
	if err := c.Load(makeWAVSized(1, 16, 4, []int16{1, 2, 3, 4})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Total() != 2 || len(c.samples) != 2 {
		t.Errorf("total: got %d (len %d), want 2", c.Total(), len(c.samples))
	}
}

func TestClipLoad_FailureReleasesPrevious(t *testing.T) {
	var c Clip
	if err := c.Load(makeWAV(1, 16, []int16{1, 2, 3})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c.state = PlayingLooped
	c.cursor = 2

	if err := c.Load(makeWAV(2, 16, []int16{1, 2})); err == nil {
		t.Fatal("expected stereo load to fail")
	}
	if c.Ready() || c.Total() != 0 || c.Cursor() != 0 || c.State() != Off {
		t.Errorf("clip not reset: ready=%v total=%d cursor=%d state=%v",
			c.Ready(), c.Total(), c.Cursor(), c.State())
	}
}
