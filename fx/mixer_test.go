package fx

import (
	"math/rand"
	"testing"
)

// newTestStore loads the given clips into the motor, seek and read slots.
// Missing clips get a short silent sound.
func newTestStore(t *testing.T, outputFrames int, clips ...[]int16) *Store {
	t.Helper()
	var assets Assets
	for i := range assets {
		samples := []int16{0}
		if i < len(clips) {
			samples = clips[i]
		}
		assets[i] = makeWAV(1, 16, samples)
	}
	s := NewStore()
	if err := s.InitWith(assets, outputFrames*BytesPerSample*OutputChannels); err != nil {
		t.Fatalf("InitWith failed: %v", err)
	}
	return s
}

func TestMixBatch_OneShotScenario(t *testing.T) {
	s := newTestStore(t, 3, []int16{10, 20, 30})
	s.SetCommand(SlotMotor, PlayingOnce)

	out := []int16{1, 2, 3, 4, 5, 6}
	s.MixBatch(out)

	want := []int16{11, 12, 23, 24, 35, 36}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d]: got %d, want %d", i, out[i], want[i])
		}
	}
	st := s.Status(SlotMotor)
	if st.State != Off {
		t.Errorf("state: got %v, want off", st.State)
	}
	if st.Cursor != 0 {
		t.Errorf("cursor: got %d, want 0", st.Cursor)
	}

	// Exhausted clip leaves the buffer untouched.
	s.MixBatch(out)
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("after exhaustion out[%d]: got %d, want %d", i, out[i], want[i])
		}
	}
}

func TestMixBatch_LoopedScenario(t *testing.T) {
	s := newTestStore(t, 3, []int16{10, 20, 30})
	s.SetCommand(SlotMotor, PlayingLooped)

	for call := 0; call < 2; call++ {
		out := make([]int16, 6)
		s.MixBatch(out)
		want := []int16{10, 10, 20, 20, 30, 30}
		for i := range want {
			if out[i] != want[i] {
				t.Errorf("call %d out[%d]: got %d, want %d", call, i, out[i], want[i])
			}
		}
		if st := s.Status(SlotMotor).State; st != PlayingLooped {
			t.Errorf("call %d: state %v, want looped", call, st)
		}
	}
}

func TestMixBatch_OneShotNeverMixesPartialTail(t *testing.T) {
	s := newTestStore(t, 2, []int16{1, 2, 3, 4, 5})
	s.SetCommand(SlotMotor, PlayingOnce)

	out := make([]int16, 4)
	s.MixBatch(out) // 1,2
	s.MixBatch(out) // 3,4
	if got := s.Status(SlotMotor).Cursor; got != 4 {
		t.Fatalf("cursor: got %d, want 4", got)
	}

	before := append([]int16(nil), out...)
	s.MixBatch(out) // only 5 remains: stop without mixing
	for i := range out {
		if out[i] != before[i] {
			t.Errorf("out[%d] changed from %d to %d", i, before[i], out[i])
		}
	}
	if st := s.Status(SlotMotor); st.State != Off || st.Cursor != 0 {
		t.Errorf("got state=%v cursor=%d, want off/0", st.State, st.Cursor)
	}
}

func TestMixBatch_LoopedRewindsBeforeTail(t *testing.T) {
	s := newTestStore(t, 2, []int16{1, 2, 3, 4, 5})
	s.SetCommand(SlotMotor, PlayingLooped)

	out := make([]int16, 4)
	s.MixBatch(out)
	s.MixBatch(out)

	out = make([]int16, 4)
	s.MixBatch(out)
	want := []int16{1, 1, 2, 2}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d]: got %d, want %d", i, out[i], want[i])
		}
	}
	if got := s.Status(SlotMotor).Cursor; got != 2 {
		t.Errorf("cursor: got %d, want 2", got)
	}
}

func TestMixBatch_Additive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const frames = 64
	clips := make([][]int16, NumSlots)
	for i := range clips {
		clips[i] = make([]int16, frames*3)
		for j := range clips[i] {
			clips[i][j] = int16(rng.Intn(65536) - 32768)
		}
	}
	s := newTestStore(t, frames, clips...)
	for _, slot := range Slots {
		s.SetCommand(slot, PlayingLooped)
	}

	out := make([]int16, frames*2)
	for i := range out {
		out[i] = int16(rng.Intn(65536) - 32768)
	}
	pre := append([]int16(nil), out...)

	s.MixBatch(out)

	for f := 0; f < frames; f++ {
		var sum int16
		for _, c := range clips {
			sum += c[f]
		}
		for ch := 0; ch < 2; ch++ {
			want := pre[f*2+ch] + sum
			if out[f*2+ch] != want {
				t.Fatalf("frame %d ch %d: got %d, want %d", f, ch, out[f*2+ch], want)
			}
		}
	}
}

func TestMixBatch_WrapsWithoutSaturation(t *testing.T) {
	s := newTestStore(t, 1, []int16{100})
	s.SetCommand(SlotMotor, PlayingLooped)

	out := []int16{32700, -32768}
	s.MixBatch(out)

	if out[0] != -32736 {
		t.Errorf("left: got %d, want -32736 (wrapped)", out[0])
	}
	if out[1] != -32668 {
		t.Errorf("right: got %d, want -32668", out[1])
	}
}

func TestMixBatch_OffClipsSkipped(t *testing.T) {
	s := newTestStore(t, 2, []int16{5, 5}, []int16{7, 7})
	s.SetCommand(SlotSeek, PlayingLooped)

	out := make([]int16, 4)
	s.MixBatch(out)
	for i, v := range out {
		if v != 7 {
			t.Errorf("out[%d]: got %d, want 7", i, v)
		}
	}
	if got := s.Status(SlotMotor).Cursor; got != 0 {
		t.Errorf("idle clip cursor moved to %d", got)
	}
}

func TestMixBatch_LoopedShorterThanWidth(t *testing.T) {
	s := newTestStore(t, 4, []int16{3, 4})
	s.SetCommand(SlotMotor, PlayingLooped)

	out := make([]int16, 8)
	s.MixBatch(out)
	want := []int16{3, 3, 4, 4, 0, 0, 0, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d]: got %d, want %d", i, out[i], want[i])
		}
	}
	if st := s.Status(SlotMotor); st.State != PlayingLooped || st.Cursor != 0 {
		t.Errorf("got state=%v cursor=%d, want looped/0", st.State, st.Cursor)
	}
}

func TestMixSample_OneShotExhausts(t *testing.T) {
	samples := []int16{1, 2, 3, 4, 5, 6, 7}
	n := len(samples)
	s := newTestStore(t, 1, samples)
	s.SetCommand(SlotMotor, PlayingOnce)

	for i := 0; i < n; i++ {
		var l, r int16
		s.MixSample(&l, &r)
		if l != samples[i] || r != samples[i] {
			t.Errorf("call %d: got (%d,%d), want %d", i, l, r, samples[i])
		}
	}
	if st := s.Status(SlotMotor).State; st != Off {
		t.Errorf("after %d calls state is %v, want off", n, st)
	}

	for i := 0; i < 3; i++ {
		l, r := int16(42), int16(-42)
		s.MixSample(&l, &r)
		if l != 42 || r != -42 {
			t.Errorf("call after exhaustion modified output: (%d,%d)", l, r)
		}
	}
}

func TestMixSample_LoopedNeverStops(t *testing.T) {
	samples := []int16{9, 8, 7}
	n := len(samples)
	s := newTestStore(t, 1, samples)
	s.SetCommand(SlotMotor, PlayingLooped)

	for k := 1; k <= 4; k++ {
		for i := 0; i < n; i++ {
			var l, r int16
			s.MixSample(&l, &r)
			if l != samples[i] || r != samples[i] {
				t.Errorf("cycle %d call %d: got (%d,%d), want %d", k, i, l, r, samples[i])
			}
		}
		st := s.Status(SlotMotor)
		if st.State != PlayingLooped {
			t.Fatalf("after %d calls state is %v, want looped", k*n, st.State)
		}
		if st.Cursor != 0 {
			t.Errorf("after %d calls cursor is %d, want 0", k*n, st.Cursor)
		}
	}
}

func TestMixSample_MatchesBatch(t *testing.T) {
	clip := []int16{1, -2, 3, -4, 5, -6, 7, -8, 9}
	const width = 3

	batch := newTestStore(t, width, clip)
	batch.SetCommand(SlotMotor, PlayingLooped)
	single := newTestStore(t, width, clip)
	single.SetCommand(SlotMotor, PlayingLooped)

	for tick := 0; tick < 7; tick++ {
		out := make([]int16, width*2)
		batch.MixBatch(out)
		for f := 0; f < width; f++ {
			var l, r int16
			single.MixSample(&l, &r)
			if l != out[f*2] || r != out[f*2+1] {
				t.Fatalf("tick %d frame %d: sample path (%d,%d), batch path (%d,%d)",
					tick, f, l, r, out[f*2], out[f*2+1])
			}
		}
	}
}

func TestMixSample_SumsActiveClips(t *testing.T) {
	s := newTestStore(t, 1, []int16{100}, []int16{20}, []int16{3})
	for _, slot := range Slots {
		s.SetCommand(slot, PlayingLooped)
	}
	l, r := int16(1000), int16(-1000)
	s.MixSample(&l, &r)
	if l != 1123 || r != -877 {
		t.Errorf("got (%d,%d), want (1123,-877)", l, r)
	}
}

func TestMix_UninitializedStoreIsSilent(t *testing.T) {
	s := NewStore()
	s.SetCommand(SlotMotor, PlayingLooped)

	out := []int16{1, 2}
	s.MixBatch(out)
	l, r := int16(3), int16(4)
	s.MixSample(&l, &r)
	if out[0] != 1 || out[1] != 2 || l != 3 || r != 4 {
		t.Errorf("uninitialized store modified output: %v (%d,%d)", out, l, r)
	}
}
