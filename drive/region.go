package drive

// Region selects the host's video timing, which sets the frame length.
type Region int

const (
	RegionPAL Region = iota
	RegionNTSC
)

func (r Region) String() string {
	if r == RegionNTSC {
		return "ntsc"
	}
	return "pal"
}

// Timing holds the clock constants for a region.
type Timing struct {
	ClockHz    int // Z80 clock frequency
	FPS        int // Frames per second
	SampleRate int // Output sample rate; the effect clips are recorded at this rate
}

// PAL timing: Z80 4 MHz, 50 Hz, 48 kHz output
var PALTiming = Timing{
	ClockHz:    4000000,
	FPS:        50,
	SampleRate: 48000,
}

// NTSC timing: Z80 4 MHz, 60 Hz, 48 kHz output
var NTSCTiming = Timing{
	ClockHz:    4000000,
	FPS:        60,
	SampleRate: 48000,
}

// GetTimingForRegion returns the timing constants for r.
func GetTimingForRegion(r Region) Timing {
	if r == RegionNTSC {
		return NTSCTiming
	}
	return PALTiming
}

// SamplesPerFrame returns the number of stereo frames produced per video frame.
func (t Timing) SamplesPerFrame() int {
	return t.SampleRate / t.FPS
}

// CyclesPerFrame returns the Z80 cycles executed per video frame.
func (t Timing) CyclesPerFrame() int {
	return t.ClockHz / t.FPS
}

// ParseRegion converts a flag value to a Region.
func ParseRegion(s string) (Region, bool) {
	switch s {
	case "pal", "PAL":
		return RegionPAL, true
	case "ntsc", "NTSC":
		return RegionNTSC, true
	}
	return RegionPAL, false
}
