package drive

import (
	"fmt"
	"hash/crc32"
	"log"

	"github.com/user-none/emfx/fx"
	"github.com/user-none/go-chip-sn76489"
	"github.com/user-none/go-chip-z80"
)

const (
	psgBufferSize = 2048
	psgGain       = 1898.0
)

// MixMode selects how the drive sounds are mixed into the frame.
type MixMode int

const (
	// MixBatch mixes the effects once per frame after the CPU has run.
	MixBatch MixMode = iota
	// MixPerSample mixes one effect frame per output sample, interleaved
	// with CPU execution, so commands take effect sample-exactly.
	MixPerSample
)

func (m MixMode) String() string {
	if m == MixPerSample {
		return "sample"
	}
	return "batch"
}

// ParseMixMode converts a flag value to a MixMode.
func ParseMixMode(s string) (MixMode, bool) {
	switch s {
	case "batch":
		return MixBatch, true
	case "sample":
		return MixPerSample, true
	}
	return MixBatch, false
}

// Machine is a minimal drive host: a Z80 running a boot program that
// drives the floppy motor and controller, a PSG, and the drive sound mixer.
type Machine struct {
	cpu    *z80.CPU
	bus    *Bus
	psg    *sn76489.SN76489
	drive  *Drive
	sounds *fx.Store

	timing          Timing
	mode            MixMode
	cyclesPerFrame  int
	samplesPerFrame int
	programCRC      uint32

	// Cycles left over (negative) or owed (positive) between slices
	pendingCycles int

	// Stereo output for the current frame
	audioBuffer []int16
	// Per-sample effect accumulation, added to the PSG output at frame end
	fxBuffer []int16

	soundsEnabled bool
}

// NewMachine creates a drive host running program. If the drive sounds
// cannot be loaded the machine still runs, silently.
func NewMachine(program []byte, region Region, mode MixMode) (*Machine, error) {
	return newMachine(program, region, mode, fx.EmbeddedAssets())
}

func newMachine(program []byte, region Region, mode MixMode, assets fx.Assets) (*Machine, error) {
	if len(program) > RAMSize {
		return nil, fmt.Errorf("program too large: %d bytes (max %d)", len(program), RAMSize)
	}

	timing := GetTimingForRegion(region)
	samplesPerFrame := timing.SamplesPerFrame()

	sounds := fx.NewStore()
	soundsEnabled := true
	if err := sounds.InitWith(assets, samplesPerFrame*fx.BytesPerSample*fx.OutputChannels); err != nil {
		log.Printf("Warning: drive sounds disabled: %v", err)
		soundsEnabled = false
	}

	psg := sn76489.New(timing.ClockHz, timing.SampleRate, psgBufferSize, sn76489.Sega)
	psg.SetGain(psgGain)

	drive := NewDrive(sounds)
	bus := NewBus(drive, psg)
	bus.LoadProgram(program)

	return &Machine{
		cpu:             z80.New(bus),
		bus:             bus,
		psg:             psg,
		drive:           drive,
		sounds:          sounds,
		timing:          timing,
		mode:            mode,
		cyclesPerFrame:  timing.CyclesPerFrame(),
		samplesPerFrame: samplesPerFrame,
		programCRC:      crc32.ChecksumIEEE(program),
		audioBuffer:     make([]int16, samplesPerFrame*fx.OutputChannels),
		fxBuffer:        make([]int16, samplesPerFrame*fx.OutputChannels),
		soundsEnabled:   soundsEnabled,
	}, nil
}

// RunFrame executes one frame of emulation and renders its audio.
func (m *Machine) RunFrame() {
	m.psg.ResetBuffer()
	if m.mode == MixPerSample {
		clear(m.fxBuffer)
	}

	n := m.samplesPerFrame
	prev := 0
	for i := 0; i < n; i++ {
		// Spread the frame's cycles evenly over its samples.
		next := (i + 1) * m.cyclesPerFrame / n
		slice := next - prev
		prev = next

		m.runCPU(slice)
		m.psg.Run(slice)

		if m.mode == MixPerSample {
			m.sounds.MixSample(&m.fxBuffer[i*2], &m.fxBuffer[i*2+1])
		}
	}

	m.renderPSG()

	switch m.mode {
	case MixPerSample:
		for i, v := range m.fxBuffer {
			m.audioBuffer[i] += v
		}
	default:
		m.sounds.MixBatch(m.audioBuffer)
	}
}

// runCPU executes the Z80 for a slice of cycles, carrying any overshoot
// into the next slice.
func (m *Machine) runCPU(cycles int) {
	m.pendingCycles += cycles
	for m.pendingCycles > 0 {
		consumed := m.cpu.StepCycles(m.pendingCycles)
		if consumed == 0 {
			m.pendingCycles = 0
			return
		}
		m.pendingCycles -= consumed
	}
}

// renderPSG writes the PSG output as the frame's base audio, duplicating
// the mono chip output to both channels.
func (m *Machine) renderPSG() {
	psgBuf, psgCount := m.psg.GetBuffer()
	var last int16
	for i := 0; i < m.samplesPerFrame; i++ {
		if i < psgCount {
			last = clampInt16(psgBuf[i])
		}
		m.audioBuffer[i*2] = last
		m.audioBuffer[i*2+1] = last
	}
}

func clampInt16(v float32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// GetAudioSamples returns the current frame as interleaved 16-bit stereo.
// The slice is reused by the next RunFrame.
func (m *Machine) GetAudioSamples() []int16 {
	return m.audioBuffer
}

// SetCommand forwards a manual sound command to the mixer.
func (m *Machine) SetCommand(slot fx.Slot, st fx.State) {
	m.sounds.SetCommand(slot, st)
}

// ToggleCommand starts slot in st if it is off and stops it otherwise.
func (m *Machine) ToggleCommand(slot fx.Slot, st fx.State) {
	if m.sounds.Status(slot).State == fx.Off {
		m.sounds.SetCommand(slot, st)
		return
	}
	m.sounds.SetCommand(slot, fx.Off)
}

// StopAll silences every drive sound.
func (m *Machine) StopAll() {
	m.sounds.StopAll()
}

// Status returns a snapshot of every drive sound.
func (m *Machine) Status() [fx.NumSlots]fx.ClipStatus {
	var out [fx.NumSlots]fx.ClipStatus
	for _, slot := range fx.Slots {
		out[slot] = m.sounds.Status(slot)
	}
	return out
}

// SoundsEnabled reports whether the drive sounds loaded.
func (m *Machine) SoundsEnabled() bool { return m.soundsEnabled }

// MotorOn reports whether the emulated drive motor is running.
func (m *Machine) MotorOn() bool { return m.drive.MotorOn() }

// GetTiming returns the region timing.
func (m *Machine) GetTiming() Timing { return m.timing }

// Mode returns the mixing mode.
func (m *Machine) Mode() MixMode { return m.mode }

// ReadRAM reads a byte of Z80 RAM through the bus mirror.
func (m *Machine) ReadRAM(addr uint16) byte {
	return m.bus.Read(addr)
}

// WriteRAM writes a byte of Z80 RAM through the bus mirror.
func (m *Machine) WriteRAM(addr uint16, val byte) {
	m.bus.Write(addr, val)
}

// RAM returns a copy of the Z80 RAM.
func (m *Machine) RAM() []byte {
	out := make([]byte, RAMSize)
	copy(out, m.bus.ram[:])
	return out
}

// SetRAM writes data into Z80 RAM starting at address 0.
func (m *Machine) SetRAM(data []byte) {
	copy(m.bus.ram[:], data)
}

// Close releases the drive sounds.
func (m *Machine) Close() {
	m.sounds.Close()
	m.soundsEnabled = false
}
