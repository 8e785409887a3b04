package adapter

import (
	"log"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emfx/drive"
	"github.com/user-none/emfx/fx"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Core)(nil)
var _ emucore.SaveStater = (*Core)(nil)
var _ emucore.BatterySaver = (*Core)(nil)
var _ emucore.MemoryInspector = (*Core)(nil)
var _ emucore.MemoryMapper = (*Core)(nil)

// Core exposes a drive.Machine to eblitui frontends. Frontends call it from
// a single goroutine.
type Core struct {
	machine *drive.Machine
	program []byte
	region  emucore.Region
	mode    drive.MixMode

	buttons uint32
	frame   uint64
	screen  *screen
}

// NewCore creates a core running program.
func NewCore(program []byte, region emucore.Region, mode drive.MixMode) (*Core, error) {
	m, err := drive.NewMachine(program, driveRegion(region), mode)
	if err != nil {
		return nil, err
	}
	c := &Core{
		machine: m,
		program: program,
		region:  region,
		mode:    mode,
		screen:  newScreen(),
	}
	c.screen.draw(c.machine, c.frame)
	return c, nil
}

func driveRegion(r emucore.Region) drive.Region {
	if r == emucore.RegionNTSC {
		return drive.RegionNTSC
	}
	return drive.RegionPAL
}

// rebuild replaces the machine with one for the given region and mode,
// carrying the current state across.
func (c *Core) rebuild(region emucore.Region, mode drive.MixMode) {
	state, err := c.machine.Serialize()
	if err != nil {
		log.Printf("Warning: capturing state for reconfigure failed: %v", err)
		return
	}
	m, err := drive.NewMachine(c.program, driveRegion(region), mode)
	if err != nil {
		log.Printf("Warning: reconfigure failed: %v", err)
		return
	}
	if err := m.Deserialize(state); err != nil {
		log.Printf("Warning: restoring state after reconfigure failed: %v", err)
	}
	c.machine.Close()
	c.machine = m
	c.region = region
	c.mode = mode
}

// Machine returns the wrapped machine.
func (c *Core) Machine() *drive.Machine { return c.machine }

// RunFrame runs one frame and redraws the status screen.
func (c *Core) RunFrame() {
	c.machine.RunFrame()
	c.frame++
	c.screen.draw(c.machine, c.frame)
}

// GetAudioSamples returns the frame's interleaved stereo samples.
func (c *Core) GetAudioSamples() []int16 {
	return c.machine.GetAudioSamples()
}

// SetInput turns newly pressed buttons into sound commands. Motor and read
// toggle their loops, seek fires once, and stop silences everything.
func (c *Core) SetInput(player int, buttons uint32) {
	if player != 0 {
		return
	}
	pressed := buttons &^ c.buttons
	c.buttons = buttons

	if pressed&(1<<ButtonMotor) != 0 {
		c.machine.ToggleCommand(fx.SlotMotor, fx.PlayingLooped)
	}
	if pressed&(1<<ButtonSeek) != 0 {
		c.machine.SetCommand(fx.SlotSeek, fx.PlayingOnce)
	}
	if pressed&(1<<ButtonRead) != 0 {
		c.machine.ToggleCommand(fx.SlotRead, fx.PlayingLooped)
	}
	if pressed&(1<<ButtonStop) != 0 {
		c.machine.StopAll()
	}
}

// GetFramebuffer returns raw RGBA pixel data of the status screen.
func (c *Core) GetFramebuffer() []byte {
	return c.screen.img.Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (c *Core) GetFramebufferStride() int {
	return c.screen.img.Stride
}

// GetActiveHeight returns the status screen height.
func (c *Core) GetActiveHeight() int {
	return ScreenHeight
}

// GetRegion returns the core's region setting.
func (c *Core) GetRegion() emucore.Region {
	return c.region
}

// GetTiming returns the frame rate for the current region. The status
// screen height stands in for the scanline count.
func (c *Core) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       c.machine.GetTiming().FPS,
		Scanlines: ScreenHeight,
	}
}

// SetRegion switches frame timing, keeping the machine state.
func (c *Core) SetRegion(region emucore.Region) {
	if region == c.region {
		return
	}
	c.rebuild(region, c.mode)
}

// SetOption applies a core option change identified by key.
func (c *Core) SetOption(key string, value string) {
	switch key {
	case OptionBatchMix:
		mode := drive.MixPerSample
		if value == "true" {
			mode = drive.MixBatch
		}
		if mode != c.mode {
			c.rebuild(c.region, mode)
		}
	}
}

// Close releases the machine.
func (c *Core) Close() {
	c.machine.Close()
}

// SerializeSize returns the save state size.
func (c *Core) SerializeSize() int {
	return drive.SerializeSize()
}

// Serialize captures the machine state.
func (c *Core) Serialize() ([]byte, error) {
	return c.machine.Serialize()
}

// Deserialize restores the machine state.
func (c *Core) Deserialize(data []byte) error {
	if err := c.machine.Deserialize(data); err != nil {
		return err
	}
	c.screen.draw(c.machine, c.frame)
	return nil
}

// VerifyState checks a save state without applying it.
func (c *Core) VerifyState(data []byte) error {
	return c.machine.VerifyState(data)
}

// HasSRAM reports false; the drive host has no battery-backed memory.
func (c *Core) HasSRAM() bool { return false }

// GetSRAM returns nil.
func (c *Core) GetSRAM() []byte { return nil }

// SetSRAM is a no-op.
func (c *Core) SetSRAM(data []byte) {}

// ReadMemory reads Z80 RAM from a flat address into buf and returns the
// number of bytes read.
func (c *Core) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur >= drive.RAMSize {
			return count
		}
		buf[i] = c.machine.ReadRAM(uint16(cur))
		count++
	}
	return count
}

// MemoryMap returns the Z80 RAM region.
func (c *Core) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: drive.RAMSize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (c *Core) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		return c.machine.RAM()
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (c *Core) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		c.machine.SetRAM(data)
	}
}
