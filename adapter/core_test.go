package adapter

import (
	"bytes"
	"testing"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emfx/drive"
	"github.com/user-none/emfx/fx"
)

func newTestCore(t *testing.T) *Core {
	t.Helper()
	c, err := NewCore(drive.IdleProgram(), emucore.RegionPAL, drive.MixPerSample)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func slotState(c *Core, slot fx.Slot) fx.State {
	return c.Machine().Status()[slot].State
}

func TestCore_SetInputActsOnPress(t *testing.T) {
	c := newTestCore(t)

	c.SetInput(0, 1<<ButtonMotor)
	if got := slotState(c, fx.SlotMotor); got != fx.PlayingLooped {
		t.Fatalf("motor after press: got %s, want %s", got, fx.PlayingLooped)
	}

	// Holding the button does not toggle again.
	c.SetInput(0, 1<<ButtonMotor)
	if got := slotState(c, fx.SlotMotor); got != fx.PlayingLooped {
		t.Errorf("motor while held: got %s, want %s", got, fx.PlayingLooped)
	}

	c.SetInput(0, 0)
	c.SetInput(0, 1<<ButtonMotor|1<<ButtonSeek)
	if got := slotState(c, fx.SlotMotor); got != fx.Off {
		t.Errorf("motor after second press: got %s, want off", got)
	}
	if got := slotState(c, fx.SlotSeek); got != fx.PlayingOnce {
		t.Errorf("seek: got %s, want %s", got, fx.PlayingOnce)
	}

	c.SetInput(0, 1<<ButtonRead)
	if got := slotState(c, fx.SlotRead); got != fx.PlayingLooped {
		t.Errorf("read: got %s, want %s", got, fx.PlayingLooped)
	}

	c.SetInput(0, 1<<ButtonStop)
	for _, st := range c.Machine().Status() {
		if st.State != fx.Off {
			t.Errorf("%s still playing after stop", st.Slot)
		}
	}
}

func TestCore_SetInputIgnoresOtherPlayers(t *testing.T) {
	c := newTestCore(t)
	c.SetInput(1, 1<<ButtonMotor)
	if got := slotState(c, fx.SlotMotor); got != fx.Off {
		t.Errorf("motor: got %s, want off", got)
	}
}

func TestCore_Framebuffer(t *testing.T) {
	c := newTestCore(t)
	c.RunFrame()

	fb := c.GetFramebuffer()
	stride := c.GetFramebufferStride()
	if stride != ScreenWidth*4 {
		t.Errorf("stride: got %d, want %d", stride, ScreenWidth*4)
	}
	if len(fb) != stride*c.GetActiveHeight() {
		t.Errorf("framebuffer: got %d bytes, want %d", len(fb), stride*c.GetActiveHeight())
	}
	want := []byte{colorBackground.R, colorBackground.G, colorBackground.B, colorBackground.A}
	if !bytes.Equal(fb[0:4], want) {
		t.Errorf("corner pixel: got % X, want % X", fb[0:4], want)
	}

	// Some text was drawn.
	text := false
	for i := 0; i < len(fb); i += 4 {
		if fb[i] == colorText.R && fb[i+1] == colorText.G && fb[i+2] == colorText.B {
			text = true
			break
		}
	}
	if !text {
		t.Error("no status text rendered")
	}
}

func TestCore_SetOptionKeepsState(t *testing.T) {
	c := newTestCore(t)
	c.SetInput(0, 1<<ButtonMotor)
	c.RunFrame()
	before := c.Machine().Status()

	c.SetOption(OptionBatchMix, "true")
	if got := c.Machine().Mode(); got != drive.MixBatch {
		t.Errorf("mode: got %s, want %s", got, drive.MixBatch)
	}
	if got := c.Machine().Status(); got != before {
		t.Errorf("status: got %+v, want %+v", got, before)
	}

	c.SetOption(OptionBatchMix, "false")
	if got := c.Machine().Mode(); got != drive.MixPerSample {
		t.Errorf("mode: got %s, want %s", got, drive.MixPerSample)
	}
}

func TestCore_SetRegion(t *testing.T) {
	c := newTestCore(t)
	c.SetInput(0, 1<<ButtonRead)
	c.RunFrame()
	cursor := c.Machine().Status()[fx.SlotRead].Cursor

	c.SetRegion(emucore.RegionNTSC)
	if c.GetRegion() != emucore.RegionNTSC {
		t.Error("region not updated")
	}
	if got := c.GetTiming().FPS; got != 60 {
		t.Errorf("fps: got %d, want 60", got)
	}
	if got := c.Machine().Status()[fx.SlotRead].Cursor; got != cursor {
		t.Errorf("read cursor: got %d, want %d", got, cursor)
	}

	c.RunFrame()
	if got := len(c.GetAudioSamples()); got != 800*2 {
		t.Errorf("samples: got %d, want %d", got, 800*2)
	}
}

func TestCore_SaveState(t *testing.T) {
	c := newTestCore(t)
	c.SetInput(0, 1<<ButtonMotor)
	c.RunFrame()

	state, err := c.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(state) != c.SerializeSize() {
		t.Errorf("state size: got %d, want %d", len(state), c.SerializeSize())
	}
	want := c.Machine().Status()

	c.SetInput(0, 0)
	c.SetInput(0, 1<<ButtonStop)
	if err := c.VerifyState(state); err != nil {
		t.Fatalf("VerifyState: %v", err)
	}
	if err := c.Deserialize(state); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got := c.Machine().Status(); got != want {
		t.Errorf("status: got %+v, want %+v", got, want)
	}

	state[0] = 'X'
	if err := c.Deserialize(state); err == nil {
		t.Error("expected error for bad state")
	}
}

func TestCore_Memory(t *testing.T) {
	c := newTestCore(t)

	regions := c.MemoryMap()
	if len(regions) != 1 || regions[0].Type != emucore.MemorySystemRAM || regions[0].Size != drive.RAMSize {
		t.Fatalf("memory map: got %+v", regions)
	}

	c.WriteRegion(emucore.MemorySystemRAM, []byte{0x11, 0x22, 0x33})
	buf := make([]byte, 3)
	if n := c.ReadMemory(0, buf); n != 3 || !bytes.Equal(buf, []byte{0x11, 0x22, 0x33}) {
		t.Errorf("ReadMemory: got %d % X", n, buf)
	}

	// Reads stop at the end of RAM.
	if n := c.ReadMemory(drive.RAMSize-2, make([]byte, 4)); n != 2 {
		t.Errorf("ReadMemory at end: got %d, want 2", n)
	}

	ram := c.ReadRegion(emucore.MemorySystemRAM)
	if len(ram) != drive.RAMSize || ram[1] != 0x22 {
		t.Errorf("ReadRegion: got %d bytes, [1]=%02X", len(ram), ram[1])
	}
	if c.ReadRegion(emucore.MemorySaveRAM) != nil {
		t.Error("save RAM should be absent")
	}
	if c.HasSRAM() {
		t.Error("HasSRAM should be false")
	}
}
