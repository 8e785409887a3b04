package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emfx/drive"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Button bits in the frontend input mask.
const (
	ButtonMotor = 4
	ButtonSeek  = 5
	ButtonRead  = 6
	ButtonStop  = 7
)

// Option keys.
const (
	OptionBatchMix = "batch_mix"
)

// Factory implements emucore.CoreFactory for the drive host.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            drive.Name,
		ConsoleName:     "Floppy Drive",
		Extensions:      []string{".bin", ".z80"},
		ScreenWidth:     ScreenWidth,
		MaxScreenHeight: ScreenHeight,
		AspectRatio:     320.0 / 200.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "Motor", ID: ButtonMotor, DefaultKey: "M", DefaultPad: "A"},
			{Name: "Seek", ID: ButtonSeek, DefaultKey: "S", DefaultPad: "B"},
			{Name: "Read", ID: ButtonRead, DefaultKey: "R", DefaultPad: "X"},
			{Name: "Stop", ID: ButtonStop, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players: 1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         OptionBatchMix,
				Label:       "Batch Mixing",
				Description: "Mix drive sounds once per frame instead of per sample",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryInput,
			},
		},
		DataDirName:   drive.Name,
		CoreName:      drive.Name,
		CoreVersion:   drive.Version,
		SerializeSize: drive.SerializeSize(),
	}
}

// CreateEmulator creates a drive host running rom as its boot program.
// An empty rom runs the built-in demo.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	if len(rom) == 0 {
		rom = drive.DemoProgram()
	}
	return NewCore(rom, region, drive.MixPerSample)
}

// DetectRegion reports PAL. Boot programs carry no region marker, and the
// built-in demo is timed against PAL frames.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emucore.RegionPAL, false
}
