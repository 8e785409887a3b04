package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/user-none/emfx/drive"
	"github.com/user-none/emfx/fx"
	"github.com/user-none/emfx/render"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6))
	styleSlot   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3))
	styleOff    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
	stylePlay   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2))
	styleWarn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1))
	styleDetail = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4))
)

func main() {
	outPath := flag.String("o", "drive.wav", "output WAV file")
	frames := flag.Int("frames", 250, "number of frames to render")
	regionFlag := flag.String("region", "pal", "region: ntsc or pal")
	modeFlag := flag.String("mode", "batch", "mix mode: batch or sample")
	programFlag := flag.String("program", "demo", "boot program: demo, idle, or path to a Z80 binary")
	eventsFlag := flag.String("events", "", "manual sound commands, e.g. 0:motor:looped,50:seek:once")
	flag.Parse()

	region, ok := drive.ParseRegion(strings.ToLower(*regionFlag))
	if !ok {
		log.Fatalf("Invalid region: %s (use ntsc or pal)", *regionFlag)
	}
	mode, ok := drive.ParseMixMode(strings.ToLower(*modeFlag))
	if !ok {
		log.Fatalf("Invalid mode: %s (use batch or sample)", *modeFlag)
	}

	fs := afero.NewOsFs()

	program, ok := drive.BuiltinProgram(*programFlag)
	if !ok {
		data, err := afero.ReadFile(fs, *programFlag)
		if err != nil {
			log.Fatalf("Failed to load program: %v", err)
		}
		program = data
	}

	events, err := render.ParseEvents(*eventsFlag)
	if err != nil {
		log.Fatalf("Invalid events: %v", err)
	}

	m, err := drive.NewMachine(program, region, mode)
	if err != nil {
		log.Fatalf("Failed to initialize machine: %v", err)
	}
	defer m.Close()

	soundsEnabled := m.SoundsEnabled()
	sum, err := render.New(fs).Render(m, *frames, events, *outPath)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	fmt.Print(summary(sum, region, soundsEnabled))
}

func summary(sum render.Summary, region drive.Region, soundsEnabled bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styleTitle.Render("rendered"), sum.Path)
	fmt.Fprintln(&b, styleDetail.Render(fmt.Sprintf("%d frames, %d samples at %d Hz, %s, %s mix, peak %d",
		sum.Frames, sum.Samples, sum.SampleRate, region, sum.Mode, sum.Peak)))
	if !soundsEnabled {
		fmt.Fprintln(&b, styleWarn.Render("drive sounds unavailable"))
	}

	for _, s := range sum.Slots {
		state := styleOff.Render(s.Final.State.String())
		if s.Final.State != fx.Off {
			state = stylePlay.Render(s.Final.State.String())
		}
		fmt.Fprintf(&b, "%s active %d frames, final %s at %d/%d\n",
			styleSlot.Render(fmt.Sprintf("%-6s", s.Slot)), s.ActiveFrames, state, s.Final.Cursor, s.Final.Total)
	}
	return b.String()
}
