package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emfx/bridge/ebiten"
	"github.com/user-none/emfx/cli"
	"github.com/user-none/emfx/drive"
)

func main() {
	regionFlag := flag.String("region", "pal", "region: ntsc or pal")
	modeFlag := flag.String("mode", "sample", "mix mode: batch or sample")
	programFlag := flag.String("program", "idle", "boot program: demo, idle, or path to a Z80 binary")
	volume := flag.Float64("volume", 1.0, "playback volume (0.0 - 1.0)")
	flag.Parse()

	region, ok := drive.ParseRegion(strings.ToLower(*regionFlag))
	if !ok {
		log.Fatalf("Invalid region: %s (use ntsc or pal)", *regionFlag)
	}

	mode, ok := drive.ParseMixMode(strings.ToLower(*modeFlag))
	if !ok {
		log.Fatalf("Invalid mode: %s (use batch or sample)", *modeFlag)
	}

	program, ok := drive.BuiltinProgram(*programFlag)
	if !ok {
		data, err := os.ReadFile(*programFlag)
		if err != nil {
			log.Fatalf("Failed to load program: %v", err)
		}
		program = data
	}

	m, err := drive.NewMachine(program, region, mode)
	if err != nil {
		log.Fatalf("Failed to initialize machine: %v", err)
	}

	ebiten.SetWindowSize(emubridge.ScreenWidth*2, emubridge.ScreenHeight*2)
	ebiten.SetWindowTitle(drive.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	runner := cli.NewRunner(m, *volume)
	defer m.Close()
	defer runner.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
