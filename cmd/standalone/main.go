//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/emfx/adapter"
)

func main() {
	programPath := flag.String("program", "", "path to a Z80 boot program (opens UI if not provided)")
	regionFlag := flag.String("region", "pal", "region: ntsc or pal")
	batch := flag.Bool("batch", false, "mix drive sounds once per frame")
	flag.Parse()

	factory := &adapter.Factory{}

	if *programPath != "" {
		options := map[string]string{}
		if *batch {
			options[adapter.OptionBatchMix] = "true"
		} else {
			options[adapter.OptionBatchMix] = "false"
		}
		if err := standalone.RunDirect(factory, *programPath, *regionFlag, options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
