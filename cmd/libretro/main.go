package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emfx/adapter"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadB, BitID: adapter.ButtonMotor},
		{RetroID: libretro.JoypadA, BitID: adapter.ButtonSeek},
		{RetroID: libretro.JoypadY, BitID: adapter.ButtonRead},
		{RetroID: libretro.JoypadStart, BitID: adapter.ButtonStop},
	})
}

func main() {}
