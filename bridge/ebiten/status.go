// Package ebiten draws the drive sound status with Ebiten.
package ebiten

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/user-none/emfx/fx"
	"github.com/user-none/emfx/ui"
)

// Native layout size. Ebiten scales it to the window.
const (
	ScreenWidth  = 320
	ScreenHeight = 200
)

const (
	marginX    = 12
	rowTop     = 40
	rowHeight  = 34
	barOffsetY = 16
	barHeight  = 8
	barWidth   = ScreenWidth - 2*marginX
	meterTop   = rowTop + fx.NumSlots*rowHeight + 4
)

var (
	colorBackground = color.RGBA{0x10, 0x14, 0x1c, 0xff}
	colorTrack      = color.RGBA{0x2a, 0x30, 0x3c, 0xff}
	colorOnce       = color.RGBA{0xe0, 0xa0, 0x30, 0xff}
	colorLooped     = color.RGBA{0x40, 0xc0, 0x70, 0xff}
	colorMissing    = color.RGBA{0x80, 0x30, 0x30, 0xff}
	colorMeter      = color.RGBA{0x50, 0x90, 0xe0, 0xff}
)

// StatusView renders a ui.Status: one row per sound showing its state and
// play position, plus output level meters.
type StatusView struct{}

// NewStatusView creates a status view.
func NewStatusView() *StatusView {
	return &StatusView{}
}

// Layout implements the layout half of ebiten.Game.
func (v *StatusView) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Draw renders s onto screen.
func (v *StatusView) Draw(screen *ebiten.Image, s ui.Status, paused bool) {
	screen.Fill(colorBackground)

	header := "DRIVE  motor off"
	if s.MotorOn {
		header = "DRIVE  motor on"
	}
	if paused {
		header += "  [paused]"
	}
	if !s.SoundsEnabled {
		header += "  [no sounds]"
	}
	ebitenutil.DebugPrintAt(screen, header, marginX, 8)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("frame %d", s.Frame), marginX, 20)

	for i, c := range s.Clips {
		y := rowTop + i*rowHeight
		ebitenutil.DebugPrintAt(screen, c.String(), marginX, y)
		fillRect(screen, marginX, y+barOffsetY, barWidth, barHeight, colorTrack)
		if !c.Ready {
			fillRect(screen, marginX, y+barOffsetY, barWidth, barHeight, colorMissing)
			continue
		}
		if c.State == fx.Off || c.Total == 0 {
			continue
		}
		w := barWidth * c.Cursor / c.Total
		clr := colorOnce
		if c.State == fx.PlayingLooped {
			clr = colorLooped
		}
		fillRect(screen, marginX, y+barOffsetY, w, barHeight, clr)
	}

	drawMeter(screen, "L", s.PeakLeft, meterTop)
	drawMeter(screen, "R", s.PeakRight, meterTop+12)

	ebitenutil.DebugPrintAt(screen, "M motor  S seek  R read  X stop  P pause  F5/F9 state", marginX, ScreenHeight-28)
	if s.Message != "" {
		ebitenutil.DebugPrintAt(screen, s.Message, marginX, ScreenHeight-16)
	}
}

func drawMeter(screen *ebiten.Image, label string, peak, y int) {
	ebitenutil.DebugPrintAt(screen, label, marginX, y-4)
	x := marginX + 12
	w := barWidth - 12
	fillRect(screen, x, y, w, barHeight, colorTrack)
	fillRect(screen, x, y, w*peak/32768, barHeight, colorMeter)
}

func fillRect(dst *ebiten.Image, x, y, w, h int, clr color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	dst.SubImage(image.Rect(x, y, x+w, y+h)).(*ebiten.Image).Fill(clr)
}
