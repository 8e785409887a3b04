package adapter

import (
	"fmt"
	"image"
	"image/color"

	"github.com/user-none/emfx/drive"
	"github.com/user-none/emfx/fx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Status screen size.
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
)

var (
	colorBackground = color.RGBA{0x10, 0x14, 0x1c, 0xff}
	colorText       = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorTrack      = color.RGBA{0x2a, 0x30, 0x3c, 0xff}
	colorOnce       = color.RGBA{0xe0, 0xa0, 0x30, 0xff}
	colorLooped     = color.RGBA{0x40, 0xc0, 0x70, 0xff}
	colorMissing    = color.RGBA{0x80, 0x30, 0x30, 0xff}
)

// screen is a software-rendered status display for frontends that take a
// raw framebuffer.
type screen struct {
	img  *image.RGBA
	text font.Drawer
}

func newScreen() *screen {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	return &screen{
		img: img,
		text: font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(colorText),
			Face: basicfont.Face7x13,
		},
	}
}

// draw renders the drive state and one progress row per sound.
func (s *screen) draw(m *drive.Machine, frame uint64) {
	s.fill(s.img.Bounds(), colorBackground)

	header := "DRIVE  motor off"
	if m.MotorOn() {
		header = "DRIVE  motor on"
	}
	if !m.SoundsEnabled() {
		header += "  [no sounds]"
	}
	s.print(header, marginX, 8)
	s.print(fmt.Sprintf("frame %d", frame), marginX, 20)

	for i, c := range m.Status() {
		y := rowTop + i*rowHeight
		s.print(c.String(), marginX, y)
		bar := image.Rect(marginX, y+barOffsetY, marginX+barWidth, y+barOffsetY+barHeight)
		s.fill(bar, colorTrack)
		if !c.Ready {
			s.fill(bar, colorMissing)
			continue
		}
		if c.State == fx.Off || c.Total == 0 {
			continue
		}
		clr := colorOnce
		if c.State == fx.PlayingLooped {
			clr = colorLooped
		}
		bar.Max.X = marginX + barWidth*c.Cursor/c.Total
		s.fill(bar, clr)
	}
}

// print draws str with its top-left corner at x, y.
func (s *screen) print(str string, x, y int) {
	s.text.Dot = fixed.P(x, y+basicfont.Face7x13.Ascent)
	s.text.DrawString(str)
}

func (s *screen) fill(r image.Rectangle, clr color.Color) {
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(clr), image.Point{}, draw.Src)
}
