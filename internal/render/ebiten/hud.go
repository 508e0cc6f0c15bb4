package ebiten

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	hudBackground = color.RGBA{10, 4, 20, 190}
	hudText       = color.RGBA{235, 225, 200, 255}
	hudWarning    = color.RGBA{240, 140, 110, 255}
)

// hud draws status lines in a translucent box at the top-left corner.
type hud struct {
	panel *ebiten.Image
}

func (h *hud) draw(screen *ebiten.Image, lines []string, scale float64) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	pad := 6

	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}
	w, ht := width+2*pad, lineHeight*len(lines)+2*pad

	if h.panel == nil || h.panel.Bounds().Dx() != w || h.panel.Bounds().Dy() != ht {
		if h.panel != nil {
			h.panel.Deallocate()
		}
		h.panel = ebiten.NewImage(w, ht)
	}
	h.panel.Clear()
	vector.DrawFilledRect(h.panel, 0, 0, float32(w), float32(ht), hudBackground, false)

	y := pad + face.Ascent
	for _, l := range lines {
		clr := hudText
		if strings.HasPrefix(l, "blocked") {
			clr = hudWarning
		}
		ebitext.Draw(h.panel, l, face, pad, y, clr)
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(8*scale, 8*scale)
	screen.DrawImage(h.panel, op)
}
