package objects

import (
	"image/color"
	"strings"

	"github.com/cbodonnell/epochwars/client/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colorDim = color.RGBA{0, 0, 0, 160}
	colorBox = color.RGBA{30, 30, 30, 240}
)

// MessageBoxObject draws the oldest undismissed message over everything else.
type MessageBoxObject struct {
	*BaseObject

	view *View
}

func NewMessageBoxObject(id string, view *View) *MessageBoxObject {
	return &MessageBoxObject{
		BaseObject: NewBaseObject(id, &NewBaseObjectOpts{ZIndex: 100}),
		view:       view,
	}
}

func (o *MessageBoxObject) Draw(screen *ebiten.Image) {
	overlay, ok := o.view.Board.Overlay()
	if !ok {
		return
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	vector.DrawFilledRect(screen, 0, 0, float32(sw), float32(sh), colorDim, false)

	title, body := fonts.MPlusTitleFont, fonts.TTFNormalFont
	lines := strings.Split(overlay.Body, "\n")
	w, h := sw*2/3, lineHeight(title)+lineHeight(body)*(len(lines)+2)+2*panelMargin
	x, y := (sw-w)/2, (sh-h)/2
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), colorBox, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, ColorText, false)

	ty := y + panelMargin
	drawText(screen, overlay.Title, title, x+panelMargin, ty, ColorText)
	ty += lineHeight(title)
	for _, line := range lines {
		drawText(screen, line, body, x+panelMargin, ty, ColorText)
		ty += lineHeight(body)
	}
	ty += lineHeight(body)
	drawText(screen, "Click or press Enter", body, x+panelMargin, ty, color.RGBA{180, 180, 180, 255})
}
