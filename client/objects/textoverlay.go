package objects

import (
	"image/color"
	"strings"

	"github.com/cbodonnell/epochwars/client/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// TextOverlayObject draws text centered on the screen, one line per line of text.
type TextOverlayObject struct {
	*BaseObject

	text string
}

func NewTextOverlayObject(id string, text string) *TextOverlayObject {
	return &TextOverlayObject{
		BaseObject: NewBaseObject(id, &NewBaseObjectOpts{ZIndex: 10}),
		text:       text,
	}
}

func (o *TextOverlayObject) SetText(text string) {
	o.text = text
}

func (o *TextOverlayObject) Draw(screen *ebiten.Image) {
	if o.text == "" {
		return
	}
	f := fonts.MPlusTitleFont
	lines := strings.Split(strings.ToUpper(o.text), "\n")
	lh := lineHeight(f)
	top := float64(screen.Bounds().Dy())/2 - float64(lh*len(lines))/2
	for i, line := range lines {
		bounds, _ := font.BoundString(f, line)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(screen.Bounds().Dx())/2-float64(bounds.Max.X>>6)/2, top+float64(i*lh))
		op.ColorScale.ScaleWithColor(color.White)
		text.DrawWithOptions(screen, line, f, op)
	}
}
