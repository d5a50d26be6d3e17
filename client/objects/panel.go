package objects

import (
	"fmt"

	"github.com/cbodonnell/epochwars/client/fonts"
	"github.com/cbodonnell/epochwars/client/ui"
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const panelMargin = 12

// PanelObject draws the side panel: turn, prices, scores and the building palette.
type PanelObject struct {
	*BaseObject

	view *View
}

func NewPanelObject(id string, view *View) *PanelObject {
	return &PanelObject{
		BaseObject: NewBaseObject(id, nil),
		view:       view,
	}
}

func (o *PanelObject) Draw(screen *ebiten.Image) {
	f := fonts.TTFSmallFont
	lh := lineHeight(f)
	y := panelMargin

	line := func(s string) {
		drawText(screen, s, f, panelMargin, y, ColorText)
		y += lh
	}

	if g := o.view.State; g != nil {
		line(fmt.Sprintf("Turn %d", g.Turn))
		line(fmt.Sprintf("Towers %d", g.TowerCount))
		y += lh / 2
		for _, building := range gametypes.Buildings {
			if price, ok := g.Prices[building]; ok {
				line(fmt.Sprintf("%s: %d", building.Title(), price))
			}
		}
		y += lh / 2
		for _, s := range ui.ScoreLines(g.Scores) {
			line(s)
		}
	}

	o.drawPalette(screen)
}

func (o *PanelObject) drawPalette(screen *ebiten.Image) {
	layout := o.view.Layout
	size := layout.PaletteSize()
	inset := size / 10
	top := layout.ScreenHeight - size
	for i, building := range gametypes.Buildings {
		x := i * size
		if building == o.view.Board.Selected() {
			vector.DrawFilledRect(screen, float32(x+inset/2), float32(top+inset/2), float32(size-inset), float32(size-inset), ColorSelected, false)
		}
		vector.DrawFilledRect(screen, float32(x+inset), float32(top+inset), float32(size-2*inset), float32(size-2*inset), BuildingColor(building, 255), false)
		drawText(screen, fmt.Sprintf("%d %s", i+1, building.Title()), fonts.TTFSmallFont, x+inset+2, top+inset+2, ColorText)
	}
}
