package objects

import (
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GridObject draws the map: cells, confirmed buildings and the player's
// pending markers.
type GridObject struct {
	*BaseObject

	view *View
}

func NewGridObject(id string, view *View) *GridObject {
	return &GridObject{
		BaseObject: NewBaseObject(id, nil),
		view:       view,
	}
}

func (o *GridObject) Draw(screen *ebiten.Image) {
	layout := o.view.Layout
	if !layout.Drawable() {
		return
	}
	excavation, excavating := o.view.Board.PendingExcavate()

	for y := uint32(0); y < layout.MapSize.Height; y++ {
		for x := uint32(0); x < layout.MapSize.Width; x++ {
			pos := gametypes.Position{X: x, Y: y}
			clr := ColorCell
			if excavating && pos == excavation {
				clr = ColorExcavation
			}
			cx, cy, s, _ := layout.CellRect(pos)
			vector.DrawFilledRect(screen, float32(cx), float32(cy), float32(s), float32(s), clr, false)
			vector.StrokeRect(screen, float32(cx), float32(cy), float32(s), float32(s), 1, ColorCellBorder, false)
		}
	}

	if o.view.State != nil {
		for pos, building := range o.view.State.Buildings {
			o.drawBuilding(screen, pos, building, 255)
		}
	}

	if pending, ok := o.view.Board.PendingBuild(); ok {
		o.drawBuilding(screen, pending.Position, pending.Building, 127)
	}

	if hover := o.view.Hover; hover != nil {
		selected := o.view.Board.Selected()
		if selected.Fits(*hover, layout.MapSize) {
			x, y, w, h := layout.FootprintRect(*hover, selected)
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), ColorHover, false)
		}
	}
}

func (o *GridObject) drawBuilding(screen *ebiten.Image, pos gametypes.Position, building gametypes.Building, alpha uint8) {
	x, y, w, h := o.view.Layout.FootprintRect(pos, building)
	inset := float32(w) / 8
	vector.DrawFilledRect(screen, float32(x)+inset, float32(y)+inset, float32(w)-2*inset, float32(h)-2*inset, BuildingColor(building, alpha), false)
	if building == gametypes.BuildingTower {
		// roof
		vector.DrawFilledRect(screen, float32(x)+float32(w)*3/8, float32(y)+inset/2, float32(w)/4, inset, BuildingColor(building, alpha), false)
	}
}
