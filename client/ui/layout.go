package ui

import (
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
)

// Layout maps between screen pixels and map cells. The map is drawn as large
// as possible right of a side panel, centered vertically.
type Layout struct {
	ScreenWidth  int
	ScreenHeight int
	PanelWidth   int
	MapSize      gametypes.Size
}

// CellSize is the side length of one cell in pixels.
func (l Layout) CellSize() int {
	if l.MapSize.Width == 0 || l.MapSize.Height == 0 {
		return 0
	}
	w := (l.ScreenWidth - l.PanelWidth) / int(l.MapSize.Width)
	h := l.ScreenHeight / int(l.MapSize.Height)
	if w < h {
		return w
	}
	return h
}

// Drawable reports whether every cell gets at least one pixel. When it does
// not, the map is larger than the screen and is not drawn.
func (l Layout) Drawable() bool {
	return l.CellSize() > 0
}

// Origin is the screen position of the top left corner of cell (0, 0).
func (l Layout) Origin() (x int, y int) {
	s := l.CellSize()
	x = l.ScreenWidth - s*int(l.MapSize.Width)
	y = (l.ScreenHeight - s*int(l.MapSize.Height)) / 2
	return x, y
}

// CellAt returns the cell under the screen position. ok is false outside the map.
func (l Layout) CellAt(x, y int) (pos gametypes.Position, ok bool) {
	s := l.CellSize()
	if s == 0 {
		return gametypes.Position{}, false
	}
	ox, oy := l.Origin()
	if x < ox || y < oy {
		return gametypes.Position{}, false
	}
	gx, gy := (x-ox)/s, (y-oy)/s
	pos = gametypes.Position{X: uint32(gx), Y: uint32(gy)}
	if !l.MapSize.Contains(pos) {
		return gametypes.Position{}, false
	}
	return pos, true
}

// FootprintRect returns the screen rectangle covered by a building at pos.
func (l Layout) FootprintRect(pos gametypes.Position, building gametypes.Building) (x, y, w, h int) {
	s := l.CellSize()
	ox, oy := l.Origin()
	r := int(building.Radius())
	x = ox + s*(int(pos.X)-r)
	y = oy + s*(int(pos.Y)-r)
	w = s * (1 + 2*r)
	return x, y, w, w
}

// CellRect returns the screen rectangle of a single cell.
func (l Layout) CellRect(pos gametypes.Position) (x, y, w, h int) {
	return l.FootprintRect(pos, gametypes.BuildingHouse)
}

// PaletteSlot returns the palette entry under the screen position. Palette
// entries sit in a row at the bottom of the side panel.
func (l Layout) PaletteSlot(x, y int) (gametypes.Building, bool) {
	size := l.PaletteSize()
	top := l.ScreenHeight - size
	if x < 0 || y < top || y >= l.ScreenHeight {
		return 0, false
	}
	i := x / size
	if i >= len(gametypes.Buildings) {
		return 0, false
	}
	return gametypes.Buildings[i], true
}

// PaletteSize is the side length of one palette entry.
func (l Layout) PaletteSize() int {
	return l.PanelWidth / len(gametypes.Buildings)
}
