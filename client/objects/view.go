package objects

import (
	"image/color"

	"github.com/cbodonnell/epochwars/client/ui"
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// View is the presentation state the game objects read every frame. It is
// owned by the game scene.
type View struct {
	Board  *ui.Board
	Layout ui.Layout
	// State is a snapshot of the game state taken when the network layer
	// reported a change
	State *gametypes.GameState
	// Hover is the cell under the cursor, if any
	Hover *gametypes.Position
}

var (
	ColorBackground = color.RGBA{50, 50, 50, 255}
	ColorCell       = color.RGBA{96, 128, 72, 255}
	ColorCellBorder = color.RGBA{70, 96, 52, 255}
	ColorExcavation = color.RGBA{120, 90, 50, 255}
	ColorHover      = color.RGBA{255, 255, 255, 48}
	ColorSelected   = color.RGBA{255, 0, 0, 255}
	ColorText       = color.White
)

// BuildingColor returns the fill color of a building.
func BuildingColor(building gametypes.Building, alpha uint8) color.Color {
	switch building {
	case gametypes.BuildingHouse:
		return color.RGBA{200, 130, 70, alpha}
	case gametypes.BuildingVilla:
		return color.RGBA{170, 70, 160, alpha}
	case gametypes.BuildingTower:
		return color.RGBA{90, 110, 210, alpha}
	default:
		return color.RGBA{128, 128, 128, alpha}
	}
}

// drawText draws s with its top left corner at x, y.
func drawText(screen *ebiten.Image, s string, f font.Face, x, y int, clr color.Color) {
	text.Draw(screen, s, f, x, y+f.Metrics().Ascent.Ceil(), clr)
}

func lineHeight(f font.Face) int {
	return f.Metrics().Height.Ceil()
}
