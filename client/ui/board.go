// Package ui holds the presentation state shared by the frontends: the
// selected building, pending markers and queued messages.
package ui

import (
	"fmt"

	"github.com/cbodonnell/epochwars/client/events"
	"github.com/cbodonnell/epochwars/client/intents"
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
)

const TitleExcavation = "Excavation Results"

// Placement is a building at a position.
type Placement struct {
	Position gametypes.Position
	Building gametypes.Building
}

// Overlay is a message waiting to be dismissed by the player.
type Overlay struct {
	Title string
	Body  string
}

// Board tracks what the player has asked for but the server has not yet
// confirmed. It is owned by a single frontend goroutine.
type Board struct {
	started         bool
	selected        gametypes.Building
	pendingBuild    *Placement
	pendingExcavate *gametypes.Position
	overlays        []Overlay
	quitRequested   bool
	quit            bool
	gridDirty       bool
	buildingsDirty  bool
	turnEnded       bool
}

func NewBoard() *Board {
	return &Board{
		selected: gametypes.BuildingHouse,
	}
}

// Apply updates the board for a notification from the network layer.
func (b *Board) Apply(n events.Notification) {
	switch n := n.(type) {
	case events.Start:
		b.started = true
	case events.Message:
		b.overlays = append(b.overlays, Overlay{Title: n.Title, Body: n.Body})
	case events.ExcavateResult:
		b.overlays = append(b.overlays, Overlay{Title: TitleExcavation, Body: ExcavateText(n)})
	case events.ClearExcavate:
		b.pendingExcavate = nil
	case events.ClearBuilding:
		b.pendingBuild = nil
	case events.SetBuilding:
		b.pendingBuild = &Placement{Position: n.Position, Building: n.Building}
	case events.RequestQuit:
		b.quitRequested = true
	case events.Quit:
		b.quit = true
	case events.UpdateGrid:
		b.gridDirty = true
	case events.UpdateBuildings:
		b.buildingsDirty = true
		b.turnEnded = true
	}
}

func (b *Board) Started() bool {
	return b.started
}

func (b *Board) Selected() gametypes.Building {
	return b.selected
}

func (b *Board) Select(building gametypes.Building) {
	if building.Valid() {
		b.selected = building
	}
}

func (b *Board) PendingBuild() (Placement, bool) {
	if b.pendingBuild == nil {
		return Placement{}, false
	}
	return *b.pendingBuild, true
}

func (b *Board) PendingExcavate() (gametypes.Position, bool) {
	if b.pendingExcavate == nil {
		return gametypes.Position{}, false
	}
	return *b.pendingExcavate, true
}

// Build returns the intent for placing the selected building at pos and marks
// it as pending. ok is false when the footprint does not fit the map.
func (b *Board) Build(pos gametypes.Position, size gametypes.Size) (intent intents.Intent, ok bool) {
	if !b.selected.Fits(pos, size) {
		return nil, false
	}
	b.pendingBuild = &Placement{Position: pos, Building: b.selected}
	return intents.Build{Position: pos, Building: b.selected}, true
}

// Excavate returns the intent for excavating pos and marks it as pending.
func (b *Board) Excavate(pos gametypes.Position, size gametypes.Size) (intent intents.Intent, ok bool) {
	if !size.Contains(pos) {
		return nil, false
	}
	b.pendingExcavate = &pos
	return intents.Excavate{Position: pos}, true
}

// Overlay returns the oldest message that has not been dismissed.
func (b *Board) Overlay() (Overlay, bool) {
	if len(b.overlays) == 0 {
		return Overlay{}, false
	}
	return b.overlays[0], true
}

func (b *Board) DismissOverlay() {
	if len(b.overlays) > 0 {
		b.overlays = b.overlays[1:]
	}
}

// ShouldQuit reports whether the frontend should shut down: immediately after
// a quit, or after a requested quit once every message has been dismissed.
func (b *Board) ShouldQuit() bool {
	return b.quit || (b.quitRequested && len(b.overlays) == 0)
}

// TakeDirty reports and resets whether the grid or the buildings must be
// redrawn from the game state.
func (b *Board) TakeDirty() (grid bool, buildings bool) {
	grid, buildings = b.gridDirty, b.buildingsDirty
	b.gridDirty, b.buildingsDirty = false, false
	return grid, buildings
}

// TakeTurnEnded reports and resets whether a turn ended since the last call.
func (b *Board) TakeTurnEnded() bool {
	ended := b.turnEnded
	b.turnEnded = false
	return ended
}

// ExcavateText describes the result of an excavation.
func ExcavateText(result events.ExcavateResult) string {
	if result.Building == nil {
		return fmt.Sprintf("Found nothing at position %s.", result.Position)
	}
	return fmt.Sprintf("Found %s at depth %d on position %s.", result.Building.Title(), result.Depth, result.Position)
}

// ScoreLines formats the score board in server order.
func ScoreLines(scores []gametypes.ScoreEntry) []string {
	lines := make([]string, 0, len(scores))
	for _, score := range scores {
		lines = append(lines, fmt.Sprintf("%3d: %s", score.Score, score.Name))
	}
	return lines
}
