// Package events defines the notifications sent from the network layer to the
// presentation layer.
package events

import (
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
)

// Notification is a message for the presentation layer.
type Notification interface {
	notification()
}

// Start marks the session as running.
type Start struct{}

// Message asks the presentation layer to show a message to the player.
type Message struct {
	Title string
	Body  string
}

// ExcavateResult reports what the player's excavation found. Building is nil
// when nothing was found.
type ExcavateResult struct {
	Depth    int32
	Building *gametypes.Building
	Position gametypes.Position
}

// ClearExcavate removes the pending excavation marker.
type ClearExcavate struct{}

// ClearBuilding removes the pending building marker.
type ClearBuilding struct{}

// SetBuilding replaces the pending building marker.
type SetBuilding struct {
	Position gametypes.Position
	Building gametypes.Building
}

// RequestQuit asks the presentation layer to shut down once the player has
// seen the pending messages.
type RequestQuit struct{}

// Quit asks the presentation layer to shut down now.
type Quit struct{}

// UpdateGrid asks the presentation layer to rebuild its grid from the game state.
type UpdateGrid struct{}

// UpdateBuildings asks the presentation layer to rebuild its building overlay.
type UpdateBuildings struct{}

func (Start) notification()           {}
func (Message) notification()         {}
func (ExcavateResult) notification()  {}
func (ClearExcavate) notification()   {}
func (ClearBuilding) notification()   {}
func (SetBuilding) notification()     {}
func (RequestQuit) notification()     {}
func (Quit) notification()            {}
func (UpdateGrid) notification()      {}
func (UpdateBuildings) notification() {}
