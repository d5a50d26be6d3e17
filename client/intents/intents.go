// Package intents defines the player actions sent from the presentation layer
// to the network layer.
package intents

import (
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
)

// Intent is a player action.
type Intent interface {
	intent()
}

// Build places a building.
type Build struct {
	Position gametypes.Position
	Building gametypes.Building
}

// Excavate probes a position.
type Excavate struct {
	Position gametypes.Position
}

// Skip ends the turn.
type Skip struct{}

// Quit ends the session.
type Quit struct{}

func (Build) intent()    {}
func (Excavate) intent() {}
func (Skip) intent()     {}
func (Quit) intent()     {}
