package types

// DefaultMapSize is the map size assumed until the server welcomes the player.
var DefaultMapSize = Size{Width: 5, Height: 5}

type GameState struct {
	// PlayerID is assigned by the server on welcome; nil before that
	PlayerID *uint32
	// MapSize is the size of the grid
	MapSize Size
	// Buildings maps positions to the building placed there as of the last end of turn
	Buildings map[Position]Building
	// Scores is the score board in server order
	Scores []ScoreEntry
	// Turn is the current turn number
	Turn uint32
	// Prices maps buildings to their current price
	Prices map[Building]uint32
	// TowerCount is the number of towers on the map
	TowerCount uint32
	// RejoinToken resumes this player's session on a later connection
	RejoinToken string
}

func NewGameState() *GameState {
	return &GameState{
		MapSize:   DefaultMapSize,
		Buildings: make(map[Position]Building),
		Scores:    make([]ScoreEntry, 0),
		Prices:    make(map[Building]uint32),
	}
}

// Copy returns a deep copy of the game state.
func (g *GameState) Copy() *GameState {
	newGameState := &GameState{
		MapSize:     g.MapSize,
		Buildings:   make(map[Position]Building, len(g.Buildings)),
		Scores:      make([]ScoreEntry, len(g.Scores)),
		Turn:        g.Turn,
		Prices:      make(map[Building]uint32, len(g.Prices)),
		TowerCount:  g.TowerCount,
		RejoinToken: g.RejoinToken,
	}
	if g.PlayerID != nil {
		id := *g.PlayerID
		newGameState.PlayerID = &id
	}
	for pos, building := range g.Buildings {
		newGameState.Buildings[pos] = building
	}
	copy(newGameState.Scores, g.Scores)
	for building, price := range g.Prices {
		newGameState.Prices[building] = price
	}
	return newGameState
}

// ReplaceBuildings clears the map and installs the given placements.
func (g *GameState) ReplaceBuildings(placements map[Position]Building) {
	for pos := range g.Buildings {
		delete(g.Buildings, pos)
	}
	for pos, building := range placements {
		g.Buildings[pos] = building
	}
}
