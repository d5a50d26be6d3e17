package flow

// GameMode selects which scene the game shows.
type GameMode int

const (
	// GameModePlay shows the board while the session runs
	GameModePlay GameMode = iota
	// GameModeNetworkError shows the connection-lost screen until it is dismissed
	GameModeNetworkError
	// GameModeOver ends the window
	GameModeOver
)

func (m GameMode) String() string {
	switch m {
	case GameModePlay:
		return "Play"
	case GameModeNetworkError:
		return "Network Error"
	case GameModeOver:
		return "Over"
	}
	return "Unknown"
}
