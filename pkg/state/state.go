package state

import (
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
)

// StateManager provides shared access to the game state.
// Implementations must be thread-safe. Functions passed to Read and Update
// run with the lock held and must not block, send on channels or do I/O.
type StateManager interface {
	// Read calls fn with the current game state under a read lock.
	Read(fn func(g *gametypes.GameState))
	// Update calls fn with the current game state under the write lock.
	Update(fn func(g *gametypes.GameState))
	// Get returns a copy of the current game state.
	Get() *gametypes.GameState
	// MapSize returns the current map size.
	MapSize() gametypes.Size
}
