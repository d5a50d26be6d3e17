package state

import (
	"sync"

	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
)

// InMemoryStateManager is the single game state of a client session.
type InMemoryStateManager struct {
	lock      sync.RWMutex
	gameState *gametypes.GameState
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		gameState: gametypes.NewGameState(),
	}
}

func (m *InMemoryStateManager) Read(fn func(g *gametypes.GameState)) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	fn(m.gameState)
}

func (m *InMemoryStateManager) Update(fn func(g *gametypes.GameState)) {
	m.lock.Lock()
	defer m.lock.Unlock()
	fn(m.gameState)
}

func (m *InMemoryStateManager) Get() *gametypes.GameState {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.gameState.Copy()
}

func (m *InMemoryStateManager) MapSize() gametypes.Size {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.gameState.MapSize
}
