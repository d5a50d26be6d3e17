package state

import (
	"sync"
	"testing"

	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryStateManager_Initial(t *testing.T) {
	m := NewInMemoryStateManager()
	g := m.Get()
	assert.Nil(t, g.PlayerID)
	assert.Empty(t, g.Buildings)
	assert.Empty(t, g.Scores)
	assert.Zero(t, g.Turn)
	assert.Empty(t, g.RejoinToken)
	assert.Equal(t, gametypes.DefaultMapSize, m.MapSize())
}

func TestInMemoryStateManager_GetReturnsCopy(t *testing.T) {
	m := NewInMemoryStateManager()
	m.Update(func(g *gametypes.GameState) {
		g.Buildings[gametypes.Position{X: 1, Y: 2}] = gametypes.BuildingTower
	})

	c := m.Get()
	c.Buildings[gametypes.Position{X: 3, Y: 3}] = gametypes.BuildingHouse

	m.Read(func(g *gametypes.GameState) {
		assert.Len(t, g.Buildings, 1)
	})
}

// A reader must see either the old or the new map, never a mix.
func TestInMemoryStateManager_ReplaceIsAtomic(t *testing.T) {
	m := NewInMemoryStateManager()

	oldMap := map[gametypes.Position]gametypes.Building{}
	newMap := map[gametypes.Position]gametypes.Building{}
	for i := uint32(0); i < 50; i++ {
		oldMap[gametypes.Position{X: i, Y: 0}] = gametypes.BuildingHouse
		newMap[gametypes.Position{X: i, Y: 1}] = gametypes.BuildingVilla
	}
	m.Update(func(g *gametypes.GameState) { g.ReplaceBuildings(oldMap) })

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				m.Read(func(g *gametypes.GameState) {
					if len(g.Buildings) != 50 {
						t.Errorf("observed %d buildings", len(g.Buildings))
						return
					}
					var olds, news int
					for pos := range g.Buildings {
						if pos.Y == 0 {
							olds++
						} else {
							news++
						}
					}
					if olds != 0 && news != 0 {
						t.Errorf("observed a mixed map: %d old, %d new", olds, news)
					}
				})
			}
		}()
	}

	for i := 0; i < 200; i++ {
		next := newMap
		if i%2 == 1 {
			next = oldMap
		}
		m.Update(func(g *gametypes.GameState) { g.ReplaceBuildings(next) })
	}
	close(stop)
	wg.Wait()
}
