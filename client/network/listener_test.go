package network

import (
	"strings"
	"testing"

	"github.com/cbodonnell/epochwars/client/events"
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/cbodonnell/epochwars/pkg/network"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListener(input string) (*Listener, *state.InMemoryStateManager, *queue.InMemoryQueue[events.Notification]) {
	stateManager := state.NewInMemoryStateManager()
	notifications := queue.NewInMemoryQueue[events.Notification](16)
	l := NewListener(NewListenerOptions{
		Reader:        strings.NewReader(input),
		StateManager:  stateManager,
		Notifications: notifications,
	})
	return l, stateManager, notifications
}

func drain(t *testing.T, q queue.Queue[events.Notification]) []events.Notification {
	t.Helper()
	items, err := q.ReadAllMessages()
	require.NoError(t, err)
	return items
}

func TestListener_Welcome(t *testing.T) {
	l, stateManager, notifications := newTestListener(
		`{"type":"welcome","player":2,"map_size":[8,6],"rejoin":"tok"}` + "\n",
	)

	err := l.Run()
	assert.True(t, network.IsConnectionClosedByServer(err), "got %v", err)

	g := stateManager.Get()
	require.NotNil(t, g.PlayerID)
	assert.Equal(t, uint32(2), *g.PlayerID)
	assert.Equal(t, gametypes.Size{Width: 8, Height: 6}, g.MapSize)
	assert.Equal(t, "tok", g.RejoinToken)

	assert.Equal(t, []events.Notification{events.UpdateGrid{}, events.Start{}}, drain(t, notifications))
}

func TestListener_WelcomeKeepsToken(t *testing.T) {
	l, stateManager, _ := newTestListener(
		`{"type":"welcome","player":1,"map_size":[5,5],"rejoin":"first"}` + "\n" +
			`{"type":"welcome","player":1,"map_size":[5,5],"rejoin":""}` + "\n",
	)
	l.Run()
	assert.Equal(t, "first", stateManager.Get().RejoinToken)
}

func TestListener_EndOfTurn(t *testing.T) {
	line := `{"type":"end_of_turn","scores":[{"name":"alice","score":4},{"name":"bob","score":1}],` +
		`"map":[{"pos":[1,2],"building":"house"},{"pos":[3,3],"building":"tower"}],` +
		`"turn":3,"excavate_result":null,"current_prices":{"house":2,"villa":6,"tower":9},"tower_count":1}`
	l, stateManager, notifications := newTestListener(line + "\n" + line + "\n")

	l.Run()

	g := stateManager.Get()
	assert.Equal(t, map[gametypes.Position]gametypes.Building{
		{X: 1, Y: 2}: gametypes.BuildingHouse,
		{X: 3, Y: 3}: gametypes.BuildingTower,
	}, g.Buildings)
	assert.Equal(t, []gametypes.ScoreEntry{{Name: "alice", Score: 4}, {Name: "bob", Score: 1}}, g.Scores)
	assert.Equal(t, uint32(3), g.Turn)
	assert.Equal(t, uint32(1), g.TowerCount)
	assert.Equal(t, uint32(9), g.Prices[gametypes.BuildingTower])

	turnNotifications := []events.Notification{
		events.UpdateGrid{},
		events.UpdateBuildings{},
		events.ClearBuilding{},
		events.ClearExcavate{},
	}
	assert.Equal(t, append(append([]events.Notification{}, turnNotifications...), turnNotifications...), drain(t, notifications))
}

func TestListener_EndOfTurnReplacesMap(t *testing.T) {
	l, stateManager, _ := newTestListener(
		`{"type":"end_of_turn","scores":[],"map":[{"pos":[0,0],"building":"villa"}],"turn":1,"current_prices":{},"tower_count":0}` + "\n" +
			`{"type":"end_of_turn","scores":[],"map":[{"pos":[4,4],"building":"house"}],"turn":2,"current_prices":{},"tower_count":0}` + "\n",
	)
	l.Run()
	assert.Equal(t, map[gametypes.Position]gametypes.Building{{X: 4, Y: 4}: gametypes.BuildingHouse}, stateManager.Get().Buildings)
}

func TestListener_TurnNeverDecreases(t *testing.T) {
	l, stateManager, _ := newTestListener(
		`{"type":"end_of_turn","scores":[],"map":[],"turn":5,"current_prices":{},"tower_count":0}` + "\n" +
			`{"type":"end_of_turn","scores":[],"map":[],"turn":4,"current_prices":{},"tower_count":2}` + "\n",
	)
	l.Run()
	g := stateManager.Get()
	assert.Equal(t, uint32(5), g.Turn)
	assert.Equal(t, uint32(2), g.TowerCount)
}

func TestListener_ExcavateResult(t *testing.T) {
	l, _, notifications := newTestListener(
		`{"type":"end_of_turn","scores":[],"map":[],"turn":1,"current_prices":{},"tower_count":0,` +
			`"excavate_result":{"depth":3,"building":"villa","pos":[2,1]}}` + "\n",
	)
	l.Run()

	got := drain(t, notifications)
	require.Len(t, got, 5)
	villa := gametypes.BuildingVilla
	assert.Equal(t, events.ExcavateResult{Depth: 3, Building: &villa, Position: gametypes.Position{X: 2, Y: 1}}, got[4])
}

func TestListener_Errors(t *testing.T) {
	villa := gametypes.BuildingVilla
	tests := []struct {
		name     string
		line     string
		want     []events.Notification
		wantStop bool
	}{
		{
			name: "no subtype",
			line: `{"type":"error","message":"nope"}`,
			want: []events.Notification{events.Message{Title: "Error", Body: "nope"}},
		},
		{
			name: "invalid build",
			line: `{"type":"error","message":"bad","subtype":"invalid_build"}`,
			want: []events.Notification{events.Message{Title: "Error", Body: "bad"}, events.ClearBuilding{}},
		},
		{
			name: "build action already used",
			line: `{"type":"error","message":"used","subtype":"build_action_already_used","pos":[3,4],"building":"villa"}`,
			want: []events.Notification{
				events.Message{Title: "Error", Body: "used"},
				events.ClearBuilding{},
				events.SetBuilding{Position: gametypes.Position{X: 3, Y: 4}, Building: villa},
			},
		},
		{
			name: "build action already used without placement",
			line: `{"type":"error","message":"used","subtype":"BuildActionAlreadyUsed"}`,
			want: []events.Notification{events.Message{Title: "Error", Body: "used"}, events.ClearBuilding{}},
		},
		{
			name:     "game already running",
			line:     `{"type":"error","message":"busy","subtype":"game_already_running"}`,
			want:     []events.Notification{events.Message{Title: "Error", Body: "busy"}, events.Quit{}},
			wantStop: true,
		},
		{
			name: "unknown subtype",
			line: `{"type":"error","message":"odd","subtype":"something_new"}`,
			want: []events.Notification{events.Message{Title: "Error", Body: "odd"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, notifications := newTestListener("")
			stop, err := l.HandleLine([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStop, stop)
			assert.Equal(t, tt.want, drain(t, notifications))
		})
	}
}

func TestListener_GameAlreadyRunningStopsReading(t *testing.T) {
	l, stateManager, _ := newTestListener(
		`{"type":"error","message":"busy","subtype":"game_already_running"}` + "\n" +
			`{"type":"welcome","player":1,"map_size":[5,5],"rejoin":"x"}` + "\n",
	)
	assert.NoError(t, l.Run())
	assert.Nil(t, stateManager.Get().PlayerID)
}

func TestListener_GameOver(t *testing.T) {
	l, _, notifications := newTestListener(`{"type":"game_over","message":"You won","score":42}` + "\n")
	l.Run()
	assert.Equal(t, []events.Notification{
		events.Message{Title: "Finish", Body: "You won\nScore: 42"},
		events.RequestQuit{},
	}, drain(t, notifications))
}

func TestListener_SkipsMalformedLines(t *testing.T) {
	l, stateManager, notifications := newTestListener(
		`{"type":"debug","message":"one"}` + "\n" +
			`{not json` + "\n" +
			`{"type":"teleport"}` + "\n" +
			"\n" +
			`{"type":"debug","message":"two"}` + "\n" +
			`{"type":"welcome","player":7,"map_size":[5,5],"rejoin":"t"}`,
	)

	err := l.Run()
	assert.True(t, network.IsConnectionClosedByServer(err), "got %v", err)
	require.NotNil(t, stateManager.Get().PlayerID)
	assert.Equal(t, uint32(7), *stateManager.Get().PlayerID)
	assert.Equal(t, []events.Notification{events.UpdateGrid{}, events.Start{}}, drain(t, notifications))
}

func TestListener_ClosedNotificationQueue(t *testing.T) {
	l, _, notifications := newTestListener(`{"type":"welcome","player":1,"map_size":[5,5],"rejoin":"t"}` + "\n")
	notifications.Close()
	err := l.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, queue.ErrQueueClosed)
}
