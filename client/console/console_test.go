package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/epochwars/client/events"
	"github.com/cbodonnell/epochwars/client/intents"
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    intents.Intent
		wantErr bool
	}{
		{"build", "build 3 4 villa", intents.Build{Position: gametypes.Position{X: 3, Y: 4}, Building: gametypes.BuildingVilla}, false},
		{"build short", "b 0 1 TOWER", intents.Build{Position: gametypes.Position{X: 0, Y: 1}, Building: gametypes.BuildingTower}, false},
		{"build unknown building", "build 1 1 castle", nil, true},
		{"build missing building", "build 1 1", nil, true},
		{"build negative", "build -1 1 house", nil, true},
		{"excavate", "  excavate 2 0 ", intents.Excavate{Position: gametypes.Position{X: 2, Y: 0}}, false},
		{"excavate bad y", "excavate 2 y", nil, true},
		{"skip", "skip", intents.Skip{}, false},
		{"end", "END", intents.Skip{}, false},
		{"quit", "quit", intents.Quit{}, false},
		{"unknown", "dance", nil, true},
		{"empty", "   ", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntent(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntent_State(t *testing.T) {
	_, err := ParseIntent("state")
	assert.ErrorIs(t, err, ErrShowState)
}

func TestDescribe(t *testing.T) {
	villa := gametypes.BuildingVilla
	assert.Equal(t, "[Error] nope", Describe(events.Message{Title: "Error", Body: "nope"}))
	assert.Equal(t, "[Excavation Results] Found Villa at depth 1 on position 2, 2.", Describe(events.ExcavateResult{
		Depth:    1,
		Building: &villa,
		Position: gametypes.Position{X: 2, Y: 2},
	}))
	assert.Equal(t, "", Describe(events.UpdateGrid{}))
}

func TestFormatState(t *testing.T) {
	g := gametypes.NewGameState()
	g.MapSize = gametypes.Size{Width: 3, Height: 2}
	g.Turn = 4
	g.TowerCount = 1
	g.Buildings[gametypes.Position{X: 0, Y: 0}] = gametypes.BuildingHouse
	g.Buildings[gametypes.Position{X: 2, Y: 1}] = gametypes.BuildingTower
	g.Prices[gametypes.BuildingHouse] = 2
	g.Scores = []gametypes.ScoreEntry{{Name: "alice", Score: 5}}

	assert.Equal(t, "Turn 4, towers 1\nh..\n..t\nHouse: 2\n  5: alice\n", FormatState(g))
}

func TestFormatState_HugeMap(t *testing.T) {
	tests := []struct {
		name string
		size gametypes.Size
	}{
		{"max", gametypes.Size{Width: 4294967295, Height: 4294967295}},
		{"wide", gametypes.Size{Width: MaxRenderedMapSize + 1, Height: 1}},
		{"tall", gametypes.Size{Width: 1, Height: MaxRenderedMapSize + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gametypes.NewGameState()
			g.MapSize = tt.size
			g.Buildings[gametypes.Position{X: 0, Y: 0}] = gametypes.BuildingVilla

			got := FormatState(g)
			assert.Contains(t, got, "is too large to display, 1 buildings")
			assert.Less(t, len(got), 200)
		})
	}
}

func TestFormatState_LargestRenderedMap(t *testing.T) {
	g := gametypes.NewGameState()
	g.MapSize = gametypes.Size{Width: MaxRenderedMapSize, Height: MaxRenderedMapSize}
	got := FormatState(g)
	assert.Equal(t, MaxRenderedMapSize, strings.Count(got, strings.Repeat(".", MaxRenderedMapSize)+"\n"))
}

type testConsole struct {
	*Console
	out           *bytes.Buffer
	notifications *queue.InMemoryQueue[events.Notification]
	intents       *queue.InMemoryQueue[intents.Intent]
}

func newTestConsole(in io.Reader) *testConsole {
	out := &bytes.Buffer{}
	notifications := queue.NewInMemoryQueue[events.Notification](8)
	intentQueue := queue.NewInMemoryQueue[intents.Intent](8)
	c := NewConsole(NewConsoleOptions{
		In:            in,
		Out:           out,
		StateManager:  state.NewInMemoryStateManager(),
		Notifications: notifications,
		Intents:       intentQueue,
	})
	return &testConsole{Console: c, out: out, notifications: notifications, intents: intentQueue}
}

func TestConsole_Run(t *testing.T) {
	c := newTestConsole(strings.NewReader("build 1 1 house\nhello\nskip\n"))
	require.NoError(t, c.Run(context.Background()))

	got, err := c.intents.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []intents.Intent{
		intents.Build{Position: gametypes.Position{X: 1, Y: 1}, Building: gametypes.BuildingHouse},
		intents.Skip{},
		intents.Quit{},
	}, got)
	assert.Contains(t, c.out.String(), `unknown command "hello"`)

	assert.ErrorIs(t, c.intents.Enqueue(intents.Skip{}), queue.ErrQueueClosed)
}

func TestConsole_QuitCommand(t *testing.T) {
	c := newTestConsole(strings.NewReader("quit\nskip\n"))
	require.NoError(t, c.Run(context.Background()))

	got, err := c.intents.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []intents.Intent{intents.Quit{}}, got)
}

func TestConsole_QuitNotification(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	c := newTestConsole(in)

	require.NoError(t, c.notifications.Enqueue(events.Message{Title: "Error", Body: "busy"}))
	require.NoError(t, c.notifications.Enqueue(events.Quit{}))

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not stop")
	}

	got, err := c.intents.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []intents.Intent{intents.Quit{}}, got)
	assert.Contains(t, c.out.String(), "[Error] busy")
}
