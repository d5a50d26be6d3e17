package scenes

import (
	"fmt"

	"github.com/cbodonnell/epochwars/client/events"
	"github.com/cbodonnell/epochwars/client/input"
	"github.com/cbodonnell/epochwars/client/intents"
	"github.com/cbodonnell/epochwars/client/objects"
	"github.com/cbodonnell/epochwars/client/ui"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/state"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// TurnEffectTTL is how long the turn banner stays on screen in milliseconds.
	TurnEffectTTL = 1500
	waitingText   = "Waiting for the game to start"
)

// GameScene shows the map and translates player input into intents.
type GameScene struct {
	*BaseScene

	stateManager  state.StateManager
	notifications queue.Queue[events.Notification]
	intents       queue.Queue[intents.Intent]
	view          *objects.View
	waiting       *objects.TextOverlayObject
	effectCount   int
	done          bool
}

var _ Scene = &GameScene{}

type NewGameSceneOptions struct {
	StateManager  state.StateManager
	Notifications queue.Queue[events.Notification]
	Intents       queue.Queue[intents.Intent]
	ScreenWidth   int
	ScreenHeight  int
	// PanelWidth is the width of the side panel left of the map
	PanelWidth int
}

func NewGameScene(opts NewGameSceneOptions) (*GameScene, error) {
	if opts.StateManager == nil || opts.Notifications == nil || opts.Intents == nil {
		return nil, fmt.Errorf("state manager and queues are required")
	}
	view := &objects.View{
		Board: ui.NewBoard(),
		Layout: ui.Layout{
			ScreenWidth:  opts.ScreenWidth,
			ScreenHeight: opts.ScreenHeight,
			PanelWidth:   opts.PanelWidth,
			MapSize:      opts.StateManager.MapSize(),
		},
	}
	return &GameScene{
		BaseScene:     NewBaseScene(objects.NewBaseObject("game-root", nil)),
		stateManager:  opts.StateManager,
		notifications: opts.Notifications,
		intents:       opts.Intents,
		view:          view,
		waiting:       objects.NewTextOverlayObject("overlay-waiting", waitingText),
	}, nil
}

func (g *GameScene) Init() error {
	root := g.GetRoot()
	children := []objects.GameObject{
		objects.NewGridObject("grid", g.view),
		objects.NewPanelObject("panel", g.view),
		objects.NewMessageBoxObject("message-box", g.view),
		g.waiting,
	}
	for _, child := range children {
		if err := root.AddChild(child); err != nil {
			return fmt.Errorf("failed to add %s: %v", child.GetID(), err)
		}
	}
	return g.BaseScene.Init()
}

// Done reports whether the player or the server ended the session.
func (g *GameScene) Done() bool {
	return g.done
}

func (g *GameScene) Update() error {
	if err := g.processNotifications(); err != nil {
		return fmt.Errorf("failed to process notifications: %v", err)
	}
	if g.done {
		return nil
	}

	if err := g.handleInput(); err != nil {
		return fmt.Errorf("failed to handle input: %v", err)
	}

	if err := g.BaseScene.Update(); err != nil {
		return fmt.Errorf("failed to update base scene: %v", err)
	}

	return nil
}

func (g *GameScene) processNotifications() error {
	notifications, err := g.notifications.ReadAllMessages()
	if err != nil {
		return fmt.Errorf("failed to read notifications: %v", err)
	}

	board := g.view.Board
	for _, n := range notifications {
		log.Trace("Received notification %T", n)
		board.Apply(n)
	}

	if grid, buildings := board.TakeDirty(); grid || buildings {
		g.view.State = g.stateManager.Get()
		g.view.Layout.MapSize = g.view.State.MapSize
	}
	if board.Started() {
		g.waiting.SetText("")
	}
	if board.TakeTurnEnded() && g.view.State != nil {
		if err := g.addTurnEffect(g.view.State.Turn); err != nil {
			return err
		}
	}

	if board.ShouldQuit() {
		g.quit()
	}
	return nil
}

func (g *GameScene) addTurnEffect(turn uint32) error {
	g.effectCount++
	layout := g.view.Layout
	ox, _ := layout.Origin()
	effect := objects.NewTextEffect(fmt.Sprintf("turn-effect-%d", g.effectCount), objects.NewTextEffectOptions{
		Text:   fmt.Sprintf("Turn %d", turn),
		X:      float64(ox + (layout.ScreenWidth-ox)/2),
		Y:      float64(layout.ScreenHeight) / 2,
		Scroll: true,
		TTL:    TurnEffectTTL,
		ZIndex: 50,
	})
	if err := g.GetRoot().AddChild(effect); err != nil {
		return fmt.Errorf("failed to add turn effect: %v", err)
	}
	return nil
}

func (g *GameScene) handleInput() error {
	board := g.view.Board

	if input.IsNegativeJustPressed() {
		g.quit()
		return nil
	}

	if _, ok := board.Overlay(); ok {
		if input.IsPositiveJustPressed() {
			board.DismissOverlay()
		}
		return nil
	}

	if building, ok := input.BuildingJustSelected(); ok {
		board.Select(building)
	}

	layout := g.view.Layout
	cx, cy := input.CursorPosition()
	if pos, ok := layout.CellAt(cx, cy); ok {
		g.view.Hover = &pos
	} else {
		g.view.Hover = nil
	}

	if !board.Started() {
		return nil
	}

	if x, y, ok := input.ClickJustPressed(ebiten.MouseButtonLeft); ok {
		if building, ok := layout.PaletteSlot(x, y); ok && x < layout.PanelWidth {
			board.Select(building)
		} else if pos, ok := layout.CellAt(x, y); ok {
			if intent, ok := board.Build(pos, layout.MapSize); ok {
				g.send(intent)
			}
		}
	}

	if x, y, ok := input.ClickJustPressed(ebiten.MouseButtonRight); ok {
		if pos, ok := layout.CellAt(x, y); ok {
			if intent, ok := board.Excavate(pos, layout.MapSize); ok {
				g.send(intent)
			}
		}
	}

	if input.IsSkipJustPressed() {
		g.send(intents.Skip{})
	}

	return nil
}

func (g *GameScene) send(intent intents.Intent) {
	if err := g.intents.Enqueue(intent); err != nil {
		log.Warn("Failed to send intent %T: %v", intent, err)
		g.done = true
	}
}

func (g *GameScene) quit() {
	if g.done {
		return
	}
	g.send(intents.Quit{})
	g.done = true
}

func (g *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(objects.ColorBackground)
	g.BaseScene.Draw(screen)
}
