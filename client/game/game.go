package game

import (
	"fmt"

	"github.com/cbodonnell/epochwars/client/events"
	"github.com/cbodonnell/epochwars/client/flow"
	"github.com/cbodonnell/epochwars/client/intents"
	"github.com/cbodonnell/epochwars/client/scenes"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/state"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	DefaultScreenWidth  = 1280
	DefaultScreenHeight = 720
	// PanelRatio is the share of the screen width used by the side panel.
	PanelRatio = 0.25
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	// listenerErrChan reports a lost connection to the game server.
	listenerErrChan <-chan error
	// done closes the window when closed.
	done <-chan struct{}
	// mode is the current game mode.
	mode flow.GameMode
	// scene is the current scene.
	scene scenes.Scene
	// gameScene is the scene shown while connected.
	gameScene *scenes.GameScene

	screenWidth  int
	screenHeight int
}

type NewGameOptions struct {
	Debug         bool
	StateManager  state.StateManager
	Notifications queue.Queue[events.Notification]
	Intents       queue.Queue[intents.Intent]
	// ListenerErrChan reports a lost connection. It is optional.
	ListenerErrChan <-chan error
	// Done closes the window when closed. It is optional.
	Done         <-chan struct{}
	ScreenWidth  int
	ScreenHeight int
}

func NewGame(opts NewGameOptions) (*Game, error) {
	g := &Game{
		debug:           opts.Debug,
		listenerErrChan: opts.ListenerErrChan,
		done:            opts.Done,
		screenWidth:     opts.ScreenWidth,
		screenHeight:    opts.ScreenHeight,
	}
	if g.screenWidth <= 0 || g.screenHeight <= 0 {
		g.screenWidth, g.screenHeight = DefaultScreenWidth, DefaultScreenHeight
	}

	gameScene, err := scenes.NewGameScene(scenes.NewGameSceneOptions{
		StateManager:  opts.StateManager,
		Notifications: opts.Notifications,
		Intents:       opts.Intents,
		ScreenWidth:   g.screenWidth,
		ScreenHeight:  g.screenHeight,
		PanelWidth:    int(float64(g.screenWidth) * PanelRatio),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game scene: %v", err)
	}
	if err := g.SetScene(gameScene); err != nil {
		return nil, fmt.Errorf("failed to set game scene: %v", err)
	}
	g.gameScene = gameScene
	g.mode = flow.GameModePlay

	return g, nil
}

func (g *Game) SetScene(scene scenes.Scene) error {
	if g.scene != nil {
		if err := g.scene.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy previous scene: %v", err)
		}
	}

	g.scene = scene
	if err := g.scene.Init(); err != nil {
		return fmt.Errorf("failed to initialize scene: %v", err)
	}

	return nil
}

func (g *Game) loadNetworkError(err error) error {
	log.Error("Network error: %v", err)
	networkError, sceneErr := scenes.NewErrorScene("Connection lost")
	if sceneErr != nil {
		return fmt.Errorf("failed to create network error scene: %v", sceneErr)
	}
	if err := g.SetScene(networkError); err != nil {
		return fmt.Errorf("failed to set network error scene: %v", err)
	}
	g.mode = flow.GameModeNetworkError
	return nil
}

func (g *Game) Update() error {
	select {
	case <-g.done:
		log.Info("Shutting down")
		return ebiten.Termination
	default:
	}

	switch g.mode {
	case flow.GameModePlay:
		if err := g.checkNetworkErrors(); err != nil {
			if err := g.loadNetworkError(err); err != nil {
				return err
			}
			break
		}
		if err := g.scene.Update(); err != nil {
			return fmt.Errorf("failed to update scene: %v", err)
		}
		if g.gameScene.Done() {
			g.mode = flow.GameModeOver
		}
	case flow.GameModeNetworkError:
		if err := g.scene.Update(); err != nil {
			return fmt.Errorf("failed to update scene: %v", err)
		}
		if errorScene, ok := g.scene.(*scenes.ErrorScene); ok && errorScene.Dismissed() {
			g.mode = flow.GameModeOver
		}
	case flow.GameModeOver:
		log.Info("Closing window")
		return ebiten.Termination
	}

	return nil
}

// checkNetworkErrors returns the error that stopped the listener, if any.
func (g *Game) checkNetworkErrors() error {
	select {
	case err := <-g.listenerErrChan:
		return fmt.Errorf("listener error: %v", err)
	default:
		return nil
	}
}

// Mode returns the current game mode.
func (g *Game) Mode() flow.GameMode {
	return g.mode
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.debug {
		g.drawDebugOverlay(screen)
	}
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %0.1f TPS: %0.1f Mode: %s", ebiten.ActualFPS(), ebiten.ActualTPS(), g.mode), 4, g.screenHeight-16)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.screenWidth, g.screenHeight
}
