package network

import (
	"fmt"
	"io"

	"github.com/cbodonnell/epochwars/client/events"
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/messages"
	"github.com/cbodonnell/epochwars/pkg/network"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/state"
	"github.com/cbodonnell/epochwars/pkg/transcript"
)

const (
	MessageTitleError    = "Error"
	MessageTitleGameOver = "Finish"
)

// Listener reads server messages, applies them to the game state and
// notifies the presentation layer. It is the only writer of the game state.
type Listener struct {
	reader        io.Reader
	stateManager  state.StateManager
	notifications queue.Queue[events.Notification]
	recorder      transcript.Recorder
	logger        *log.Logger
}

type NewListenerOptions struct {
	Reader        io.Reader
	StateManager  state.StateManager
	Notifications queue.Queue[events.Notification]
	// Recorder is optional
	Recorder transcript.Recorder
	// Logger is optional
	Logger *log.Logger
}

func NewListener(opts NewListenerOptions) *Listener {
	l := &Listener{
		reader:        opts.Reader,
		stateManager:  opts.StateManager,
		notifications: opts.Notifications,
		recorder:      opts.Recorder,
		logger:        opts.Logger,
	}
	if l.recorder == nil {
		l.recorder = transcript.NopRecorder{}
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	return l
}

// Run reads until the connection fails. It returns nil only when the server
// refused the session; otherwise the error says why the connection was lost.
func (l *Listener) Run() error {
	reader := messages.NewLineReader(l.reader)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			err = network.ClassifyReadError(err)
			if network.IsConnectionClosedByServer(err) || network.IsConnectionClosedByClient(err) {
				return err
			}
			return fmt.Errorf("failed to read from game server: %w", err)
		}

		stop, err := l.HandleLine(line)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// HandleLine processes a single line. Lines that cannot be parsed are logged
// and skipped. stop is true when no further lines should be read.
func (l *Listener) HandleLine(line []byte) (stop bool, err error) {
	l.logger.Trace("Received line: %s", line)
	if err := l.recorder.Record(transcript.DirectionIn, line); err != nil {
		l.logger.Warn("Failed to record received line: %v", err)
	}
	if len(line) == 0 {
		return false, nil
	}

	msg, err := messages.DecodeServerMessage(line)
	if err != nil {
		l.logger.Warn("Skipping unreadable message from server: %v", err)
		return false, nil
	}
	l.logger.Debug("Received %s message: %+v", msg.MessageType(), msg)

	return l.HandleMessage(msg)
}

// HandleMessage applies msg to the game state and sends the resulting notifications.
func (l *Listener) HandleMessage(msg messages.ServerMessage) (stop bool, err error) {
	switch msg := msg.(type) {
	case messages.ServerWelcome:
		return false, l.handleWelcome(msg)
	case messages.ServerEndOfTurn:
		return false, l.handleEndOfTurn(msg)
	case messages.ServerGameOver:
		return false, l.notify(
			events.Message{
				Title: MessageTitleGameOver,
				Body:  fmt.Sprintf("%s\nScore: %d", msg.Message, msg.Score),
			},
			events.RequestQuit{},
		)
	case messages.ServerDebug:
		l.logger.Info("Debug message from server: %s", msg.Message)
		return false, nil
	case messages.ServerError:
		return l.handleError(msg)
	default:
		l.logger.Warn("Ignoring unhandled message type %T", msg)
		return false, nil
	}
}

func (l *Listener) handleWelcome(msg messages.ServerWelcome) error {
	l.stateManager.Update(func(g *gametypes.GameState) {
		applyWelcome(g, msg)
	})
	l.logger.Info("Joined as player %d on a %dx%d map", msg.Player, msg.MapSize.Width, msg.MapSize.Height)
	return l.notify(events.UpdateGrid{}, events.Start{})
}

func (l *Listener) handleEndOfTurn(msg messages.ServerEndOfTurn) error {
	buildings := make(map[gametypes.Position]gametypes.Building, len(msg.Map))
	for _, entry := range msg.Map {
		buildings[entry.Pos] = entry.Building
	}

	var previousTurn uint32
	l.stateManager.Update(func(g *gametypes.GameState) {
		previousTurn = applyEndOfTurn(g, msg, buildings)
	})
	if msg.Turn < previousTurn {
		l.logger.Warn("Server sent turn %d after turn %d, keeping turn %d", msg.Turn, previousTurn, previousTurn)
	}

	notifications := []events.Notification{
		events.UpdateGrid{},
		events.UpdateBuildings{},
		events.ClearBuilding{},
		events.ClearExcavate{},
	}
	if result := msg.ExcavateResult; result != nil {
		notifications = append(notifications, events.ExcavateResult{
			Depth:    result.Depth,
			Building: result.Building,
			Position: result.Pos,
		})
	}
	return l.notify(notifications...)
}

func (l *Listener) handleError(msg messages.ServerError) (bool, error) {
	l.logger.Info("Error message from server: %s", msg.Message)
	if err := l.notify(events.Message{Title: MessageTitleError, Body: msg.Message}); err != nil {
		return false, err
	}

	switch kind := msg.Kind(); kind {
	case messages.ErrorSubtypeNone:
		return false, nil
	case messages.ErrorSubtypeInvalidBuild:
		return false, l.notify(events.ClearBuilding{})
	case messages.ErrorSubtypeBuildActionAlreadyUsed:
		notifications := []events.Notification{events.ClearBuilding{}}
		if msg.Pos != nil && msg.Building != nil {
			notifications = append(notifications, events.SetBuilding{
				Position: *msg.Pos,
				Building: *msg.Building,
			})
		}
		return false, l.notify(notifications...)
	case messages.ErrorSubtypeGameAlreadyRunning:
		l.logger.Warn("Game server does not accept this session: %s", msg.Message)
		return true, l.notify(events.Quit{})
	default:
		l.logger.Trace("Got error subtype %s", *msg.Subtype)
		return false, nil
	}
}

func (l *Listener) notify(notifications ...events.Notification) error {
	for _, n := range notifications {
		if err := l.notifications.Enqueue(n); err != nil {
			return fmt.Errorf("failed to send %T notification: %w", n, err)
		}
	}
	return nil
}

// applyWelcome copies the welcome into g. The rejoin token is never cleared.
func applyWelcome(g *gametypes.GameState, msg messages.ServerWelcome) {
	player := msg.Player
	g.PlayerID = &player
	g.MapSize = msg.MapSize
	if msg.Rejoin != "" {
		g.RejoinToken = msg.Rejoin
	}
}

// applyEndOfTurn replaces the turn state in g and returns the turn g had before.
// The turn never decreases.
func applyEndOfTurn(g *gametypes.GameState, msg messages.ServerEndOfTurn, buildings map[gametypes.Position]gametypes.Building) uint32 {
	previousTurn := g.Turn
	g.Scores = append(make([]gametypes.ScoreEntry, 0, len(msg.Scores)), msg.Scores...)
	if msg.Turn >= g.Turn {
		g.Turn = msg.Turn
	}
	g.Prices = make(map[gametypes.Building]uint32, len(msg.CurrentPrices))
	for building, price := range msg.CurrentPrices {
		g.Prices[building] = price
	}
	g.TowerCount = msg.TowerCount
	g.ReplaceBuildings(buildings)
	return previousTurn
}
