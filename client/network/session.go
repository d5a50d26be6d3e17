package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/cbodonnell/epochwars/client/events"
	"github.com/cbodonnell/epochwars/client/intents"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/messages"
	"github.com/cbodonnell/epochwars/pkg/network"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/state"
	"github.com/cbodonnell/epochwars/pkg/transcript"
)

// Session drives one connection to the game server. It sends the handshake,
// starts a Listener for incoming messages and translates intents from the
// presentation layer into commands.
type Session struct {
	address       string
	direct        bool
	name          string
	token         string
	connector     *network.Connector
	stateManager  state.StateManager
	notifications queue.Queue[events.Notification]
	intents       queue.Queue[intents.Intent]
	recorder      transcript.Recorder
	logger        *log.Logger

	listenerErrChan chan error
	wg              sync.WaitGroup
}

type NewSessionOptions struct {
	// Address is the game server, or the session locator unless Direct is set
	Address string
	Direct  bool
	// Name is sent in a fresh join
	Name string
	// Token rejoins an existing session instead of joining as Name
	Token         string
	Connector     *network.Connector
	StateManager  state.StateManager
	Notifications queue.Queue[events.Notification]
	Intents       queue.Queue[intents.Intent]
	// Recorder is optional
	Recorder transcript.Recorder
	// Logger is optional
	Logger *log.Logger
}

func NewSession(opts NewSessionOptions) (*Session, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if opts.Name == "" && opts.Token == "" {
		return nil, fmt.Errorf("either a name or a rejoin token is required")
	}
	if opts.StateManager == nil {
		return nil, fmt.Errorf("state manager is required")
	}
	if opts.Notifications == nil || opts.Intents == nil {
		return nil, fmt.Errorf("notification and intent queues are required")
	}

	s := &Session{
		address:         opts.Address,
		direct:          opts.Direct,
		name:            opts.Name,
		token:           opts.Token,
		connector:       opts.Connector,
		stateManager:    opts.StateManager,
		notifications:   opts.Notifications,
		intents:         opts.Intents,
		recorder:        opts.Recorder,
		logger:          opts.Logger,
		listenerErrChan: make(chan error, 1),
	}
	if s.connector == nil {
		s.connector = network.NewConnector(network.ConnectOptions{})
	}
	if s.recorder == nil {
		s.recorder = transcript.NopRecorder{}
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s, nil
}

// ListenerErrChan receives the error that stopped the listener when the
// connection is lost. Nothing is sent when the session ends normally.
func (s *Session) ListenerErrChan() <-chan error {
	return s.listenerErrChan
}

func (s *Session) StateManager() state.StateManager {
	return s.stateManager
}

// Run connects, joins the game and sends a command for every intent until a
// Quit intent arrives or the intent queue is closed. The connection is closed
// and the listener has stopped by the time Run returns.
func (s *Session) Run(ctx context.Context) error {
	conn, err := s.connector.Connect(ctx, s.address, s.direct)
	if err != nil {
		return fmt.Errorf("failed to connect to game server: %w", err)
	}
	s.logger.Info("Connected to game server at %s", conn.RemoteAddr())

	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debug("Failed to close connection: %v", err)
		}
		s.wg.Wait()
	}()

	s.startListener(conn)

	writer := messages.NewLineWriter(conn)
	if err := s.send(writer, s.handshake()); err != nil {
		return err
	}

	return s.drive(ctx, writer)
}

func (s *Session) startListener(conn net.Conn) {
	listener := NewListener(NewListenerOptions{
		Reader:        conn,
		StateManager:  s.stateManager,
		Notifications: s.notifications,
		Recorder:      s.recorder,
		Logger:        s.logger,
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := listener.Run()
		switch {
		case err == nil:
			s.logger.Debug("Listener stopped")
		case network.IsConnectionClosedByClient(err):
			s.logger.Debug("Listener stopped: %v", err)
		default:
			s.logger.Error("Lost connection to game server: %v", err)
			select {
			case s.listenerErrChan <- err:
			default:
			}
		}
	}()
}

func (s *Session) handshake() messages.ClientMessage {
	if s.token != "" {
		s.logger.Info("Rejoining game with token")
		return messages.ClientRejoin{Token: s.token}
	}
	s.logger.Info("Joining game as %s", s.name)
	return messages.ClientWelcome{Name: s.name}
}

func (s *Session) drive(ctx context.Context, writer *messages.LineWriter) error {
	for {
		intent, err := s.intents.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrQueueClosed) {
				s.logger.Info("Intent queue closed, leaving game")
				return nil
			}
			if ctx.Err() != nil {
				s.logger.Info("Session cancelled, leaving game")
				return nil
			}
			return fmt.Errorf("failed to receive intent: %w", err)
		}

		msg, quit := CommandFor(intent)
		if quit {
			s.logger.Info("Leaving game")
			return nil
		}
		if msg == nil {
			s.logger.Warn("Ignoring unsupported intent %T", intent)
			continue
		}
		if err := s.send(writer, msg); err != nil {
			return err
		}
	}
}

func (s *Session) send(writer *messages.LineWriter, msg messages.ClientMessage) error {
	line, err := writer.WriteClientMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send %s message: %w", msg.MessageType(), err)
	}
	s.logger.Trace("Sent line: %s", line)
	if err := s.recorder.Record(transcript.DirectionOut, line); err != nil {
		s.logger.Warn("Failed to record sent line: %v", err)
	}
	return nil
}

// CommandFor maps an intent to the command sent to the server. quit is true
// for intents that end the session; msg is nil for intents with no command.
func CommandFor(intent intents.Intent) (msg messages.ClientMessage, quit bool) {
	switch intent := intent.(type) {
	case intents.Build:
		return messages.ClientBuild{X: intent.Position.X, Y: intent.Position.Y, Building: intent.Building}, false
	case intents.Excavate:
		return messages.ClientExcavate{X: intent.Position.X, Y: intent.Position.Y}, false
	case intents.Skip:
		return messages.ClientEndTurn{}, false
	case intents.Quit:
		return nil, true
	default:
		return nil, false
	}
}
