package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cbodonnell/epochwars/client/console"
	"github.com/cbodonnell/epochwars/client/events"
	"github.com/cbodonnell/epochwars/client/fonts"
	"github.com/cbodonnell/epochwars/client/game"
	"github.com/cbodonnell/epochwars/client/intents"
	clientnetwork "github.com/cbodonnell/epochwars/client/network"
	"github.com/cbodonnell/epochwars/pkg/config"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/network"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/repositories"
	"github.com/cbodonnell/epochwars/pkg/state"
	"github.com/cbodonnell/epochwars/pkg/transcript"
	"github.com/cbodonnell/epochwars/pkg/version"
	"github.com/cbodonnell/epochwars/pkg/workers"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		panic(fmt.Sprintf("Failed to read environment: %v", err))
	}

	flag.StringVar(&cfg.Address, "address", cfg.Address, "Session locator address, or game server address with -direct")
	flag.BoolVar(&cfg.Direct, "direct", cfg.Direct, "Connect to the game server directly instead of asking the session locator")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "Player name")
	flag.StringVar(&cfg.Token, "token", cfg.Token, "Rejoin token")
	flag.BoolVar(&cfg.Rejoin, "rejoin", cfg.Rejoin, "Rejoin with the token saved in the session database")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.StringVar(&cfg.SessionDB, "session-db", cfg.SessionDB, "Session database: a SQLite file or a postgres:// URL")
	flag.StringVar(&cfg.Transcript, "transcript", cfg.Transcript, "Path of a zstd transcript of the wire traffic")
	flag.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Play in the terminal instead of a window")
	flag.BoolVar(&cfg.Fullscreen, "fullscreen", cfg.Fullscreen, "Run the window in fullscreen mode")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Window height")
	debug := flag.Bool("debug", false, "Show debug overlay")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	var logOutput io.Writer = os.Stdout
	if cfg.Headless {
		logOutput = os.Stderr
	}
	logger := log.New(logOutput, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, runOptions{
		In:     os.Stdin,
		Out:    os.Stdout,
		Debug:  *debug,
		Logger: logger,
	})
	stop()
	if err != nil {
		log.Error("Client stopped: %v", err)
		os.Exit(1)
	}
	log.Info("Client stopped")
}

type runOptions struct {
	// In and Out are the console streams in headless mode
	In     io.Reader
	Out    io.Writer
	Debug  bool
	Logger *log.Logger
}

// run plays one session and returns once it is over. Everything it opens is
// closed before it returns, including on error.
func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	sessionID := uuid.New().String()
	sessionLogger := opts.Logger.With("session", sessionID)
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("player-%s", sessionID[:8])
		sessionLogger.Info("No name given, playing as %s", cfg.Name)
	}

	var repository repositories.Repository
	if cfg.SessionDB != "" {
		var err error
		repository, err = repositories.Open(ctx, cfg.SessionDB)
		if err != nil {
			return fmt.Errorf("failed to open session database: %w", err)
		}
		defer func() {
			if err := repository.Close(context.Background()); err != nil {
				sessionLogger.Error("Failed to close session database: %v", err)
			}
		}()
	}

	if cfg.Rejoin && cfg.Token == "" {
		saved, err := repository.LoadSession(ctx, cfg.Address, cfg.Name)
		if err != nil {
			return fmt.Errorf("failed to load session for %s on %s: %w", cfg.Name, cfg.Address, err)
		}
		sessionLogger.Info("Rejoining as player %d with saved token", saved.PlayerID)
		cfg.Token = saved.Token
	}

	var recorder transcript.Recorder = transcript.NopRecorder{}
	if cfg.Transcript != "" {
		fileRecorder, err := transcript.CreateFile(cfg.Transcript, sessionID)
		if err != nil {
			return fmt.Errorf("failed to create transcript: %w", err)
		}
		defer func() {
			if err := fileRecorder.Close(); err != nil {
				sessionLogger.Error("Failed to close transcript: %v", err)
			}
		}()
		recorder = fileRecorder
	}

	stateManager := state.NewInMemoryStateManager()
	notificationQueue := queue.NewInMemoryQueue[events.Notification](1024)
	intentQueue := queue.NewInMemoryQueue[intents.Intent](64)

	connector := network.NewConnector(network.ConnectOptions{
		ConnectTimeout:     cfg.ConnectTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		LocatorReadTimeout: cfg.LocatorReadTimeout,
		Logger:             sessionLogger,
	})
	session, err := clientnetwork.NewSession(clientnetwork.NewSessionOptions{
		Address:       cfg.Address,
		Direct:        cfg.Direct,
		Name:          cfg.Name,
		Token:         cfg.Token,
		Connector:     connector,
		StateManager:  stateManager,
		Notifications: notificationQueue,
		Intents:       intentQueue,
		Recorder:      recorder,
		Logger:        sessionLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	networkErrChan := make(chan error, 2)
	sessionDone := make(chan struct{})
	saveCtx, stopSaving := context.WithCancel(context.Background())
	defer stopSaving()

	g.Go(func() error {
		defer close(sessionDone)
		defer stopSaving()
		defer notificationQueue.Close()
		if err := session.Run(gctx); err != nil {
			networkErrChan <- err
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case err := <-session.ListenerErrChan():
			networkErrChan <- err
			return fmt.Errorf("lost connection to game server: %w", err)
		case <-sessionDone:
			return nil
		}
	})

	if repository != nil {
		saveSessionWorker := workers.NewSaveSessionWorker(workers.NewSaveSessionWorkerOptions{
			Repository:   repository,
			StateManager: stateManager,
			Address:      cfg.Address,
			Name:         cfg.Name,
			Logger:       sessionLogger,
		})
		g.Go(func() error {
			saveSessionWorker.Start(saveCtx)
			return nil
		})
	}

	if cfg.Headless {
		c := console.NewConsole(console.NewConsoleOptions{
			In:            opts.In,
			Out:           opts.Out,
			StateManager:  stateManager,
			Notifications: notificationQueue,
			Intents:       intentQueue,
			Logger:        sessionLogger,
		})
		g.Go(func() error {
			return c.Run(gctx)
		})
	} else {
		if err := runWindow(ctx, cfg, opts.Debug, networkErrChan, stateManager, notificationQueue, intentQueue); err != nil {
			sessionLogger.Error("Window closed with error: %v", err)
		}
		intentQueue.Close()
	}

	return g.Wait()
}

func runWindow(ctx context.Context, cfg *config.Config, debug bool, networkErrChan <-chan error, stateManager state.StateManager, notifications queue.Queue[events.Notification], intentQueue queue.Queue[intents.Intent]) error {
	if err := fonts.Load(); err != nil {
		return fmt.Errorf("failed to load fonts: %v", err)
	}

	g, err := game.NewGame(game.NewGameOptions{
		Debug:           debug,
		StateManager:    stateManager,
		Notifications:   notifications,
		Intents:         intentQueue,
		ListenerErrChan: networkErrChan,
		Done:            ctx.Done(),
		ScreenWidth:     cfg.Width,
		ScreenHeight:    cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("failed to create game: %v", err)
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(fmt.Sprintf("Epoch Wars - %s", cfg.Name))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)
	return ebiten.RunGame(g)
}
