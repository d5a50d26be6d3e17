package workers

import (
	"context"
	"time"

	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/repositories"
	"github.com/cbodonnell/epochwars/pkg/repositories/models"
	"github.com/cbodonnell/epochwars/pkg/state"
)

const DefaultSaveSessionInterval = 2 * time.Second

type SaveSessionWorker struct {
	repository   repositories.Repository
	stateManager state.StateManager
	address      string
	name         string
	interval     time.Duration
	logger       *log.Logger

	lastToken string
}

type NewSaveSessionWorkerOptions struct {
	Repository   repositories.Repository
	StateManager state.StateManager
	// Address and Name identify the saved session
	Address  string
	Name     string
	Interval time.Duration
	// Logger is optional
	Logger *log.Logger
}

// NewSaveSessionWorker creates a new SaveSessionWorker.
// The worker periodically saves the rejoin token from the game state to the
// repository whenever it has changed.
func NewSaveSessionWorker(opts NewSaveSessionWorkerOptions) *SaveSessionWorker {
	w := &SaveSessionWorker{
		repository:   opts.Repository,
		stateManager: opts.StateManager,
		address:      opts.Address,
		name:         opts.Name,
		interval:     opts.Interval,
		logger:       opts.Logger,
	}
	if w.interval <= 0 {
		w.interval = DefaultSaveSessionInterval
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	return w
}

// Start saves on every tick until ctx is done, then saves one last time.
func (w *SaveSessionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Save(context.Background())
			return
		case <-ticker.C:
			w.Save(ctx)
		}
	}
}

// Save writes the current rejoin token if it differs from the last one saved.
func (w *SaveSessionWorker) Save(ctx context.Context) {
	var session *models.Session
	w.stateManager.Read(func(g *gametypes.GameState) {
		if g.RejoinToken == "" || g.RejoinToken == w.lastToken {
			return
		}
		session = &models.Session{
			Address: w.address,
			Name:    w.name,
			Token:   g.RejoinToken,
		}
		if g.PlayerID != nil {
			session.PlayerID = *g.PlayerID
		}
	})
	if session == nil {
		return
	}

	if err := w.repository.SaveSession(ctx, session); err != nil {
		w.logger.Error("Failed to save session: %v", err)
		return
	}
	w.lastToken = session.Token
	w.logger.Debug("Saved rejoin token for %s on %s", w.name, w.address)
}
