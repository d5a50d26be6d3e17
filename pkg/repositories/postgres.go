package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	address    TEXT    NOT NULL,
	name       TEXT    NOT NULL,
	player_id  BIGINT  NOT NULL,
	token      TEXT    NOT NULL,
	updated_at BIGINT  NOT NULL,
	PRIMARY KEY (address, name)
);
`

// PostgresRepository stores sessions in a shared Postgres database so a
// player can rejoin from another machine.
type PostgresRepository struct {
	// pgx.Conn is not safe for concurrent use
	lock sync.Mutex
	conn *pgx.Conn
	now  func() time.Time
}

// NewPostgresRepository connects to the database and creates the schema.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}
	log.Debug("Connected to %s as %s", database, username)

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &PostgresRepository{
		conn: conn,
		now:  time.Now,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveSession(ctx context.Context, session *models.Session) error {
	if session.Token == "" {
		return fmt.Errorf("refusing to save a session without a token")
	}
	session.UpdatedAt = r.now().UnixMilli()
	q := `
	INSERT INTO sessions (address, name, player_id, token, updated_at) VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (address, name) DO UPDATE SET player_id = $3, token = $4, updated_at = $5;
	`
	r.lock.Lock()
	defer r.lock.Unlock()
	_, err := r.conn.Exec(ctx, q, session.Address, session.Name, int64(session.PlayerID), session.Token, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadSession(ctx context.Context, address string, name string) (*models.Session, error) {
	q := `
	SELECT player_id, token, updated_at FROM sessions WHERE address = $1 AND name = $2;
	`
	session := &models.Session{
		Address: address,
		Name:    name,
	}
	var playerID int64
	r.lock.Lock()
	defer r.lock.Unlock()
	err := r.conn.QueryRow(ctx, q, address, name).Scan(&playerID, &session.Token, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan session: %v", err)
	}
	session.PlayerID = uint32(playerID)

	return session, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, address string, name string) error {
	q := `
	DELETE FROM sessions WHERE address = $1 AND name = $2;
	`
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, err := r.conn.Exec(ctx, q, address, name); err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}

	return nil
}
