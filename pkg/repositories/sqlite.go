package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/epochwars/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	address    TEXT    NOT NULL,
	name       TEXT    NOT NULL,
	player_id  INTEGER NOT NULL,
	token      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (address, name)
);
`

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &SQLiteRepository{
		db:  db,
		now: time.Now,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveSession(ctx context.Context, session *models.Session) error {
	if session.Token == "" {
		return fmt.Errorf("refusing to save a session without a token")
	}
	session.UpdatedAt = r.now().UnixMilli()
	q := `
	INSERT OR REPLACE INTO sessions (address, name, player_id, token, updated_at)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, session.Address, session.Name, session.PlayerID, session.Token, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadSession(ctx context.Context, address string, name string) (*models.Session, error) {
	q := `
	SELECT player_id, token, updated_at FROM sessions WHERE address = ? AND name = ?;
	`
	session := &models.Session{
		Address: address,
		Name:    name,
	}
	err := r.db.QueryRowContext(ctx, q, address, name).Scan(&session.PlayerID, &session.Token, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan session: %v", err)
	}

	return session, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, address string, name string) error {
	q := `
	DELETE FROM sessions WHERE address = ? AND name = ?;
	`
	if _, err := r.db.ExecContext(ctx, q, address, name); err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}

	return nil
}
