package repositories

import (
	"context"

	"github.com/cbodonnell/epochwars/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error
	SaveSession(ctx context.Context, session *models.Session) error
	LoadSession(ctx context.Context, address string, name string) (*models.Session, error)
	DeleteSession(ctx context.Context, address string, name string) error
}
