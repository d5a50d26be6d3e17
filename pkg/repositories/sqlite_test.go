package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/epochwars/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()
	r, err := NewSQLiteRepository(ctx, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	r.now = func() time.Time { return time.UnixMilli(1000) }
	t.Cleanup(func() { r.Close(ctx) })
	return r
}

func TestSQLiteRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	_, err := r.LoadSession(ctx, "locator:4000", "alice")
	assert.True(t, IsNotFound(err))

	require.NoError(t, r.SaveSession(ctx, &models.Session{
		Address:  "locator:4000",
		Name:     "alice",
		PlayerID: 2,
		Token:    "abc123",
	}))

	got, err := r.LoadSession(ctx, "locator:4000", "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.Session{
		Address:   "locator:4000",
		Name:      "alice",
		PlayerID:  2,
		Token:     "abc123",
		UpdatedAt: 1000,
	}, got)

	_, err = r.LoadSession(ctx, "locator:4000", "bob")
	assert.True(t, IsNotFound(err))
}

func TestSQLiteRepository_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	require.NoError(t, r.SaveSession(ctx, &models.Session{Address: "a", Name: "n", PlayerID: 1, Token: "old"}))
	require.NoError(t, r.SaveSession(ctx, &models.Session{Address: "a", Name: "n", PlayerID: 1, Token: "new"}))

	got, err := r.LoadSession(ctx, "a", "n")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
}

func TestSQLiteRepository_RejectsEmptyToken(t *testing.T) {
	r := newTestRepository(t)
	assert.Error(t, r.SaveSession(context.Background(), &models.Session{Address: "a", Name: "n"}))
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	require.NoError(t, r.SaveSession(ctx, &models.Session{Address: "a", Name: "n", Token: "t"}))
	require.NoError(t, r.DeleteSession(ctx, "a", "n"))
	_, err := r.LoadSession(ctx, "a", "n")
	assert.True(t, IsNotFound(err))
}
