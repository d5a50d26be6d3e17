package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbodonnell/epochwars/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		dsn     string
		wantErr bool
	}{
		{"plain path", filepath.Join(dir, "plain.db"), false},
		{"sqlite url", "sqlite://" + filepath.Join(dir, "url.db"), false},
		{"unknown scheme", "mysql://localhost/sessions", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(ctx, tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			defer r.Close(ctx)
			_, err = r.LoadSession(ctx, "a", "b")
			assert.True(t, IsNotFound(err))
		})
	}
}

// TestPostgresRepository runs against the database in EPOCHWARS_TEST_POSTGRES_URL.
func TestPostgresRepository(t *testing.T) {
	connStr := os.Getenv("EPOCHWARS_TEST_POSTGRES_URL")
	if connStr == "" {
		t.Skip("EPOCHWARS_TEST_POSTGRES_URL is not set")
	}
	ctx := context.Background()
	r, err := Open(ctx, connStr)
	require.NoError(t, err)
	defer r.Close(ctx)

	require.NoError(t, r.DeleteSession(ctx, "test:1", "pg"))
	_, err = r.LoadSession(ctx, "test:1", "pg")
	assert.True(t, IsNotFound(err))

	require.NoError(t, r.SaveSession(ctx, &models.Session{Address: "test:1", Name: "pg", PlayerID: 4, Token: "t1"}))
	require.NoError(t, r.SaveSession(ctx, &models.Session{Address: "test:1", Name: "pg", PlayerID: 4, Token: "t2"}))

	got, err := r.LoadSession(ctx, "test:1", "pg")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Token)
	assert.Equal(t, uint32(4), got.PlayerID)

	require.NoError(t, r.DeleteSession(ctx, "test:1", "pg"))
}
