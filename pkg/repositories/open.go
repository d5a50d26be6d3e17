package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open opens the repository named by dsn. A dsn without a scheme, or with the
// sqlite scheme, is a SQLite database file. postgres and postgresql URLs
// connect to Postgres.
func Open(ctx context.Context, dsn string) (Repository, error) {
	path := dsn
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection string: %v", err)
		}
		switch u.Scheme {
		case "sqlite":
			path = u.Host + u.Path
		case "postgres", "postgresql":
			repository, err := NewPostgresRepository(ctx, dsn)
			if err != nil {
				return nil, err
			}
			return repository, nil
		default:
			return nil, fmt.Errorf("unknown database type %s", u.Scheme)
		}
	}

	repository, err := NewSQLiteRepository(ctx, path)
	if err != nil {
		return nil, err
	}
	return repository, nil
}
