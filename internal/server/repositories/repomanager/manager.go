// Package repomanager opens the configured storage backend and vends its
// repositories. The backend is chosen from the DSN scheme.
package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
)

type RepositoryManager interface {
	// RunMigrations brings the schema (or indexes) up to date.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Posts() posts.Repository
	Close() error
}

// Open connects to the store named by dsn:
// postgres:// or postgresql://, mongodb://, or memory://.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: database dsn: %v", common.ErrorConfig, err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		m, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "mongodb":
		m, err := OpenMongo(dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported database scheme %q", common.ErrorConfig, u.Scheme)
	}
}
