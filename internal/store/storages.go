package store

import (
	"context"

	"github.com/eduagent/eduagent/internal/config"
	"github.com/eduagent/eduagent/internal/logger"
)

// Storages aggregates every repository of the application behind one
// injection point for the service layer.
type Storages struct {
	UserRepository  UserRepository
	TokenRepository TokenRepository
}

// NewStorages connects to the database, applies pending migrations, and
// constructs all repositories on the shared handle.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:  NewUserRepository(db, log),
		TokenRepository: NewTokenRepository(db, log),
	}, nil
}
