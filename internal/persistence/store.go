package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agencydesk/agency-tickets/internal/config"
	"github.com/agencydesk/agency-tickets/internal/repository"
	"github.com/agencydesk/agency-tickets/internal/repository/sqlite"
)

// Store is an opened repository.Store plus the handle that releases it.
type Store struct {
	repository.Store
	Driver string
	close  func()
}

// Close releases the underlying database resources.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStore opens the backend selected by cfg.Storage.Driver and brings its
// schema up to date. Postgres migrations run only when enabled, unless
// forceMigrate is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, forceMigrate bool) (*Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations || forceMigrate {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &Store{
			Store:  repository.NewPostgresStore(pg.PoolHandle()),
			Driver: config.StorageDriverPostgres,
			close:  pg.Close,
		}, nil
	case config.StorageDriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.Storage.SQLitePath))
		return &Store{
			Store:  db,
			Driver: config.StorageDriverSQLite,
			close: func() {
				if err := db.Close(); err != nil {
					logger.Warn("close sqlite", zap.Error(err))
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
