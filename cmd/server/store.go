package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/tasks/internal/config"
	"github.com/fastygo/tasks/internal/infrastructure/boltdb"
	pgInfra "github.com/fastygo/tasks/internal/infrastructure/postgres"
	sqliteInfra "github.com/fastygo/tasks/internal/infrastructure/sqlite"
	"github.com/fastygo/tasks/internal/services/lifecycle"
	"github.com/fastygo/tasks/repository"
	boltRepo "github.com/fastygo/tasks/repository/bolt"
	"github.com/fastygo/tasks/repository/memory"
	"github.com/fastygo/tasks/repository/postgres"
	sqliteRepo "github.com/fastygo/tasks/repository/sqlite"
)

// openStore connects the configured driver and registers its shutdown hook.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (repository.TaskRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		return postgres.NewTaskRepository(pool), nil

	case config.DriverBolt:
		db, err := boltdb.Open(cfg.Store.BoltPath, logger, boltRepo.TasksBucket)
		if err != nil {
			return nil, err
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return db.Close()
		})
		return boltRepo.NewTaskRepository(db), nil

	case config.DriverSQLite:
		db, err := sqliteInfra.Open(cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		if err := sqliteRepo.Migrate(db); err != nil {
			_ = sqliteInfra.Close(db)
			return nil, err
		}
		manager.Register("sqlite", func(ctx context.Context) error {
			return sqliteInfra.Close(db)
		})
		return sqliteRepo.NewTaskRepository(db), nil

	case config.DriverMemory:
		logger.Warn("using in-memory task store; data is lost on restart")
		return memory.NewTaskRepository(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
