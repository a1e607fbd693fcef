// Package repository selects the content storage backend named by the config.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/filekv"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/repository/postgres"
	redisrepo "portfolio-backend/internal/repository/redis"
	"portfolio-backend/internal/repository/sqlite"
	"portfolio-backend/pkg/database"
)

// Storage is an opened backend together with its lifecycle hooks
type Storage struct {
	domain.KVStorage
	Driver string

	// Watch is set for the file driver only
	Watch func(ctx context.Context, logger *slog.Logger, onChange func(key string)) error

	closers []func()
}

// Ping reports reachability. Backends without a native ping list their keys.
func (s *Storage) Ping(ctx context.Context) error {
	if p, ok := s.KVStorage.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := s.Keys(ctx)
	return err
}

func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Open connects to the backend of cfg.StorageDriver. redisClient is only
// required for the redis driver.
func Open(ctx context.Context, cfg *config.Config, redisClient *goredis.Client) (*Storage, error) {
	s := &Storage{Driver: cfg.StorageDriver}

	switch cfg.StorageDriver {
	case "memory":
		s.KVStorage = memory.NewKVStorage()

	case "file", "":
		fs, err := filekv.NewKVStorage(cfg.StorageDir)
		if err != nil {
			return nil, err
		}
		s.Driver = "file"
		s.KVStorage = fs
		if cfg.StorageWatch {
			s.Watch = fs.Watch
		}

	case "postgres":
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo := postgres.NewKVRepository(pool, cfg.StorageTable)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		s.KVStorage = repo
		s.closers = append(s.closers, pool.Close)

	case "sqlite":
		db, err := database.NewSQLiteConnection(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		repo := sqlite.NewKVRepository(db, cfg.StorageTable)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		s.KVStorage = repo
		s.closers = append(s.closers, func() { _ = db.Close() })

	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("STORAGE_DRIVER=redis requires a reachable REDIS_URL")
		}
		s.KVStorage = redisrepo.NewKVRepository(redisClient, "")

	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (file, postgres, sqlite, redis, memory)", cfg.StorageDriver)
	}

	return s, nil
}
