package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"portfolio-backend/config"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/store"
	"portfolio-backend/pkg/redis"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Inspect, export and import portfolio content",
		Long: `portfolioctl reads the same environment (.env, STORAGE_DRIVER, ...) as the
API server and works directly on the configured storage backend.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newListCmd(), newExportCmd(), newImportCmd(), newHashPasswordCmd())
	return root
}

// openCatalog loads every content store from the configured backend. The
// returned func releases the storage connections.
func openCatalog(ctx context.Context) (*store.Catalog, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.StorageDriver == "redis" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			return nil, nil, err
		}
	}
	storage, err := repository.Open(ctx, cfg, redis.Client())
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		storage.Close()
		_ = redis.Close()
	}

	defaults, err := store.LoadDefaultsFile(cfg.ContentDefaultsFile)
	if err != nil {
		release()
		return nil, nil, err
	}
	catalog, err := store.OpenCatalog(ctx, storage, defaults, store.WithLogger(slog.Default()))
	if err != nil {
		release()
		return nil, nil, err
	}
	return catalog, release, nil
}
