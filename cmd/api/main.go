package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"social-casino-backend/internal/config"
	"social-casino-backend/internal/services"
)

// backend is the snapshot store and rate limiter chosen by STORAGE_TYPE.
type backend interface {
	services.SnapshotStore
	services.RateLimiter
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config
	var logger *slog.Logger

	rootCmd := &cobra.Command{
		Use:   "casino-api",
		Short: "Social casino economy backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger = newLogger(cfg)
			slog.SetDefault(logger)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(func() (*config.Config, *slog.Logger) { return cfg, logger }))
	rootCmd.AddCommand(newSeedCmd(func() (*config.Config, *slog.Logger) { return cfg, logger }))

	return rootCmd
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openBackend(cfg *config.Config) (backend, error) {
	if cfg.StorageType == config.StorageRedis {
		redisService, err := services.NewRedisService(cfg)
		if err != nil {
			return nil, err
		}
		return redisService, nil
	}
	return services.NewMemoryService(), nil
}

func newStore(cfg *config.Config, logger *slog.Logger, snapshots services.SnapshotStore) (*services.Store, error) {
	return services.NewStore(snapshots, services.StoreOptions{
		Logger:        logger,
		DemoPasswords: cfg.DemoPasswords,
		SyncDelay:     cfg.SyncDelay,
		SessionTTL:    cfg.JWTTTL,
	})
}
