package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"social-casino-backend/internal/config"
	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

func newSeedCmd(deps func() (*config.Config, *slog.Logger)) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the static fixtures to durable storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := deps()
			ctx := cmd.Context()

			storage, err := openBackend(cfg)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer storage.Close()

			_, err = storage.LoadSnapshot(ctx, services.SnapshotUsers)
			switch {
			case err == nil && !force:
				return errors.New("storage already holds a snapshot; pass --force to overwrite it")
			case err != nil && !errors.Is(err, models.ErrSnapshotNotFound):
				return err
			}

			store, err := newStore(cfg, logger, storage)
			if err != nil {
				return err
			}
			if err := store.Sync(ctx); err != nil {
				return err
			}

			logger.Info("Fixtures written", slog.String("storage", cfg.StorageType))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing snapshot")
	return cmd
}
