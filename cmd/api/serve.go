package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"social-casino-backend/internal/config"
	"social-casino-backend/internal/handlers"
	"social-casino-backend/internal/services"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(deps func() (*config.Config, *slog.Logger)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and game bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := deps()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	storage, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	store, err := newStore(cfg, logger, storage)
	if err != nil {
		return err
	}
	if err := store.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to hydrate store: %w", err)
	}

	wsHandler := handlers.NewWebSocketHandler(storage, logger)
	defer wsHandler.Close()
	store.SetBroadcaster(wsHandler)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:     logger,
		Store:      store,
		JWTService: services.NewJWTService(cfg),
		Limiter:    storage,
		Ingestor:   services.NewIngestor(store, nil, services.DefaultProviders()...),
		WebSocket:  wsHandler,
	})

	go autoSync(ctx, store, cfg.SyncInterval, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("addr", srv.Addr), slog.String("storage", cfg.StorageType))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	// Final snapshot so a restart resumes from the latest state.
	if err := store.Sync(shutdownCtx); err != nil {
		return fmt.Errorf("final sync failed: %w", err)
	}
	return nil
}

// autoSync mirrors the store to durable storage every interval until ctx is
// done. A non-positive interval disables it.
func autoSync(ctx context.Context, store *services.Store, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Sync(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("auto sync failed", slog.String("error", err.Error()))
			}
		}
	}
}
