package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toshio/canistorage/internal/api"
	"github.com/toshio/canistorage/internal/logger"
	"github.com/toshio/canistorage/internal/metrics"
	"github.com/toshio/canistorage/pkg/blobstore"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/config"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the canistorage HTTP server",
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	vol, err := config.BuildVolume(ctx, cfg.Volume)
	if err != nil {
		return fmt.Errorf("build volume: %w", err)
	}

	store := blobstore.NewWithUploadExpiry(vol, clock.System{}, uint64(cfg.Upload.IdleTimeout.Milliseconds()))
	handler := api.NewRouter(store, []byte(cfg.Auth.SigningKey), cfg.Server.MaxRequestBodySize.Int64())

	apiServer := &http.Server{
		Addr:    cfg.Server.ListenAddress,
		Handler: handler,
	}

	servers := []*http.Server{apiServer}
	errCh := make(chan error, 2)

	go func() {
		logger.Info("starting api server", "address", cfg.Server.ListenAddress)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
			return
		}
		errCh <- nil
	}()

	if cfg.Metrics.Enabled {
		metricsServer := &http.Server{
			Addr:    cfg.Metrics.ListenAddress,
			Handler: metrics.Handler(),
		}
		servers = append(servers, metricsServer)
		go func() {
			logger.Info("starting metrics server", "address", cfg.Metrics.ListenAddress)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
