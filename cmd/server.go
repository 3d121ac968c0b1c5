package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/city-weather/internal/config"
	"github.com/vzahanych/city-weather/internal/server"
	"github.com/vzahanych/city-weather/internal/service"
	"github.com/vzahanych/city-weather/internal/storage"
	"github.com/vzahanych/city-weather/internal/weather"
	"go.uber.org/zap"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the weather HTTP server",
		Long:  `Start the HTTP server exposing /hello and /weather.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting city weather server",
		zap.String("config_path", configPath),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("force_ipv4", cfg.Weather.ForceIPv4),
		zap.Int("server_port", cfg.Server.Port))

	stores, err := storage.Open(cmd.Context(), cfg.Storage, log.Logger)
	if err != nil {
		log.Error("Failed to open storage", zap.Error(err))
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	openMeteo := service.NewOpenMeteoServiceWithConfig(cfg.Weather, service.NewHTTPClient(cfg.Weather), log.Logger)
	lookup := weather.NewService(stores.Locations, openMeteo, openMeteo, log.Logger)

	srv := server.NewServer(cfg.Server, lookup, log.Logger)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		shutdownCtx := context.Background()
		if cfg.Server.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
			defer cancel()
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
