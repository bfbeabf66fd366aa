package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	config "taskboard.com/taskboard/internal/configs"
	httpapi "taskboard.com/taskboard/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the taskboard HTTP API and shuts it down gracefully on SIGINT/SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := slog.Default()

		database := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN)
		limiter, revocations, closeStores := stores(cfg)
		defer closeStores()

		svc := buildServices(database, tokenIssuer(cfg), revocations)
		handler := httpapi.NewHandler(svc, pinger(database))
		e := httpapi.NewServer(handler, svc.Auth, limiter, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serverErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.AppURL, "env", cfg.Env)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case err := <-serverErr:
			if err != nil {
				return err
			}
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			return err
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
