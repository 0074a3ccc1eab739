package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/paperscope/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long: `Start the HTTP service exposing ingest and search endpoints.

The vector index snapshot and metadata store live under the configured
data directory; the index is written back on shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	app, err := buildApp(cfg)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if err := app.provider.IsAvailable(cmd.Context()); err != nil {
		logger.Warn("embedding provider unavailable at startup",
			"url", cfg.OllamaURL, "error", err)
	}

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: server.New(app.ingestor, app.searcher,
			server.WithLogger(logger),
			server.WithTimeout(cfg.RequestTimeout),
		).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", cfg.ListenAddr,
			"model", cfg.EmbedModel,
			"store", cfg.StoreBackend,
			"indexed", app.index.Len())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Close()
			exitWithError(ExitError, "server: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}

	if err := app.Close(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	logger.Info("stopped")
	return nil
}
