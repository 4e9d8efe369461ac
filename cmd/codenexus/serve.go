package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/config"
	"github.com/ShayCichocki/codenexus/internal/logging"
	"github.com/ShayCichocki/codenexus/internal/orchestrator"
	"github.com/ShayCichocki/codenexus/internal/server"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on PORT (default 3001).

Routes:
  GET  /health                       Liveness and mock mode flag
  GET  /metrics                      Prometheus metrics
  GET  /api/models                   Selectable models
  POST /api/generate                 Single generation
  POST /api/multiagent/orchestrate   Full multi-agent run
  GET  /api/multiagent/agents        Agent catalog
  GET  /api/multiagent/metrics       Execution history summary

Changes to the active config file update the default model and log level
without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config and PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.logUsage()

	srv, err := server.NewServer(server.Deps{
		Orchestrator: a.orchestrator,
		Generator:    a.generator,
		MockMode:     a.mockMode,
	}, logger.Logger, serverConfig(cfg.Server))
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	err = config.Watch(reloadHandler(a.orchestrator, logger), func(err error) {
		logger.Warn("config reload failed", zap.Error(err))
	})
	switch {
	case errors.Is(err, config.ErrNoConfigFile):
		logger.Debug("no config file, hot reload disabled")
	case err != nil:
		logger.Warn("config watch disabled", zap.Error(err))
	default:
		logger.Info("watching config", zap.Strings("paths", config.Paths()))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// reloadHandler applies the hot-reloadable settings of a changed config.
// Server settings need a restart.
func reloadHandler(orch *orchestrator.Orchestrator, logger *logging.Logger) func(*config.Config, fsnotify.Event) {
	return func(cfg *config.Config, e fsnotify.Event) {
		orch.SetDefaultModel(cfg.Defaults.Model)
		if logLevelFlag == "" {
			if err := logger.SetLevel(cfg.Log.Level); err != nil {
				logger.Warn("ignoring log level", zap.Error(err))
			}
		}
		logger.Info("config reloaded",
			zap.String("file", e.Name),
			zap.String("default_model", orch.DefaultModel()),
			zap.Stringer("log_level", logger.Level()),
		)
	}
}
