package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/config"
	"github.com/ShayCichocki/codenexus/internal/history"
	"github.com/ShayCichocki/codenexus/internal/logging"
	"github.com/ShayCichocki/codenexus/internal/orchestrator"
	"github.com/ShayCichocki/codenexus/internal/server"
)

// app holds the collaborators shared by serve and orchestrate.
type app struct {
	cfg          *config.Config
	logger       *logging.Logger
	generator    api.Generator
	orchestrator *orchestrator.Orchestrator
	mockMode     bool
}

// newApp wires the gateway, agent registry, history and orchestrator from cfg.
func newApp(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*app, error) {
	registry, err := agents.Default()
	if err != nil {
		return nil, fmt.Errorf("load agent registry: %w", err)
	}

	mock := config.MockMode()
	gen, err := newGenerator(ctx, cfg, logger.Logger, mock)
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(
		orchestrator.RequiredConfig{Generator: gen, Registry: registry},
		orchestrator.WithLogger(logger.Logger),
		orchestrator.WithRecorder(history.NewRecorder(cfg.Defaults.HistoryCapacity)),
		orchestrator.WithDefaultModel(cfg.Defaults.Model),
		orchestrator.WithMockMode(mock),
		orchestrator.WithRetryPolicies(retryPolicies(cfg.Retry)),
	)
	if err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		generator:    gen,
		orchestrator: orch,
		mockMode:     mock,
	}, nil
}

// logUsage reports the tokens spent through the Bedrock client. The mock
// gateway spends none and logs nothing.
func (a *app) logUsage() {
	client, ok := a.generator.(*api.Client)
	if !ok {
		return
	}
	input, output := client.Tracker().Total()
	a.logger.Info("token usage",
		zap.Int64("input_tokens", input),
		zap.Int64("output_tokens", output),
		zap.Int("calls", client.Tracker().Calls()),
	)
}

// newGenerator creates the Bedrock client, or the mock gateway when no AWS
// credentials are present.
func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger, mock bool) (api.Generator, error) {
	gwLogger := logger.Named("gateway")
	if mock {
		gwLogger.Warn("no AWS credentials found, running in mock mode")
		return api.NewMockGenerator(gwLogger), nil
	}
	if config.GetCredentialSource() == config.CredentialSourcePartial {
		gwLogger.Warn("only one of the AWS credential variables is set",
			zap.String(config.EnvAccessKeyID, config.MaskKey(os.Getenv(config.EnvAccessKeyID))))
	}

	client, err := api.NewClient(ctx, api.ClientConfig{
		AWSRegion:  cfg.Bedrock.Region,
		AWSProfile: cfg.Bedrock.Profile,
		MaxTokens:  cfg.Bedrock.MaxTokens,
		Logger:     gwLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	return client, nil
}

// retryPolicies maps the configured per-stage retry settings.
func retryPolicies(rc config.RetryConfig) orchestrator.RetryPolicies {
	return orchestrator.RetryPolicies{
		Plan:      orchestrator.RetryPolicy{Attempts: rc.Plan.Attempts, BaseDelay: rc.Plan.BaseDelay},
		Integrate: orchestrator.RetryPolicy{Attempts: rc.Integrate.Attempts, BaseDelay: rc.Integrate.BaseDelay},
		Quality:   orchestrator.RetryPolicy{Attempts: rc.Quality.Attempts, BaseDelay: rc.Quality.BaseDelay},
	}
}

// serverConfig maps the configured HTTP settings.
func serverConfig(sc config.ServerConfig) *server.Config {
	return &server.Config{
		Host:        sc.Host,
		Port:        sc.Port,
		Production:  sc.IsProduction(),
		CORSOrigins: sc.CORSOrigins,
		BodyLimit:   sc.BodyLimit,
		RateLimit:   sc.RateLimit.Requests,
		RateWindow:  sc.RateLimit.Window,
	}
}

// loadConfig loads configuration and builds the logger, honoring --log-level.
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}
