// Package orchestrator runs a user request through the multi-agent pipeline:
// supervisor plan, sequential agent tasks, integration and quality review.
package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/decompose"
	"github.com/ShayCichocki/codenexus/internal/history"
	"github.com/ShayCichocki/codenexus/internal/telemetry"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

// ErrNoGenerator is returned by New when a live orchestrator has no gateway.
var ErrNoGenerator = errors.New("orchestrator: generator is required unless mock mode is enabled")

// Orchestrator coordinates the agents of one deployment. Runs are
// independent and may execute concurrently; the history is shared.
type Orchestrator struct {
	gen      api.Generator
	registry *agents.Registry
	planner  *decompose.Planner
	recorder *history.Recorder
	logger   *zap.Logger

	defaultModel atomic.Pointer[string]
	mockMode     bool
	retry        RetryPolicies
	sleep        Sleeper
	newRunID     func() string
	now          func() time.Time
}

// New creates an Orchestrator.
func New(cfg RequiredConfig, opts ...Option) (*Orchestrator, error) {
	o := orchestratorOptions{
		defaultModel: api.DefaultModel,
		retry:        DefaultRetryPolicies(),
		sleep:        SleepContext,
		newRunID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Generator == nil && !o.mockMode {
		return nil, ErrNoGenerator
	}

	registry := cfg.Registry
	if registry == nil {
		var err error
		if registry, err = agents.Default(); err != nil {
			return nil, err
		}
	}
	if o.recorder == nil {
		o.recorder = history.NewRecorder(history.DefaultCapacity)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	orch := &Orchestrator{
		gen:      cfg.Generator,
		registry: registry,
		planner:  decompose.New(cfg.Generator, registry, o.logger),
		recorder: o.recorder,
		logger:   o.logger.Named("orchestrator"),
		mockMode: o.mockMode,
		retry:    o.retry,
		sleep:    o.sleep,
		newRunID: o.newRunID,
		now:      time.Now,
	}
	orch.SetDefaultModel(o.defaultModel)
	return orch, nil
}

// MockMode reports whether runs short-circuit to the canned response.
func (o *Orchestrator) MockMode() bool {
	return o.mockMode
}

// DefaultModel returns the model used when a request names none.
func (o *Orchestrator) DefaultModel() string {
	return *o.defaultModel.Load()
}

// SetDefaultModel changes the default model for subsequent runs.
// An empty model is ignored.
func (o *Orchestrator) SetDefaultModel(model string) {
	if model == "" {
		return
	}
	o.defaultModel.Store(&model)
}

// Agents describes every registered agent.
func (o *Orchestrator) Agents() []models.AgentInfo {
	return o.registry.Info()
}

// Metrics summarizes the execution history.
func (o *Orchestrator) Metrics() models.Metrics {
	return o.recorder.Metrics()
}

// Orchestrate runs the full pipeline for one request. Up to N+3 gateway
// calls are made strictly in sequence, N being the number of runnable tasks.
// Any failure aborts the run, is logged, and is returned unchanged; a failed
// run is not recorded.
func (o *Orchestrator) Orchestrate(ctx context.Context, request string, opts models.Options) (*models.FinalResult, error) {
	started := time.Now()
	model := opts.Model
	if model == "" {
		model = o.DefaultModel()
	}

	if o.mockMode {
		o.logger.Info("running in mock mode")
		telemetry.ObserveRun(telemetry.OutcomeMock, started)
		return o.mockOrchestration(request, opts), nil
	}

	runID := o.newRunID()
	log := o.logger.With(zap.String("run_id", runID), zap.String("model", model))
	log.Info("starting multi-agent orchestration")

	result, err := o.run(ctx, log, request, opts, model)
	if err != nil {
		log.Error("orchestration failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		telemetry.ObserveRun(telemetry.OutcomeFailed, started)
		return nil, err
	}

	result.RunID = runID
	o.recorder.Record(runID, request, result)
	telemetry.ObserveRun(telemetry.OutcomeCompleted, started)
	log.Info("orchestration completed",
		zap.Strings("agents", result.AgentContributions),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, log *zap.Logger, request string, opts models.Options, model string) (*models.FinalResult, error) {
	plan, err := Retry(ctx, o.retry.Plan, o.sleep, o.retryNotifier(log, telemetry.StagePlan, o.retry.Plan), func() (*models.ExecutionPlan, error) {
		return o.planner.CreateExecutionPlan(ctx, request, opts, model)
	})
	if err != nil {
		return nil, err
	}

	results, err := o.ExecuteAgentTasks(ctx, plan, model)
	if err != nil {
		return nil, err
	}

	integrated, err := Retry(ctx, o.retry.Integrate, o.sleep, o.retryNotifier(log, telemetry.StageIntegrate, o.retry.Integrate), func() (*models.IntegratedResult, error) {
		return o.IntegrateResults(ctx, results, plan, model)
	})
	if err != nil {
		return nil, err
	}

	return Retry(ctx, o.retry.Quality, o.sleep, o.retryNotifier(log, telemetry.StageQuality, o.retry.Quality), func() (*models.FinalResult, error) {
		return o.QualityCheck(ctx, integrated, model)
	})
}

func (o *Orchestrator) retryNotifier(log *zap.Logger, stage string, p RetryPolicy) func(int, time.Duration, error) {
	return func(attempt int, delay time.Duration, err error) {
		telemetry.RateLimitRetries.WithLabelValues(stage).Inc()
		log.Warn("rate limit hit, retrying",
			zap.String("stage", stage),
			zap.Duration("delay", delay),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", p.Attempts),
			zap.Error(err),
		)
	}
}
