package orchestrator

import (
	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/history"
)

// RequiredConfig contains the minimal required configuration for an Orchestrator.
type RequiredConfig struct {
	// Generator serves every text generation call of a run.
	Generator api.Generator
	// Registry is the agent catalog. Defaults to agents.Default when nil.
	Registry *agents.Registry
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

type orchestratorOptions struct {
	recorder     *history.Recorder
	logger       *zap.Logger
	defaultModel string
	mockMode     bool
	retry        RetryPolicies
	sleep        Sleeper
	newRunID     func() string
}

// WithRecorder sets the execution history. A fresh recorder with the
// default capacity is used otherwise.
func WithRecorder(r *history.Recorder) Option {
	return func(o *orchestratorOptions) { o.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithDefaultModel sets the model used when a request names none.
func WithDefaultModel(model string) Option {
	return func(o *orchestratorOptions) { o.defaultModel = model }
}

// WithMockMode makes every run return the canned mock orchestration.
func WithMockMode(b bool) Option {
	return func(o *orchestratorOptions) { o.mockMode = b }
}

// WithRetryPolicies overrides the per-stage rate-limit retry policies.
func WithRetryPolicies(p RetryPolicies) Option {
	return func(o *orchestratorOptions) { o.retry = p }
}

// WithSleeper replaces the backoff sleep (mainly for testing).
func WithSleeper(s Sleeper) Option {
	return func(o *orchestratorOptions) { o.sleep = s }
}

// WithRunIDs replaces the run id generator (mainly for testing).
func WithRunIDs(f func() string) Option {
	return func(o *orchestratorOptions) { o.newRunID = f }
}
