// Package telemetry provides Prometheus metrics for orchestration runs.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway call stages.
const (
	StagePlan      = "plan"
	StageAgent     = "agent"
	StageIntegrate = "integrate"
	StageQuality   = "quality"
)

// Run and call outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeMock      = "mock"
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
)

var (
	// RunsTotal counts orchestration runs.
	// Labels: outcome (completed, failed, mock)
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codenexus",
			Subsystem: "orchestrator",
			Name:      "runs_total",
			Help:      "Total number of orchestration runs by outcome",
		},
		[]string{"outcome"},
	)

	// RunDuration tracks end-to-end orchestration latency.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "codenexus",
			Subsystem: "orchestrator",
			Name:      "run_duration_seconds",
			Help:      "Duration of orchestration runs in seconds",
			Buckets:   []float64{0.1, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// GatewayCallsTotal counts text generation calls.
	// Labels: stage (plan, agent, integrate, quality), outcome (success, error)
	GatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codenexus",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of text generation calls by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	// RateLimitRetries counts backoff retries after upstream throttling.
	// Labels: stage
	RateLimitRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codenexus",
			Subsystem: "gateway",
			Name:      "rate_limit_retries_total",
			Help:      "Total number of retries caused by rate limiting",
		},
		[]string{"stage"},
	)

	// PlanFallbacks counts plans replaced by the default plan.
	// Labels: reason (not_found, decode)
	PlanFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codenexus",
			Subsystem: "planner",
			Name:      "fallbacks_total",
			Help:      "Total number of supervisor plans replaced by the default plan",
		},
		[]string{"reason"},
	)

	// SkippedTasks counts plan tasks naming an unknown agent.
	SkippedTasks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "codenexus",
			Subsystem: "scheduler",
			Name:      "skipped_tasks_total",
			Help:      "Total number of tasks skipped because their agent is not registered",
		},
	)

	// HTTPRequestsTotal counts served HTTP requests.
	// Labels: method, route, status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codenexus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP handler latency.
	// Labels: method, route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codenexus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600},
		},
		[]string{"method", "route"},
	)

	// HistorySize is the current number of execution records held in memory.
	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "codenexus",
			Subsystem: "history",
			Name:      "records",
			Help:      "Current number of execution records in the bounded history",
		},
	)
)

// ObserveGatewayCall records the outcome of one gateway call.
func ObserveGatewayCall(stage string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	GatewayCallsTotal.WithLabelValues(stage, outcome).Inc()
}

// ObserveRun records the outcome and duration of one orchestration run.
func ObserveRun(outcome string, started time.Time) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(time.Since(started).Seconds())
}

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
