// Package decompose turns a user request into an execution plan of agent tasks.
package decompose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/telemetry"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

var (
	errNoPlanJSON = errors.New("no JSON object found in response")
	errEmptyPlan  = errors.New("plan has no execution sequence")
)

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// Planner asks the supervisor agent for an execution plan.
type Planner struct {
	gen      api.Generator
	registry *agents.Registry
	logger   *zap.Logger
}

// New creates a Planner.
func New(gen api.Generator, registry *agents.Registry, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{gen: gen, registry: registry, logger: logger.Named("supervisor")}
}

// Prompt renders the supervisor's planning prompt.
func (p *Planner) Prompt(request string, opts models.Options) string {
	ids := make([]string, 0)
	for _, a := range p.registry.List() {
		if a.ID == models.AgentSupervisor {
			continue
		}
		ids = append(ids, a.ID)
	}

	return fmt.Sprintf(planPrompt,
		agents.Persona(p.registry.Supervisor()),
		request,
		opts.IncludeTests,
		opts.IncludeSecurity,
		opts.IncludePerformance,
		opts.IncludeDocs,
		strings.Join(ids, ", "),
	)
}

// CreateExecutionPlan asks the gateway for a plan and falls back to
// DefaultPlan whenever the response holds no decodable plan.
// Only gateway failures are returned as errors.
func (p *Planner) CreateExecutionPlan(ctx context.Context, request string, opts models.Options, model string) (*models.ExecutionPlan, error) {
	p.logger.Info("analyzing request and creating execution plan")

	gen, err := p.gen.Generate(ctx, p.Prompt(request, opts), model)
	telemetry.ObserveGatewayCall(telemetry.StagePlan, err)
	if err != nil {
		return nil, err
	}

	plan, err := PlanFromGeneration(gen)
	if err != nil {
		reason := "decode"
		if errors.Is(err, errNoPlanJSON) {
			reason = "not_found"
		}
		telemetry.PlanFallbacks.WithLabelValues(reason).Inc()
		p.logger.Warn("failed to parse plan, using default", zap.Error(err))
		return DefaultPlan(request, opts), nil
	}

	p.logger.Info("execution plan created",
		zap.String("task_type", string(plan.TaskType)),
		zap.Strings("agents", plan.RequiredAgents),
		zap.Int("tasks", len(plan.ExecutionSequence)),
	)
	return plan, nil
}

// PlanFromGeneration looks for a plan in the explanation first, then in each
// code block (a fenced plan is moved into the code list by the gateway).
// The first candidate that decodes wins.
func PlanFromGeneration(gen *api.Generation) (*models.ExecutionPlan, error) {
	candidates := append([]string{gen.Explanation}, gen.Code...)

	var firstErr error
	for _, text := range candidates {
		plan, err := ParsePlan(text)
		if err == nil {
			return plan, nil
		}
		if firstErr == nil || errors.Is(firstErr, errNoPlanJSON) {
			firstErr = err
		}
	}
	return nil, firstErr
}

// ExtractPlanJSON locates the first JSON object in free text: a ```json
// fenced block if present, otherwise the span from the first '{' to the last '}'.
func ExtractPlanJSON(text string) (string, bool) {
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return strings.TrimSpace(text[start : end+1]), true
}

// ParsePlan extracts and strictly decodes a plan from free text.
func ParsePlan(text string) (*models.ExecutionPlan, error) {
	raw, ok := ExtractPlanJSON(text)
	if !ok {
		return nil, errNoPlanJSON
	}

	var plan models.ExecutionPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	if len(plan.ExecutionSequence) == 0 {
		return nil, errEmptyPlan
	}
	return &plan, nil
}

// optionalStep is a task appended to the default plan when its option is set.
type optionalStep struct {
	enabled  func(models.Options) bool
	agent    string
	task     string
	priority int
}

var optionalSteps = []optionalStep{
	{func(o models.Options) bool { return o.IncludeTests }, models.AgentTesting, "Create comprehensive tests for the generated code", 2},
	{func(o models.Options) bool { return o.IncludeSecurity }, models.AgentSecurity, "Review code for security vulnerabilities", 2},
	{func(o models.Options) bool { return o.IncludePerformance }, models.AgentPerformance, "Optimize code for performance", 3},
	{func(o models.Options) bool { return o.IncludeDocs }, models.AgentDocumentation, "Create comprehensive documentation", 4},
}

// DefaultPlan builds the deterministic plan used when the supervisor's
// response cannot be parsed. It performs no I/O.
func DefaultPlan(request string, opts models.Options) *models.ExecutionPlan {
	required := []string{models.AgentCodeGenerator}
	sequence := []models.Task{
		{Agent: models.AgentCodeGenerator, Task: request, Dependencies: []string{}, Priority: 1},
	}

	for _, step := range optionalSteps {
		if !step.enabled(opts) {
			continue
		}
		required = append(required, step.agent)
		sequence = append(sequence, models.Task{
			Agent:        step.agent,
			Task:         step.task,
			Dependencies: []string{models.AgentCodeGenerator},
			Priority:     step.priority,
		})
	}

	return &models.ExecutionPlan{
		TaskType:             models.TaskTypeCodeGeneration,
		Complexity:           models.ComplexityModerate,
		RequiredAgents:       required,
		ExecutionSequence:    sequence,
		ExpectedDeliverables: []string{"code", "tests", "documentation"},
		EstimatedTime:        "2-5 minutes",
	}
}
