package orchestrator

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/telemetry"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

const (
	summaryLimit = 500
	outputLimit  = 200
)

// Results holds agent outputs keyed by agent id. Iteration follows the
// order in which each agent first produced a result.
type Results struct {
	order []string
	byID  map[string]*models.AgentResult
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{byID: make(map[string]*models.AgentResult)}
}

// Set stores r under its agent id. A later result for the same agent
// replaces the earlier one but keeps its position.
func (rs *Results) Set(r *models.AgentResult) {
	if _, ok := rs.byID[r.Agent]; !ok {
		rs.order = append(rs.order, r.Agent)
	}
	rs.byID[r.Agent] = r
}

// Get returns the result for an agent id.
func (rs *Results) Get(id string) (*models.AgentResult, bool) {
	if rs == nil {
		return nil, false
	}
	r, ok := rs.byID[id]
	return r, ok
}

// IDs returns the agent ids that produced a result.
func (rs *Results) IDs() []string {
	if rs == nil {
		return []string{}
	}
	ids := make([]string, len(rs.order))
	copy(ids, rs.order)
	return ids
}

// All returns the results in order.
func (rs *Results) All() []*models.AgentResult {
	if rs == nil {
		return nil
	}
	out := make([]*models.AgentResult, 0, len(rs.order))
	for _, id := range rs.order {
		out = append(out, rs.byID[id])
	}
	return out
}

// Len returns the number of agents with a result.
func (rs *Results) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.order)
}

// DependencyContext is the digest of an upstream agent's result handed to
// a dependent task.
type DependencyContext struct {
	Role    string   `json:"role"`
	Summary string   `json:"summary"`
	Outputs []string `json:"outputs"`
}

// SortTasks orders tasks by ascending priority, then by ascending number of
// dependencies. The sort is stable and works on a copy.
func SortTasks(tasks []models.Task) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return len(sorted[i].Dependencies) < len(sorted[j].Dependencies)
	})
	return sorted
}

// GatherDependencyContext digests the results of the named dependencies.
// It returns nil when deps is empty or none of them has produced a result.
func GatherDependencyContext(deps []string, results *Results) map[string]DependencyContext {
	if len(deps) == 0 {
		return nil
	}

	ctx := make(map[string]DependencyContext)
	for _, dep := range deps {
		r, ok := results.Get(dep)
		if !ok {
			continue
		}
		outputs := make([]string, 0, len(r.Output))
		for _, o := range r.Output {
			outputs = append(outputs, api.Truncate(o, outputLimit))
		}
		ctx[dep] = DependencyContext{
			Role:    r.Role,
			Summary: api.Truncate(r.Explanation, summaryLimit),
			Outputs: outputs,
		}
	}

	if len(ctx) == 0 {
		return nil
	}
	return ctx
}

// ExecuteAgentTasks runs the plan's tasks one at a time in SortTasks order.
// Tasks naming an unregistered agent are skipped. The first gateway error
// aborts the remaining tasks and is returned unchanged.
func (o *Orchestrator) ExecuteAgentTasks(ctx context.Context, plan *models.ExecutionPlan, model string) (*Results, error) {
	o.logger.Info("executing agent tasks", zap.Int("tasks", len(plan.ExecutionSequence)))

	results := NewResults()
	for _, task := range SortTasks(plan.ExecutionSequence) {
		agent, ok := o.registry.Get(task.Agent)
		if !ok {
			telemetry.SkippedTasks.Inc()
			o.logger.Warn("agent not found, skipping", zap.String("agent", task.Agent))
			continue
		}

		log := o.logger.Named("agent").With(zap.String("role", agent.Role))
		log.Info("starting task", zap.String("task", api.Truncate(task.Task, 60)))

		res, err := o.executeAgentTask(ctx, agent, task, GatherDependencyContext(task.Dependencies, results), model)
		if err != nil {
			return nil, err
		}
		results.Set(res)

		log.Info("task completed")
	}
	return results, nil
}

func (o *Orchestrator) executeAgentTask(ctx context.Context, agent models.AgentDefinition, task models.Task, depCtx map[string]DependencyContext, model string) (*models.AgentResult, error) {
	prompt, err := o.AgentPrompt(agent, task, depCtx)
	if err != nil {
		return nil, err
	}

	gen, err := o.gen.Generate(ctx, prompt, model)
	telemetry.ObserveGatewayCall(telemetry.StageAgent, err)
	if err != nil {
		return nil, err
	}

	capabilities := make([]string, len(agent.Capabilities))
	copy(capabilities, agent.Capabilities)

	return &models.AgentResult{
		Agent:       agent.ID,
		Role:        agent.Role,
		Output:      gen.Code,
		Explanation: gen.Explanation,
		Language:    gen.Language,
		Metadata: models.AgentResultMetadata{
			Timestamp:    o.now().UTC(),
			Model:        model,
			Capabilities: capabilities,
		},
	}, nil
}

// AgentPrompt renders the prompt for a single agent task.
func (o *Orchestrator) AgentPrompt(agent models.AgentDefinition, task models.Task, depCtx map[string]DependencyContext) (string, error) {
	var b strings.Builder
	b.WriteString(agents.Persona(agent))
	b.WriteString("\n\nYOUR SPECIFIC TASK:\n")
	b.WriteString(task.Task)
	b.WriteString("\n\n")

	if depCtx != nil {
		raw, err := marshalIndent(depCtx)
		if err != nil {
			return "", err
		}
		b.WriteString("CONTEXT FROM OTHER AGENTS:\n")
		b.WriteString(raw)
		b.WriteString("\n")
	}

	b.WriteString("\n\n")
	b.WriteString(o.registry.KnowledgeFor(agent))
	b.WriteString("\n\n")
	b.WriteString(deliverableChecklist)
	return b.String(), nil
}

const deliverableChecklist = `Generate your deliverable with:
1. Complete implementation
2. Detailed explanation
3. Best practices applied
4. Any warnings or considerations
5. Next steps or recommendations`
