package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/telemetry"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

const integrationTask = `INTEGRATION TASK:
Combine all agent outputs into a cohesive, production-ready deliverable that:
1. Incorporates all code from agents in logical structure
2. Ensures compatibility between different agent outputs
3. Resolves any conflicts or overlaps
4. Maintains best practices from all agents
5. Creates a complete, deployable solution

Provide:
1. Integrated code files with clear file structure
2. Overall explanation of the solution
3. Setup and deployment instructions
4. Agent contribution summary`

const qualityTask = `QUALITY CHECK TASK:
Review the integrated solution and verify:
1. All requirements from the original request are met
2. Code follows best practices
3. No security vulnerabilities
4. Proper error handling
5. Code is maintainable and scalable
6. Documentation is complete

Provide a quality report and any final recommendations.`

// IntegrationPrompt renders the prompt that merges all agent outputs.
func IntegrationPrompt(results *Results, plan *models.ExecutionPlan) (string, error) {
	rawPlan, err := marshalIndent(plan)
	if err != nil {
		return "", err
	}

	sections := make([]string, 0, results.Len())
	for _, r := range results.All() {
		code := strings.Join(r.Output, "\n\n")
		if code == "" {
			code = "No code generated"
		}
		sections = append(sections, fmt.Sprintf("\n--- %s ---\n%s\nCODE:\n%s\n", r.Role, r.Explanation, code))
	}

	return fmt.Sprintf("You are integrating outputs from multiple specialized agents.\n\nEXECUTION PLAN:\n%s\n\nAGENT OUTPUTS:\n%s\n\n%s",
		rawPlan, strings.Join(sections, "\n\n"), integrationTask), nil
}

// IntegrateResults asks the gateway to merge the agent outputs into one
// deliverable. Contributions list every agent that produced a result.
func (o *Orchestrator) IntegrateResults(ctx context.Context, results *Results, plan *models.ExecutionPlan, model string) (*models.IntegratedResult, error) {
	o.logger.Info("integrating agent results", zap.Int("agents", results.Len()))

	prompt, err := IntegrationPrompt(results, plan)
	if err != nil {
		return nil, err
	}

	gen, err := o.gen.Generate(ctx, prompt, model)
	telemetry.ObserveGatewayCall(telemetry.StageIntegrate, err)
	if err != nil {
		return nil, err
	}

	return &models.IntegratedResult{
		Code:               gen.Code,
		Explanation:        gen.Explanation,
		Language:           gen.Language,
		AgentContributions: results.IDs(),
		ExecutionPlan:      plan,
	}, nil
}

// QualityPrompt renders the supervisor's review prompt.
func QualityPrompt(supervisor models.AgentDefinition, integrated *models.IntegratedResult) string {
	return fmt.Sprintf("%s\n\nINTEGRATED SOLUTION:\n%s\n\nCODE:\n%s\n\n%s",
		agents.Persona(supervisor),
		integrated.Explanation,
		strings.Join(integrated.Code, "\n\n"),
		qualityTask,
	)
}

// QualityCheck has the supervisor review the integrated result. The
// review's explanation is attached verbatim as the quality report.
func (o *Orchestrator) QualityCheck(ctx context.Context, integrated *models.IntegratedResult, model string) (*models.FinalResult, error) {
	o.logger.Named("supervisor").Info("performing final quality check")

	gen, err := o.gen.Generate(ctx, QualityPrompt(o.registry.Supervisor(), integrated), model)
	telemetry.ObserveGatewayCall(telemetry.StageQuality, err)
	if err != nil {
		return nil, err
	}

	return &models.FinalResult{
		IntegratedResult: *integrated,
		QualityReport:    gen.Explanation,
		Status:           models.StatusCompleted,
		Timestamp:        o.now().UTC(),
	}, nil
}

// marshalIndent renders v as two-space indented JSON without HTML escaping,
// so generated markup reaches the model as written.
func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal prompt context: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
