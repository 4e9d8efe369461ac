package decompose

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

// stubGenerator feeds raw model text through the gateway's post-processing.
type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt, model string) (*api.Generation, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &api.Generation{
		Code:        api.ExtractCode(s.text),
		Explanation: api.ExtractExplanation(s.text),
		Language:    api.DetectLanguage(s.text),
		Model:       model,
	}, nil
}

const supervisorPlan = `{
  "taskType": "fullstack",
  "complexity": "complex",
  "requiredAgents": ["architectAgent", "codeGenerator"],
  "executionSequence": [
    {"agent": "architectAgent", "task": "Design the system", "dependencies": [], "priority": 1},
    {"agent": "codeGenerator", "task": "Implement it", "dependencies": ["architectAgent"], "priority": 2}
  ],
  "expectedDeliverables": ["design", "code"],
  "estimatedTime": "10 minutes"
}`

func TestDefaultPlan_NoOptions(t *testing.T) {
	plan := DefaultPlan("Test request", models.Options{})

	if !reflect.DeepEqual(plan.RequiredAgents, []string{models.AgentCodeGenerator}) {
		t.Errorf("RequiredAgents = %v, want [codeGenerator]", plan.RequiredAgents)
	}
	if len(plan.ExecutionSequence) != 1 {
		t.Fatalf("len(ExecutionSequence) = %d, want 1", len(plan.ExecutionSequence))
	}

	task := plan.ExecutionSequence[0]
	if task.Agent != models.AgentCodeGenerator {
		t.Errorf("Agent = %q, want codeGenerator", task.Agent)
	}
	if task.Task != "Test request" {
		t.Errorf("Task = %q, want the raw request", task.Task)
	}
	if len(task.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want none", task.Dependencies)
	}
	if task.Priority != 1 {
		t.Errorf("Priority = %d, want 1", task.Priority)
	}

	if plan.TaskType != models.TaskTypeCodeGeneration || plan.Complexity != models.ComplexityModerate {
		t.Errorf("TaskType/Complexity = %q/%q", plan.TaskType, plan.Complexity)
	}
	if plan.EstimatedTime == "" || len(plan.ExpectedDeliverables) == 0 {
		t.Error("EstimatedTime and ExpectedDeliverables should be set")
	}
}

func TestDefaultPlan_OptionCombinations(t *testing.T) {
	type flag struct {
		set      func(*models.Options)
		agent    string
		priority int
	}
	flags := []flag{
		{func(o *models.Options) { o.IncludeTests = true }, models.AgentTesting, 2},
		{func(o *models.Options) { o.IncludeSecurity = true }, models.AgentSecurity, 2},
		{func(o *models.Options) { o.IncludePerformance = true }, models.AgentPerformance, 3},
		{func(o *models.Options) { o.IncludeDocs = true }, models.AgentDocumentation, 4},
	}

	for mask := 0; mask < 1<<len(flags); mask++ {
		var opts models.Options
		wantAgents := []string{models.AgentCodeGenerator}
		wantPriorities := []int{1}
		for i, f := range flags {
			if mask&(1<<i) != 0 {
				f.set(&opts)
				wantAgents = append(wantAgents, f.agent)
				wantPriorities = append(wantPriorities, f.priority)
			}
		}

		// Build twice to check that nothing accumulates across calls.
		DefaultPlan("r", opts)
		plan := DefaultPlan("r", opts)

		if !reflect.DeepEqual(plan.RequiredAgents, wantAgents) {
			t.Errorf("mask %04b: RequiredAgents = %v, want %v", mask, plan.RequiredAgents, wantAgents)
			continue
		}
		if len(plan.ExecutionSequence) != len(wantAgents) {
			t.Errorf("mask %04b: %d tasks, want %d", mask, len(plan.ExecutionSequence), len(wantAgents))
			continue
		}
		for i, task := range plan.ExecutionSequence {
			if task.Agent != wantAgents[i] || task.Priority != wantPriorities[i] {
				t.Errorf("mask %04b: task %d = %s/%d, want %s/%d", mask, i, task.Agent, task.Priority, wantAgents[i], wantPriorities[i])
			}
			if i > 0 && !reflect.DeepEqual(task.Dependencies, []string{models.AgentCodeGenerator}) {
				t.Errorf("mask %04b: %s dependencies = %v, want [codeGenerator]", mask, task.Agent, task.Dependencies)
			}
		}
	}
}

func TestExtractPlanJSON(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"object in prose", "Plan follows {\"a\": {\"b\": 2}} thanks", `{"a": {"b": 2}}`, true},
		{"fenced json", "x {not this}\n```json\n{\"a\": 1}\n```\n", `{"a": 1}`, true},
		{"no braces", "plain text", "", false},
		{"reversed braces", "} then {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPlanJSON(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractPlanJSON() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan("Here is the plan:\n" + supervisorPlan + "\nLet me know.")
	if err != nil {
		t.Fatalf("ParsePlan failed: %v", err)
	}
	if plan.TaskType != models.TaskTypeFullstack {
		t.Errorf("TaskType = %q, want fullstack", plan.TaskType)
	}
	if len(plan.ExecutionSequence) != 2 || plan.ExecutionSequence[1].Dependencies[0] != models.AgentArchitect {
		t.Errorf("ExecutionSequence = %+v", plan.ExecutionSequence)
	}
}

func TestParsePlan_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no json", "No JSON here"},
		{"malformed", "{invalid json}"},
		{"wrong types", `{"executionSequence": [{"agent": "codeGenerator", "priority": "high"}]}`},
		{"empty sequence", `{"taskType": "debugging", "executionSequence": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePlan(tt.text); err == nil {
				t.Error("ParsePlan should fail")
			}
		})
	}
}

func TestCreateExecutionPlan_UsesSupervisorPlan(t *testing.T) {
	stub := &stubGenerator{text: supervisorPlan}
	p := New(stub, agents.MustDefault(), nil)

	plan, err := p.CreateExecutionPlan(context.Background(), "Build a shop", models.Options{IncludeTests: true}, api.DefaultModel)
	if err != nil {
		t.Fatalf("CreateExecutionPlan failed: %v", err)
	}
	if plan.TaskType != models.TaskTypeFullstack || len(plan.ExecutionSequence) != 2 {
		t.Errorf("plan = %+v, want the supervisor's plan", plan)
	}

	if len(stub.prompts) != 1 {
		t.Fatalf("gateway called %d times, want 1", len(stub.prompts))
	}
	prompt := stub.prompts[0]
	for _, want := range []string{"You are: Supervisor Agent", "USER REQUEST:\nBuild a shop", "- Include Tests: true", "- Include Documentation: false", "Available agents: codeGenerator"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCreateExecutionPlan_FencedPlan(t *testing.T) {
	stub := &stubGenerator{text: "Sure! Here's the plan:\n```json\n" + supervisorPlan + "\n```\nHope it helps."}
	p := New(stub, agents.MustDefault(), nil)

	plan, err := p.CreateExecutionPlan(context.Background(), "Build a shop", models.Options{}, api.DefaultModel)
	if err != nil {
		t.Fatalf("CreateExecutionPlan failed: %v", err)
	}
	if plan.TaskType != models.TaskTypeFullstack {
		t.Errorf("TaskType = %q, want fullstack from the fenced block", plan.TaskType)
	}
}

func TestCreateExecutionPlan_FallsBackToDefault(t *testing.T) {
	responses := []string{
		"I cannot produce a plan right now.",
		"{\"taskType\": broken",
		"Here: {\"executionSequence\": []}",
	}

	for _, text := range responses {
		t.Run(text, func(t *testing.T) {
			opts := models.Options{IncludeSecurity: true, IncludeDocs: true}
			p := New(&stubGenerator{text: text}, agents.MustDefault(), nil)

			plan, err := p.CreateExecutionPlan(context.Background(), "Create a login form", opts, api.DefaultModel)
			if err != nil {
				t.Fatalf("CreateExecutionPlan failed: %v", err)
			}

			want := DefaultPlan("Create a login form", opts)
			if !reflect.DeepEqual(plan, want) {
				t.Errorf("plan = %+v, want default plan %+v", plan, want)
			}
		})
	}
}

func TestCreateExecutionPlan_GatewayError(t *testing.T) {
	boom := errors.New("upstream down")
	p := New(&stubGenerator{err: boom}, agents.MustDefault(), nil)

	_, err := p.CreateExecutionPlan(context.Background(), "x", models.Options{}, api.DefaultModel)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
