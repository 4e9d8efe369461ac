package models

// TaskType classifies the overall request.
type TaskType string

const (
	TaskTypeCodeGeneration TaskType = "code_generation"
	TaskTypeDebugging      TaskType = "debugging"
	TaskTypeArchitecture   TaskType = "architecture"
	TaskTypeRefactoring    TaskType = "refactoring"
	TaskTypeFullstack      TaskType = "fullstack"
)

// Valid returns true if the task type is a known value.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeCodeGeneration, TaskTypeDebugging, TaskTypeArchitecture,
		TaskTypeRefactoring, TaskTypeFullstack:
		return true
	default:
		return false
	}
}

// Complexity is the supervisor's estimate of request difficulty.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Valid returns true if the complexity is a known value.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return true
	default:
		return false
	}
}

// Options are the per-request switches accepted by the orchestrator.
type Options struct {
	// IncludeTests adds the testing agent to the default plan.
	IncludeTests bool `json:"includeTests,omitempty"`
	// IncludeSecurity adds the security agent to the default plan.
	IncludeSecurity bool `json:"includeSecurity,omitempty"`
	// IncludePerformance adds the performance agent to the default plan.
	IncludePerformance bool `json:"includePerformance,omitempty"`
	// IncludeDocs adds the documentation agent to the default plan.
	IncludeDocs bool `json:"includeDocs,omitempty"`
	// Model is the gateway model key used for every call in the run.
	Model string `json:"model,omitempty"`
}

// Task is one step of an execution plan, bound to a single agent.
type Task struct {
	// Agent is the registry id of the agent that runs this step.
	Agent string `json:"agent"`
	// Task is the natural-language sub-prompt for the agent.
	Task string `json:"task"`
	// Dependencies are agent ids whose output should be available first.
	Dependencies []string `json:"dependencies"`
	// Priority is the primary ordering key; lower runs earlier.
	Priority int `json:"priority"`
}

// ExecutionPlan is the ordered set of agent tasks for one request.
type ExecutionPlan struct {
	TaskType             TaskType   `json:"taskType"`
	Complexity           Complexity `json:"complexity"`
	RequiredAgents       []string   `json:"requiredAgents"`
	ExecutionSequence    []Task     `json:"executionSequence"`
	ExpectedDeliverables []string   `json:"expectedDeliverables"`
	EstimatedTime        string     `json:"estimatedTime"`
}
