package models

import "time"

// StatusCompleted is the terminal status of a successful run.
const StatusCompleted = "completed"

// AgentResultMetadata records how an agent result was produced.
type AgentResultMetadata struct {
	Timestamp    time.Time `json:"timestamp"`
	Model        string    `json:"model"`
	Capabilities []string  `json:"capabilities"`
}

// AgentResult is the output of one executed task.
type AgentResult struct {
	// Agent is the id of the agent that produced the result.
	Agent string `json:"agent"`
	// Role is the agent's display name, copied from the registry.
	Role string `json:"role"`
	// Output holds the generated code blocks.
	Output []string `json:"output"`
	// Explanation is the free-text part of the generation.
	Explanation string `json:"explanation"`
	// Language is the detected language tag.
	Language string              `json:"language"`
	Metadata AgentResultMetadata `json:"metadata"`
}

// IntegratedResult is the consolidated deliverable of all agents.
type IntegratedResult struct {
	Code        []string `json:"code"`
	Explanation string   `json:"explanation"`
	Language    string   `json:"language"`
	// AgentContributions lists the agents that produced a result.
	AgentContributions []string       `json:"agentContributions"`
	ExecutionPlan      *ExecutionPlan `json:"executionPlan"`
}

// FinalResult is returned to the caller of an orchestration run.
type FinalResult struct {
	IntegratedResult
	RunID         string    `json:"runId,omitempty"`
	QualityReport string    `json:"qualityReport,omitempty"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	MockMode      bool      `json:"mockMode,omitempty"`
}

// ExecutionRecord is one entry of the bounded execution history.
type ExecutionRecord struct {
	RunID     string    `json:"runId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	// Request is truncated to the recorder's limit.
	Request    string   `json:"request"`
	Status     string   `json:"status"`
	AgentsUsed []string `json:"agentsUsed"`
}

// Metrics summarizes the execution history.
type Metrics struct {
	TotalExecutions  int               `json:"totalExecutions"`
	AgentUsage       map[string]int    `json:"agentUsage"`
	RecentExecutions []ExecutionRecord `json:"recentExecutions"`
}
