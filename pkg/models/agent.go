package models

// Well-known agent identifiers from the built-in catalog.
const (
	AgentSupervisor    = "supervisor"
	AgentCodeGenerator = "codeGenerator"
	AgentTesting       = "testingAgent"
	AgentSecurity      = "securityAgent"
	AgentPerformance   = "performanceAgent"
	AgentDocumentation = "documentationAgent"
	AgentArchitect     = "architectAgent"
	AgentDebug         = "debugAgent"
)

// AgentDefinition describes a specialized agent persona.
// Definitions are loaded once at startup and never modified afterwards.
type AgentDefinition struct {
	// ID is the unique registry key for this agent.
	ID string `json:"id" yaml:"id"`
	// Role is the display name used in prompts and results.
	Role string `json:"role" yaml:"role"`
	// Goal is the one-line objective of the agent.
	Goal string `json:"goal" yaml:"goal"`
	// Backstory is descriptive text injected into the agent's prompts.
	Backstory string `json:"backstory,omitempty" yaml:"backstory"`
	// Capabilities are tags used to look up knowledge bundles.
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
	// Priority orders agents by seniority; lower runs earlier.
	Priority int `json:"priority" yaml:"priority"`
}

// AgentInfo is the public projection of an AgentDefinition.
type AgentInfo struct {
	ID           string   `json:"id"`
	Role         string   `json:"role"`
	Goal         string   `json:"goal"`
	Capabilities []string `json:"capabilities"`
}

// Info returns the public projection of the definition.
func (a AgentDefinition) Info() AgentInfo {
	caps := make([]string, len(a.Capabilities))
	copy(caps, a.Capabilities)
	return AgentInfo{
		ID:           a.ID,
		Role:         a.Role,
		Goal:         a.Goal,
		Capabilities: caps,
	}
}
