// Package agents holds the static catalog of agent personas and the
// knowledge bundles injected into their prompts.
package agents

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/codenexus/pkg/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// KnowledgeBundle is a block of best-practice text contributed to any agent
// whose capability tags contain Match.
type KnowledgeBundle struct {
	Topic string   `yaml:"topic"`
	Match string   `yaml:"match"`
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type catalog struct {
	Agents    []models.AgentDefinition `yaml:"agents"`
	Knowledge []KnowledgeBundle        `yaml:"knowledge"`
}

// Registry is a read-only lookup table of agent definitions.
// It is safe for concurrent use because nothing mutates it after Load.
type Registry struct {
	agents    []models.AgentDefinition
	byID      map[string]int
	knowledge []KnowledgeBundle
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded catalog.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load(defaultCatalog)
	})
	return defaultRegistry, defaultErr
}

// MustDefault is like Default but panics if the embedded catalog is invalid.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(fmt.Sprintf("agents: invalid embedded catalog: %v", err))
	}
	return r
}

// Load parses a YAML catalog and validates it.
func Load(data []byte) (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	r := &Registry{
		agents:    c.Agents,
		byID:      make(map[string]int, len(c.Agents)),
		knowledge: c.Knowledge,
	}

	for i, a := range c.Agents {
		if a.ID == "" {
			return nil, fmt.Errorf("agent at index %d has no id", i)
		}
		if _, dup := r.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate agent id %q", a.ID)
		}
		r.byID[a.ID] = i
	}

	if _, ok := r.byID[models.AgentSupervisor]; !ok {
		return nil, fmt.Errorf("catalog has no %q agent", models.AgentSupervisor)
	}

	for i, kb := range c.Knowledge {
		if kb.Match == "" {
			return nil, fmt.Errorf("knowledge bundle at index %d has no match", i)
		}
	}

	return r, nil
}

// Get returns the agent with the given id.
func (r *Registry) Get(id string) (models.AgentDefinition, bool) {
	i, ok := r.byID[id]
	if !ok {
		return models.AgentDefinition{}, false
	}
	return r.agents[i], true
}

// Supervisor returns the coordinating agent.
func (r *Registry) Supervisor() models.AgentDefinition {
	a, _ := r.Get(models.AgentSupervisor)
	return a
}

// List returns all agents in catalog order.
func (r *Registry) List() []models.AgentDefinition {
	out := make([]models.AgentDefinition, len(r.agents))
	copy(out, r.agents)
	return out
}

// Info returns the public projection of every agent in catalog order.
func (r *Registry) Info() []models.AgentInfo {
	out := make([]models.AgentInfo, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a.Info())
	}
	return out
}

// Persona renders the identity preamble shared by every prompt an agent sends.
func Persona(a models.AgentDefinition) string {
	return fmt.Sprintf(`You are: %s
Goal: %s
Backstory: %s
Capabilities: %s

You are part of a multi-agent system working collaboratively to deliver high-quality solutions.`,
		a.Role, a.Goal, a.Backstory, strings.Join(a.Capabilities, ", "))
}

// KnowledgeFor returns the knowledge base text relevant to the agent.
// A bundle contributes once if any capability tag contains its match string.
// The result is empty when nothing matches.
func (r *Registry) KnowledgeFor(a models.AgentDefinition) string {
	var lines []string
	for _, kb := range r.knowledge {
		if !matchesAny(a.Capabilities, kb.Match) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", kb.Title, strings.Join(kb.Items, ", ")))
	}

	if len(lines) == 0 {
		return ""
	}
	return "KNOWLEDGE BASE:\n" + strings.Join(lines, "\n")
}

func matchesAny(capabilities []string, substr string) bool {
	for _, c := range capabilities {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}
