package agents

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/codenexus/pkg/models"
)

func TestDefault_HasAllAgents(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	want := []struct {
		id       string
		priority int
	}{
		{models.AgentSupervisor, 1},
		{models.AgentCodeGenerator, 2},
		{models.AgentTesting, 3},
		{models.AgentSecurity, 3},
		{models.AgentPerformance, 4},
		{models.AgentDocumentation, 4},
		{models.AgentArchitect, 2},
		{models.AgentDebug, 2},
	}

	list := r.List()
	if len(list) != len(want) {
		t.Fatalf("len(List()) = %d, want %d", len(list), len(want))
	}

	for i, w := range want {
		if list[i].ID != w.id {
			t.Errorf("List()[%d].ID = %q, want %q", i, list[i].ID, w.id)
		}
		a, ok := r.Get(w.id)
		if !ok {
			t.Errorf("Get(%q) not found", w.id)
			continue
		}
		if a.Priority != w.priority {
			t.Errorf("%s priority = %d, want %d", w.id, a.Priority, w.priority)
		}
		if a.Role == "" || a.Goal == "" || len(a.Capabilities) == 0 {
			t.Errorf("%s has empty role, goal or capabilities: %+v", w.id, a)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	r := MustDefault()
	if _, ok := r.Get("wizardAgent"); ok {
		t.Error("Get(wizardAgent) should not be found")
	}
}

func TestInfo(t *testing.T) {
	info := MustDefault().Info()
	if len(info) != 8 {
		t.Fatalf("len(Info()) = %d, want 8", len(info))
	}
	for _, a := range info {
		if a.ID == "" || a.Role == "" || a.Goal == "" || len(a.Capabilities) == 0 {
			t.Errorf("incomplete agent info: %+v", a)
		}
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	r := MustDefault()
	list := r.List()
	list[0].Role = "mutated"

	if r.Supervisor().Role == "mutated" {
		t.Error("List() exposes internal storage")
	}
}

func TestPersona(t *testing.T) {
	a, _ := MustDefault().Get(models.AgentCodeGenerator)
	p := Persona(a)

	for _, want := range []string{"You are: Code Generation Agent", "Goal:", "Backstory:", "Capabilities: react, node"} {
		if !strings.Contains(p, want) {
			t.Errorf("Persona() missing %q:\n%s", want, p)
		}
	}
}

func TestKnowledgeFor(t *testing.T) {
	r := MustDefault()

	tests := []struct {
		name         string
		capabilities []string
		contains     []string
		empty        bool
	}{
		{"react capabilities", []string{"react", "node"}, []string{"React Best Practices"}, false},
		{"security capabilities", []string{"security_audit", "vulnerability_scan"}, []string{"Security Guidelines", "Parameterized queries"}, false},
		{"performance capabilities", []string{"performance_analysis"}, []string{"Performance Optimizations", "Lazy loading"}, false},
		{"testing capabilities", []string{"unit_tests"}, []string{"Testing Strategy", "Unit Tests (70%)"}, false},
		{"no match", []string{"unknown_capability"}, nil, true},
		{"no capabilities", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.KnowledgeFor(models.AgentDefinition{Capabilities: tt.capabilities})
			if tt.empty {
				if got != "" {
					t.Errorf("KnowledgeFor() = %q, want empty", got)
				}
				return
			}
			if !strings.HasPrefix(got, "KNOWLEDGE BASE:\n") {
				t.Errorf("KnowledgeFor() = %q, want KNOWLEDGE BASE prefix", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("KnowledgeFor() missing %q", want)
				}
			}
		})
	}
}

func TestKnowledgeFor_BundleOncePerAgent(t *testing.T) {
	a, _ := MustDefault().Get(models.AgentTesting)
	got := MustDefault().KnowledgeFor(a)

	if n := strings.Count(got, "Testing Strategy"); n != 1 {
		t.Errorf("Testing Strategy appears %d times, want 1", n)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing supervisor",
			yaml:    "agents:\n  - id: codeGenerator\n",
			wantErr: "no \"supervisor\" agent",
		},
		{
			name:    "duplicate id",
			yaml:    "agents:\n  - id: supervisor\n  - id: supervisor\n",
			wantErr: "duplicate agent id",
		},
		{
			name:    "empty id",
			yaml:    "agents:\n  - role: Nobody\n",
			wantErr: "has no id",
		},
		{
			name:    "bundle without match",
			yaml:    "agents:\n  - id: supervisor\nknowledge:\n  - topic: x\n",
			wantErr: "has no match",
		},
		{
			name:    "invalid yaml",
			yaml:    "agents: [",
			wantErr: "unmarshal catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
