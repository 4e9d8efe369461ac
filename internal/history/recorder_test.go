package history

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ShayCichocki/codenexus/pkg/models"
)

func completed(agents ...string) *models.FinalResult {
	return &models.FinalResult{
		IntegratedResult: models.IntegratedResult{AgentContributions: agents},
		Status:           models.StatusCompleted,
	}
}

func TestRecorder_TruncatesRequest(t *testing.T) {
	r := NewRecorder(0)
	long := strings.Repeat("x", 250)

	r.Record("run-1", long, completed(models.AgentCodeGenerator))

	recs := r.Records()
	if len(recs) != 1 {
		t.Fatalf("len(Records()) = %d, want 1", len(recs))
	}
	if len(recs[0].Request) != RequestLimit {
		t.Errorf("len(Request) = %d, want %d", len(recs[0].Request), RequestLimit)
	}
	if recs[0].RunID != "run-1" || recs[0].Status != models.StatusCompleted {
		t.Errorf("record = %+v", recs[0])
	}
	if recs[0].Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestRecorder_EvictsOldest(t *testing.T) {
	r := NewRecorder(DefaultCapacity)

	for i := 1; i <= 101; i++ {
		r.Record(fmt.Sprintf("run-%d", i), fmt.Sprintf("request number %d", i), completed(models.AgentCodeGenerator))
	}

	if r.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", r.Len())
	}
	recs := r.Records()
	for _, rec := range recs {
		if rec.Request == "request number 1" {
			t.Fatal("history still contains the first request")
		}
	}
	if recs[0].Request != "request number 2" {
		t.Errorf("oldest record = %q, want request number 2", recs[0].Request)
	}
	if recs[99].Request != "request number 101" {
		t.Errorf("newest record = %q, want request number 101", recs[99].Request)
	}
}

func TestRecorder_MetricsEmpty(t *testing.T) {
	m := NewRecorder(0).Metrics()

	if m.TotalExecutions != 0 {
		t.Errorf("TotalExecutions = %d, want 0", m.TotalExecutions)
	}
	if m.AgentUsage == nil || len(m.AgentUsage) != 0 {
		t.Errorf("AgentUsage = %#v, want empty map", m.AgentUsage)
	}
	if m.RecentExecutions == nil || len(m.RecentExecutions) != 0 {
		t.Errorf("RecentExecutions = %#v, want empty slice", m.RecentExecutions)
	}
}

func TestRecorder_Metrics(t *testing.T) {
	r := NewRecorder(0)
	for i := 0; i < 12; i++ {
		agents := []string{models.AgentCodeGenerator}
		if i%3 == 0 {
			agents = append(agents, models.AgentTesting)
		}
		r.Record(fmt.Sprintf("run-%d", i), fmt.Sprintf("req %d", i), completed(agents...))
	}

	m := r.Metrics()
	if m.TotalExecutions != 12 {
		t.Errorf("TotalExecutions = %d, want 12", m.TotalExecutions)
	}
	if m.AgentUsage[models.AgentCodeGenerator] != 12 {
		t.Errorf("codeGenerator usage = %d, want 12", m.AgentUsage[models.AgentCodeGenerator])
	}
	if m.AgentUsage[models.AgentTesting] != 4 {
		t.Errorf("testingAgent usage = %d, want 4", m.AgentUsage[models.AgentTesting])
	}
	if len(m.RecentExecutions) != RecentLimit {
		t.Fatalf("len(RecentExecutions) = %d, want %d", len(m.RecentExecutions), RecentLimit)
	}
	if m.RecentExecutions[0].Request != "req 2" || m.RecentExecutions[9].Request != "req 11" {
		t.Errorf("recent window = %q .. %q, want req 2 .. req 11",
			m.RecentExecutions[0].Request, m.RecentExecutions[9].Request)
	}
}

func TestRecorder_ConcurrentRecord(t *testing.T) {
	r := NewRecorder(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record(fmt.Sprintf("run-%d", i), "req", completed(models.AgentCodeGenerator))
			_ = r.Metrics()
		}(i)
	}
	wg.Wait()

	if r.Len() != 50 {
		t.Errorf("Len() = %d, want 50", r.Len())
	}
}

func TestRecorder_CopiesAgentsUsed(t *testing.T) {
	r := NewRecorder(0)
	res := completed(models.AgentCodeGenerator)
	r.Record("run", "req", res)

	res.AgentContributions[0] = "mutated"

	if got := r.Records()[0].AgentsUsed[0]; got != models.AgentCodeGenerator {
		t.Errorf("AgentsUsed[0] = %q, record shares caller's slice", got)
	}
}
