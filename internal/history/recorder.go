package history

import (
	"sync"
	"time"

	"github.com/ShayCichocki/codenexus/internal/telemetry"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

const (
	// DefaultCapacity is the number of records kept before eviction.
	DefaultCapacity = 100
	// RequestLimit is the number of request characters stored per record.
	RequestLimit = 200
	// RecentLimit is the number of records reported as recent executions.
	RecentLimit = 10
)

// Recorder appends execution records to a bounded history and derives
// usage metrics from it. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	ring *Ring[models.ExecutionRecord]
	now  func() time.Time
}

// NewRecorder creates a recorder with the given capacity (DefaultCapacity if <= 0).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		ring: NewRing[models.ExecutionRecord](capacity),
		now:  time.Now,
	}
}

// Record appends one entry for a finished run.
func (r *Recorder) Record(runID, request string, result *models.FinalResult) {
	agentsUsed := make([]string, len(result.AgentContributions))
	copy(agentsUsed, result.AgentContributions)

	rec := models.ExecutionRecord{
		RunID:      runID,
		Timestamp:  r.now().UTC(),
		Request:    truncate(request, RequestLimit),
		Status:     result.Status,
		AgentsUsed: agentsUsed,
	}

	r.mu.Lock()
	r.ring.Push(rec)
	size := r.ring.Len()
	r.mu.Unlock()

	telemetry.HistorySize.Set(float64(size))
}

// Len returns the number of records currently held.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ring.Len()
}

// Records returns a copy of the history, oldest first.
func (r *Recorder) Records() []models.ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ring.Snapshot()
}

// Metrics scans the current history. No counters are kept between calls,
// so the result always reflects the records presently held.
func (r *Recorder) Metrics() models.Metrics {
	r.mu.Lock()
	all := r.ring.Snapshot()
	recent := r.ring.Last(RecentLimit)
	r.mu.Unlock()

	usage := make(map[string]int)
	for _, rec := range all {
		for _, id := range rec.AgentsUsed {
			usage[id]++
		}
	}

	return models.Metrics{
		TotalExecutions:  len(all),
		AgentUsage:       usage,
		RecentExecutions: recent,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
