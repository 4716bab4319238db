package fetch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Report is the run-level outcome: every attempted source's stats plus the
// aggregate counters. Writes are serialized; reads for serialization happen
// only after Finalize.
type Report struct {
	mu sync.Mutex

	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	// DurationSeconds is wall clock for the whole run, filled by Finalize.
	DurationSeconds float64 `json:"duration_seconds"`

	Sources struct {
		Total      int                    `json:"total"`
		Successful int                    `json:"successful"`
		Failed     int                    `json:"failed"`
		Details    map[string]SourceStats `json:"details"`
	} `json:"sources"`

	Jobs struct {
		TotalRaw int `json:"total_raw"`
	} `json:"jobs"`

	SuccessfulSources []string `json:"successful_sources"`
	FailedSources     []string `json:"failed_sources"`

	Errors Summary `json:"error_summary"`
}

func NewReport() *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	r.Sources.Details = make(map[string]SourceStats)
	return r
}

// Add records one source's terminal stats. A source lands in exactly one of
// the successful/failed lists, decided by its status.
func (r *Report) Add(stats SourceStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sources.Details[stats.Source] = stats
	r.Sources.Total++
	if stats.Status == StatusSuccess {
		r.Sources.Successful++
		r.SuccessfulSources = append(r.SuccessfulSources, stats.Source)
	} else {
		r.Sources.Failed++
		r.FailedSources = append(r.FailedSources, stats.Source)
	}
}

// Finalize stamps the end time, the raw record total, and the registry
// summary. Called once, after all tier pools have joined.
func (r *Report) Finalize(totalRaw int, reg *Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.EndedAt = time.Now().UTC()
	r.DurationSeconds = r.EndedAt.Sub(r.StartedAt).Seconds()
	r.Jobs.TotalRaw = totalRaw
	if reg != nil {
		r.Errors = reg.Summary()
	}
}

// Stats returns a copy of one source's recorded stats.
func (r *Report) Stats(source string) (SourceStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Sources.Details[source]
	return s, ok
}
