package fetch

import "time"

// Status is the terminal state of one source's run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSuccess   Status = "success"
	StatusNoResults Status = "no_results"
	StatusError     Status = "error"
	StatusErrorInit Status = "error_init"
	StatusNotFound  Status = "not_found"
)

// SourceStats is the per-source outcome record. Owned by the executor that
// ran the source and handed to the report exactly once at completion.
type SourceStats struct {
	Source     string        `json:"source"`
	Tier       Tier          `json:"tier,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	EndedAt    time.Time     `json:"ended_at"`
	Duration   time.Duration `json:"duration_ns"`
	Variations int           `json:"variations_attempted"`
	Jobs       int           `json:"jobs_found"` // post-dedup count for this source
	Status     Status        `json:"status"`
	Err        string        `json:"error,omitempty"`
}
