package domain

// Job is a single listing as returned by a connector. Until it has gone
// through process/filter it is "raw": unvalidated and unnormalized. The
// fetch orchestrator only ever reads URL (dedup key) and Source
// (provenance); every other field is opaque to it.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary,omitempty"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	PostedAt    string `json:"posted_at,omitempty"` // as published by the source, not parsed
}
