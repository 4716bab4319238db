package fetch

import (
	"sync"
	"time"
)

// Category classifies a recorded failure.
type Category string

const (
	CategoryInit      Category = "init_error"      // connector construction failed
	CategoryVariation Category = "variation_error" // one parameter set failed, source continued
	CategoryFetch     Category = "fetch_error"     // whole-source loop failed, source excluded
	CategoryNotFound  Category = "not_found"       // configured name has no registered connector
)

// ErrorEntry is one classified failure. Append-only, never mutated.
type ErrorEntry struct {
	Category Category  `json:"category"`
	Source   string    `json:"source"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Registry is the run-scoped failure log. Constructed fresh per run and
// passed by reference into every executor task; safe for concurrent use.
// Registration is best-effort and must never block fetch progress.
type Registry struct {
	mu      sync.Mutex
	entries []ErrorEntry
}

func NewRegistry() *Registry { return &Registry{} }

// Register appends one classified failure. Never fails.
func (r *Registry) Register(cat Category, source, message string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.entries = append(r.entries, ErrorEntry{
		Category: cat,
		Source:   source,
		Message:  message,
		At:       time.Now().UTC(),
	})
	r.mu.Unlock()
}

// Clear resets the registry at the start of a run.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

// Entries returns a copy of everything recorded so far.
func (r *Registry) Entries() []ErrorEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ErrorEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Summary aggregates counts per category and per source for the run report.
type Summary struct {
	Total       int            `json:"total"`
	PerCategory map[string]int `json:"per_category,omitempty"`
	PerSource   map[string]int `json:"per_source,omitempty"`
}

func (r *Registry) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Summary{Total: len(r.entries)}
	if len(r.entries) == 0 {
		return s
	}
	s.PerCategory = make(map[string]int)
	s.PerSource = make(map[string]int)
	for _, e := range r.entries {
		s.PerCategory[string(e.Category)]++
		s.PerSource[e.Source]++
	}
	return s
}

// genericFallbackTerms is the last-resort keyword set tried when everything
// derived from configuration came up empty.
var genericFallbackTerms = []string{"software", "developer", "programador", "web", "data"}

// DeriveRobustVariations proposes narrower parameter sets likely to succeed
// where the coverage-complete base failed: a head slice, a high-signal
// technical subset, a location-free slice, and a generic fallback. Pure:
// it does not read the registry's contents, so the generator stays
// deterministic and testable. Biasing on recorded categories is a possible
// extension, configured here rather than in the scheduler.
func (r *Registry) DeriveRobustVariations(base SearchParams) []SearchParams {
	var out []SearchParams

	if len(base.Keywords) > 5 {
		out = append(out, SearchParams{Keywords: base.Keywords[:3], Location: base.Location})

		if len(base.Keywords) > 10 {
			if tech := pickHighSignal(base.Keywords, 5); len(tech) > 0 {
				out = append(out, SearchParams{Keywords: tech, Location: base.Location})
			}
		}
	}

	if len(base.Keywords) > 0 {
		out = append(out, SearchParams{Keywords: firstN(base.Keywords, 5)})
	}

	out = append(out, SearchParams{Keywords: genericFallbackTerms, Location: base.Location})
	return out
}
