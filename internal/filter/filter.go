// Package filter keeps only the listings the configured criteria care
// about. Matching is accent- and case-insensitive via process.Fold.
package filter

import (
	"strings"

	"empleo-engine/internal/config"
	"empleo-engine/internal/domain"
	"empleo-engine/internal/process"
)

type Filter struct {
	include  []string // keyword terms; empty = keep all
	exclude  []string // keyword terms; any hit drops the job
	locAllow []string
	locBlock []string
}

func New(cfg config.Config) *Filter {
	return &Filter{
		include:  foldAll(cfg.Filters.KeywordsInclude),
		exclude:  foldAll(cfg.Filters.KeywordsExclude),
		locAllow: foldAll(cfg.Filters.LocationsInclude),
		locBlock: foldAll(cfg.Filters.LocationsExclude),
	}
}

// Keep reports whether the job passes, and the reason when it does not.
func (f *Filter) Keep(j domain.Job) (bool, string) {
	text := process.Fold(j.Title + " " + j.Description)
	loc := process.Fold(j.Location)

	for _, t := range f.exclude {
		if strings.Contains(text, t) {
			return false, "excluded keyword: " + t
		}
	}
	if len(f.include) > 0 && !containsAny(text, f.include) {
		return false, "no included keyword matched"
	}

	for _, t := range f.locBlock {
		if strings.Contains(loc, t) {
			return false, "blocked location: " + t
		}
	}
	if len(f.locAllow) > 0 && !containsAny(loc, f.locAllow) && !strings.Contains(loc, "remote") {
		return false, "location not allowed"
	}

	return true, ""
}

// Jobs returns the subset that passes the filter.
func (f *Filter) Jobs(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if ok, _ := f.Keep(j); ok {
			out = append(out, j)
		}
	}
	return out
}

func containsAny(hay string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(hay, t) {
			return true
		}
	}
	return false
}

func foldAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		out = append(out, process.Fold(x))
	}
	return out
}
