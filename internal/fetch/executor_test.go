package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empleo-engine/internal/domain"
)

// funcSource scripts one connector: the nth Fetch call returns results[n]
// or errs[n].
type funcSource struct {
	name    string
	calls   int
	results [][]domain.Job
	errs    []error
	panicAt int // 1-based call number that panics; 0 = never
}

func (f *funcSource) SourceName() string { return f.name }

func (f *funcSource) Fetch(_ context.Context, _ SearchParams) ([]domain.Job, error) {
	f.calls++
	if f.panicAt > 0 && f.calls == f.panicAt {
		panic("connector blew up")
	}
	i := f.calls - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return nil, nil
}

func job(url string) domain.Job { return domain.Job{Title: "t", URL: url} }

func testExecutor(reg *Registry) *Executor {
	e := NewExecutor(reg)
	e.sleep = func(time.Duration) {}
	return e
}

func nVariations(n int) []SearchParams {
	out := make([]SearchParams, n)
	for i := range out {
		out[i] = SearchParams{Keywords: []string{fmt.Sprintf("kw%d", i)}}
	}
	return out
}

func TestExecutorDedupAcrossVariations(t *testing.T) {
	src := &funcSource{name: "s", results: [][]domain.Job{
		{job("u1"), job("u2")},
		{job("u2"), job("u3")},
	}}
	e := testExecutor(NewRegistry())

	jobs, stats := e.Run(context.Background(), Descriptor{Name: "s", Tier: TierAPI, Source: src}, nVariations(2))

	require.Len(t, jobs, 3)
	assert.Equal(t, StatusSuccess, stats.Status)
	assert.Equal(t, 3, stats.Jobs)
	assert.Equal(t, 2, stats.Variations)
}

func TestExecutorSoftCapStopsVariations(t *testing.T) {
	many := make([]domain.Job, 6)
	for i := range many {
		many[i] = job(fmt.Sprintf("u%d", i))
	}
	src := &funcSource{name: "s", results: [][]domain.Job{many, {job("x")}, {job("y")}}}
	e := testExecutor(NewRegistry())
	e.Cap = 5

	jobs, stats := e.Run(context.Background(), Descriptor{Name: "s", Source: src}, nVariations(3))

	assert.Equal(t, 1, src.calls, "remaining variations skipped after the cap")
	assert.Equal(t, 1, stats.Variations)
	assert.GreaterOrEqual(t, len(jobs), 5)
}

func TestExecutorVariationFailureIsIsolated(t *testing.T) {
	src := &funcSource{
		name: "s",
		results: [][]domain.Job{
			{job("u1")},
			nil,
			{job("u2")},
			{job("u3")},
		},
		errs: []error{nil, errors.New("status 503"), nil, nil},
	}
	reg := NewRegistry()
	e := testExecutor(reg)

	jobs, stats := e.Run(context.Background(), Descriptor{Name: "s", Source: src}, nVariations(4))

	require.Len(t, jobs, 3, "records from variations 1, 3, 4 survive")
	assert.Equal(t, StatusSuccess, stats.Status)
	assert.Equal(t, 4, stats.Variations)

	s := reg.Summary()
	assert.Equal(t, 1, s.PerCategory[string(CategoryVariation)])
}

func TestExecutorNoResults(t *testing.T) {
	src := &funcSource{name: "s"}
	e := testExecutor(NewRegistry())

	jobs, stats := e.Run(context.Background(), Descriptor{Name: "s", Source: src}, nVariations(3))

	assert.Empty(t, jobs)
	assert.Equal(t, StatusNoResults, stats.Status)
	assert.Equal(t, 3, stats.Variations)
	assert.False(t, stats.StartedAt.IsZero())
	assert.False(t, stats.EndedAt.IsZero())
}

func TestExecutorPanicBecomesFetchError(t *testing.T) {
	src := &funcSource{name: "s", panicAt: 2, results: [][]domain.Job{{job("u1")}}}
	reg := NewRegistry()
	e := testExecutor(reg)

	jobs, stats := e.Run(context.Background(), Descriptor{Name: "s", Source: src}, nVariations(3))

	assert.Empty(t, jobs, "whole-source failure excludes the source")
	assert.Equal(t, StatusError, stats.Status)
	assert.NotEmpty(t, stats.Err)
	assert.Equal(t, 1, reg.Summary().PerCategory[string(CategoryFetch)])
	assert.False(t, stats.EndedAt.IsZero(), "timing stamped on the failure path too")
}

func TestExecutorBackfillsProvenance(t *testing.T) {
	src := &funcSource{name: "computrabajo", results: [][]domain.Job{
		{{Title: "t", URL: "u1"}, {Title: "t", URL: "u2", Source: "other"}},
	}}
	e := testExecutor(NewRegistry())

	jobs, _ := e.Run(context.Background(), Descriptor{Name: "computrabajo", Source: src}, nVariations(1))

	require.Len(t, jobs, 2)
	assert.Equal(t, "computrabajo", jobs[0].Source)
	assert.Equal(t, "other", jobs[1].Source, "existing provenance untouched")
}

func TestExecutorSkipsRecordsWithoutURL(t *testing.T) {
	src := &funcSource{name: "s", results: [][]domain.Job{
		{{Title: "no url"}, job("u1")},
	}}
	e := testExecutor(NewRegistry())

	jobs, stats := e.Run(context.Background(), Descriptor{Name: "s", Source: src}, nVariations(1))

	require.Len(t, jobs, 1)
	assert.Equal(t, 1, stats.Jobs)
}
