package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empleo-engine/internal/domain"
)

func testScheduler(reg *Registry) *Scheduler {
	s := NewScheduler(reg)
	s.Executor.sleep = func(time.Duration) {}
	return s
}

// tierProbe counts completed API fetches and records whether any scrape
// fetch started before the API tier fully drained.
type tierProbe struct {
	apiTotal  int32
	apiDone   atomic.Int32
	violation atomic.Bool
}

type probeSource struct {
	name  string
	tier  Tier
	probe *tierProbe
}

func (p *probeSource) SourceName() string { return p.name }

func (p *probeSource) Fetch(_ context.Context, _ SearchParams) ([]domain.Job, error) {
	if p.tier == TierScrape {
		if p.probe.apiDone.Load() != p.probe.apiTotal {
			p.probe.violation.Store(true)
		}
		return []domain.Job{{Title: "t", URL: "scrape://" + p.name}}, nil
	}
	time.Sleep(10 * time.Millisecond) // keep API workers busy long enough to expose interleaving
	p.probe.apiDone.Add(1)
	return []domain.Job{{Title: "t", URL: "api://" + p.name}}, nil
}

func TestSchedulerTierOrdering(t *testing.T) {
	probe := &tierProbe{apiTotal: 5}

	var sources []Descriptor
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("api-%d", i)
		sources = append(sources, Descriptor{Name: name, Tier: TierAPI, Source: &probeSource{name: name, tier: TierAPI, probe: probe}})
	}
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("scrape-%d", i)
		sources = append(sources, Descriptor{Name: name, Tier: TierScrape, Source: &probeSource{name: name, tier: TierScrape, probe: probe}})
	}

	s := testScheduler(NewRegistry())
	jobs, report := s.Run(context.Background(), sources, nil, nVariations(1))

	assert.False(t, probe.violation.Load(), "a scrape task started before the API tier drained")
	assert.Len(t, jobs, 8)
	assert.Equal(t, 8, report.Sources.Successful)
}

func TestSchedulerEndToEndReport(t *testing.T) {
	five := make([]domain.Job, 5)
	for i := range five {
		five[i] = domain.Job{Title: "t", URL: fmt.Sprintf("ok://%d", i)}
	}

	okAPI := &funcSource{name: "api-ok", results: [][]domain.Job{five, nil}}
	badAPI := &funcSource{name: "api-bad", errs: []error{errors.New("boom"), errors.New("boom")}}
	// scrape source returns 3 records with one self-duplicate URL
	scrape := &funcSource{name: "scrape-ok", results: [][]domain.Job{
		{{Title: "t", URL: "s://1"}, {Title: "t", URL: "s://2"}, {Title: "t", URL: "s://1"}},
	}}

	sources := []Descriptor{
		{Name: "api-ok", Tier: TierAPI, Source: okAPI},
		{Name: "api-bad", Tier: TierAPI, Source: badAPI},
		{Name: "scrape-ok", Tier: TierScrape, Source: scrape},
	}

	reg := NewRegistry()
	s := testScheduler(reg)
	jobs, report := s.Run(context.Background(), sources, nil, nVariations(2))

	assert.Len(t, jobs, 7) // 5 + 2 after the self-dup is dropped
	assert.Equal(t, 3, report.Sources.Total)
	assert.Equal(t, 2, report.Sources.Successful)
	assert.Equal(t, 1, report.Sources.Failed)
	assert.Equal(t, 7, report.Jobs.TotalRaw)

	assert.ElementsMatch(t, []string{"api-ok", "scrape-ok"}, report.SuccessfulSources)
	assert.Equal(t, []string{"api-bad"}, report.FailedSources)

	bad, ok := report.Stats("api-bad")
	require.True(t, ok)
	assert.Equal(t, StatusNoResults, bad.Status, "every variation errored, so the source ends with no results")
	assert.Equal(t, 2, reg.Summary().PerSource["api-bad"])

	assert.Equal(t, report.Errors.Total, reg.Summary().Total, "finalized report carries the registry summary")
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.EndedAt.IsZero())
}

func TestSchedulerSourceAppearsInExactlyOneList(t *testing.T) {
	sources := []Descriptor{
		{Name: "a", Tier: TierAPI, Source: &funcSource{name: "a", results: [][]domain.Job{{job("u")}}}},
		{Name: "b", Tier: TierAPI, Source: &funcSource{name: "b"}},
	}
	s := testScheduler(NewRegistry())
	_, report := s.Run(context.Background(), sources, nil, nVariations(1))

	both := append(append([]string{}, report.SuccessfulSources...), report.FailedSources...)
	seen := map[string]int{}
	for _, n := range both {
		seen[n]++
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "source %s listed more than once", name)
	}
	assert.Len(t, seen, 2)
}

func TestSchedulerFoldsInitFailuresBeforeFinalize(t *testing.T) {
	sources := []Descriptor{
		{Name: "good", Tier: TierAPI, Source: &funcSource{name: "good", results: [][]domain.Job{{job("u1")}}}},
	}
	failed := []SourceStats{
		{Source: "linkedin", Status: StatusNotFound, Err: "no connector registered"},
		{Source: "broken", Status: StatusErrorInit, Err: "bad base url"},
	}

	s := testScheduler(NewRegistry())
	_, report := s.Run(context.Background(), sources, failed, nVariations(1))

	assert.Equal(t, 3, report.Sources.Total, "finalized totals include sources that never started")
	assert.Equal(t, 1, report.Sources.Successful)
	assert.Equal(t, 2, report.Sources.Failed)
	assert.ElementsMatch(t, []string{"linkedin", "broken"}, report.FailedSources)

	st, ok := report.Stats("linkedin")
	require.True(t, ok)
	assert.Equal(t, StatusNotFound, st.Status)
}

func TestSchedulerPanickingSourceDoesNotCancelSiblings(t *testing.T) {
	sources := []Descriptor{
		{Name: "bad", Tier: TierAPI, Source: &funcSource{name: "bad", panicAt: 1}},
		{Name: "good", Tier: TierAPI, Source: &funcSource{name: "good", results: [][]domain.Job{{job("u1")}}}},
	}
	reg := NewRegistry()
	s := testScheduler(reg)
	jobs, report := s.Run(context.Background(), sources, nil, nVariations(1))

	assert.Len(t, jobs, 1)
	assert.Equal(t, 1, report.Sources.Successful)
	bad, ok := report.Stats("bad")
	require.True(t, ok)
	assert.Equal(t, StatusError, bad.Status)
	assert.Equal(t, 1, reg.Summary().PerCategory[string(CategoryFetch)])
}
