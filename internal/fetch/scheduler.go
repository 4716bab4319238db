package fetch

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"empleo-engine/internal/domain"
)

const DefaultAPIWorkers = 3

// Scheduler partitions the active sources into tiers and runs each tier
// through a bounded worker pool. API-backed sources tolerate concurrency and
// go first; scraping-backed sources are block-prone and run strictly after,
// with less parallelism, never interleaved with the API tier.
type Scheduler struct {
	WorkersAPI    int // defaults to DefaultAPIWorkers
	WorkersScrape int // defaults to min(2, WorkersAPI)
	Registry      *Registry
	Executor      *Executor
}

func NewScheduler(reg *Registry) *Scheduler {
	return &Scheduler{
		WorkersAPI: DefaultAPIWorkers,
		Registry:   reg,
		Executor:   NewExecutor(reg),
	}
}

// Run executes every active source across the shared variation list and
// returns the merged raw records plus the run report. failed carries
// terminal stats for sources that never started (constructor or lookup
// failures); they go into the report up front so the counts are complete
// when Finalize runs. Records merge in completion order, which is fine:
// downstream dedup/filter operate on the whole set. A failing source
// contributes zero records and never cancels siblings; "zero sources
// succeeded" is a normal outcome the caller checks on the report.
func (s *Scheduler) Run(ctx context.Context, sources []Descriptor, failed []SourceStats, variations []SearchParams) ([]domain.Job, *Report) {
	report := NewReport()
	for _, st := range failed {
		report.Add(st)
	}

	var apiTier, scrapeTier []Descriptor
	for _, d := range sources {
		if d.Tier == TierScrape {
			scrapeTier = append(scrapeTier, d)
		} else {
			apiTier = append(apiTier, d)
		}
	}

	apiWorkers := s.WorkersAPI
	if apiWorkers <= 0 {
		apiWorkers = DefaultAPIWorkers
	}
	scrapeWorkers := s.WorkersScrape
	if scrapeWorkers <= 0 {
		scrapeWorkers = min(2, apiWorkers)
	}

	var (
		mu  sync.Mutex
		all []domain.Job
	)

	runTier := func(tier []Descriptor, workers int) {
		if len(tier) == 0 {
			return
		}
		var g errgroup.Group
		g.SetLimit(workers)
		for _, d := range tier {
			d := d
			g.Go(func() error {
				log.Printf("[scheduler] running source=%s tier=%s", d.Name, d.Tier)
				jobs, stats := s.Executor.Run(ctx, d, variations)

				mu.Lock()
				all = append(all, jobs...)
				mu.Unlock()
				report.Add(stats)

				log.Printf("[scheduler] done source=%s status=%s jobs=%d variations=%d",
					d.Name, stats.Status, stats.Jobs, stats.Variations)
				return nil // best-effort: one source must not cancel siblings
			})
		}
		_ = g.Wait() // join barrier between tiers
	}

	runTier(apiTier, apiWorkers)
	runTier(scrapeTier, scrapeWorkers)

	report.Finalize(len(all), s.Registry)
	return all, report
}
