package fetch

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"empleo-engine/internal/domain"
)

const (
	// DefaultSourceCap is the soft per-source record cap: once a source has
	// accumulated this many unique records, remaining variations are skipped
	// so one source cannot starve the rest of the run.
	DefaultSourceCap = 50

	defaultMinDelay = 1500 * time.Millisecond
	defaultMaxDelay = 3 * time.Second
)

// Executor drives one connector through the shared variation list:
// inter-variation pacing, per-source URL dedup, the soft cap, and
// classification of failures into the registry.
type Executor struct {
	Cap      int           // unique records per source; DefaultSourceCap when zero
	MinDelay time.Duration // pacing bounds between variations
	MaxDelay time.Duration
	Registry *Registry

	sleep func(time.Duration) // test seam; time.Sleep when nil
}

func NewExecutor(reg *Registry) *Executor {
	return &Executor{
		Cap:      DefaultSourceCap,
		MinDelay: defaultMinDelay,
		MaxDelay: defaultMaxDelay,
		Registry: reg,
	}
}

// Run tries every variation in generator order against one source and
// returns the deduplicated records plus the source's stats. A single
// variation failure is recorded and skipped; a panic escaping the loop is
// recovered as a whole-source fetch_error so siblings keep running. Run
// never returns an error: total failure is an empty result with an error
// status.
func (e *Executor) Run(ctx context.Context, d Descriptor, variations []SearchParams) (jobs []domain.Job, stats SourceStats) {
	stats = SourceStats{
		Source:    d.Name,
		Tier:      d.Tier,
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}
	finish := func() {
		stats.EndedAt = time.Now().UTC()
		stats.Duration = stats.EndedAt.Sub(stats.StartedAt)
		stats.Jobs = len(jobs)
	}

	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("panic: %v", rec)
			log.Printf("[fetch:%s] source failed: %s", d.Name, msg)
			e.Registry.Register(CategoryFetch, d.Name, msg)
			jobs = nil
			stats.Status = StatusError
			stats.Err = msg
			finish()
		}
	}()

	limit := e.Cap
	if limit <= 0 {
		limit = DefaultSourceCap
	}

	seen := make(map[string]bool)
	for i, params := range variations {
		if i > 0 {
			e.pause()
		}

		stats.Variations++
		found, err := d.Source.Fetch(ctx, params)
		if err != nil {
			log.Printf("[fetch:%s] variation %d failed: %v", d.Name, i, err)
			e.Registry.Register(CategoryVariation, d.Name, fmt.Sprintf("variation %d: %v", i, err))
			continue
		}

		for _, j := range found {
			if j.URL == "" || seen[j.URL] {
				continue
			}
			seen[j.URL] = true
			jobs = append(jobs, j)
		}

		if len(jobs) >= limit {
			log.Printf("[fetch:%s] soft cap reached (%d records), skipping remaining variations", d.Name, len(jobs))
			break
		}
	}

	if len(jobs) > 0 {
		for i := range jobs {
			if jobs[i].Source == "" {
				jobs[i].Source = d.Name
			}
		}
		stats.Status = StatusSuccess
	} else {
		stats.Status = StatusNoResults
	}
	finish()
	return jobs, stats
}

// pause sleeps a random interval in [MinDelay, MaxDelay] on the calling
// worker only. The first variation is never delayed.
func (e *Executor) pause() {
	min, max := e.MinDelay, e.MaxDelay
	if min <= 0 || max <= min {
		min, max = defaultMinDelay, defaultMaxDelay
	}
	d := min + time.Duration(rand.Int63n(int64(max-min)))
	if e.sleep != nil {
		e.sleep(d)
		return
	}
	time.Sleep(d)
}
