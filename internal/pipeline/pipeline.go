// Package pipeline runs one full aggregation pass: resolve sources, fetch
// through the tiered scheduler, then normalize, filter, and persist. The
// fetch core owns failure isolation; the pipeline owns the sequential
// downstream chain and the run report file.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"empleo-engine/internal/config"
	"empleo-engine/internal/export"
	"empleo-engine/internal/fetch"
	"empleo-engine/internal/filter"
	"empleo-engine/internal/httpx"
	"empleo-engine/internal/process"
	"empleo-engine/internal/source"
	"empleo-engine/internal/store"
)

type Result struct {
	Report    *fetch.Report `json:"report"`
	Raw       int           `json:"raw_jobs"`
	Processed int           `json:"processed_jobs"`
	Filtered  int           `json:"filtered_jobs"`
	Added     int           `json:"db_added"`
	StatsPath string        `json:"stats_path,omitempty"`
}

// Run executes one pass. A run with zero successful sources is not an
// error; the caller reads the report to find out.
func Run(ctx context.Context, cfg config.Config, db *store.DB) (*Result, error) {
	// Run-scoped registry: constructed fresh here, injected everywhere.
	reg := fetch.NewRegistry()

	hc := httpx.NewClient()
	active, initFailed := source.Build(cfg, hc, reg)
	log.Printf("[pipeline] %d active sources, %d failed at init", len(active), len(initFailed))

	variations := fetch.BuildVariations(fetch.KeywordPools{
		JobTitles: cfg.JobTitles,
		Tools:     cfg.Tools,
		Topics:    cfg.Topics,
		Locations: cfg.Locations,
	}, reg)
	log.Printf("[pipeline] %d parameter variations for this run", len(variations))

	sched := fetch.NewScheduler(reg)
	sched.WorkersAPI = cfg.Scraping.WorkersAPI
	sched.WorkersScrape = cfg.Scraping.WorkersScrape
	sched.Executor.Cap = cfg.Scraping.MaxJobsPerSource

	raw, report := sched.Run(ctx, active, initFailed, variations)

	processed := process.Jobs(raw)
	filtered := filter.New(cfg).Jobs(processed)
	log.Printf("[pipeline] raw=%d processed=%d filtered=%d", len(raw), len(processed), len(filtered))

	res := &Result{
		Report:    report,
		Raw:       len(raw),
		Processed: len(processed),
		Filtered:  len(filtered),
	}

	if db != nil && len(filtered) > 0 {
		added, failed := store.InsertJobs(ctx, db.Pool, filtered)
		res.Added = added
		if failed > 0 {
			log.Printf("[pipeline] %d rows failed to insert", failed)
		}
	}

	if cfg.DataStorage.CSV.ExportEnabled {
		dir := cfg.DataStorage.CSV.ExportDir
		if p, err := export.WriteCSV(dir, "ofertas_filtradas", filtered); err != nil {
			log.Printf("[pipeline] csv export failed: %v", err)
		} else {
			log.Printf("[pipeline] filtered csv: %s", p)
		}
		if _, err := export.WriteCSV(dir, "ofertas_todas", processed); err != nil {
			log.Printf("[pipeline] unfiltered csv export failed: %v", err)
		}
	}

	if path, err := writeStats(cfg.DataStorage.StatsDir, report); err != nil {
		log.Printf("[pipeline] stats file failed: %v", err)
	} else {
		res.StatsPath = path
	}

	log.Printf("[pipeline] done: sources %d/%d successful, %d raw jobs, %.1fs",
		report.Sources.Successful, report.Sources.Total, report.Jobs.TotalRaw, report.DurationSeconds)
	return res, nil
}

func writeStats(dir string, report *fetch.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("run_%s.json", report.RunID))
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}
