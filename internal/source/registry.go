// Package source holds the static connector registration table: configured
// names resolve to a factory and a tier at startup, never by runtime type
// inspection. A name enabled in config with no table entry is a
// configuration error (not_found), not a dispatch failure.
package source

import (
	"fmt"
	"log"
	"sort"
	"time"

	"empleo-engine/internal/config"
	"empleo-engine/internal/fetch"
	"empleo-engine/internal/httpx"
	"empleo-engine/internal/source/arbeitnow"
	"empleo-engine/internal/source/computrabajo"
	"empleo-engine/internal/source/getonboard"
	"empleo-engine/internal/source/jobicy"
	"empleo-engine/internal/source/remoteok"
)

// Factory builds one connector from the shared HTTP client and its config
// block. A returned error marks the source error_init and excludes it.
type Factory func(hc *httpx.Client, sc config.SourceConfig) (fetch.Source, error)

type registration struct {
	tier  fetch.Tier
	build Factory
}

var table = map[string]registration{
	"remoteok": {fetch.TierAPI, func(hc *httpx.Client, sc config.SourceConfig) (fetch.Source, error) {
		return remoteok.New(hc, sc.BaseURL), nil
	}},
	"arbeitnow": {fetch.TierAPI, func(hc *httpx.Client, sc config.SourceConfig) (fetch.Source, error) {
		return arbeitnow.New(hc, sc.BaseURL, 0), nil
	}},
	"jobicy": {fetch.TierAPI, func(hc *httpx.Client, sc config.SourceConfig) (fetch.Source, error) {
		return jobicy.New(hc, sc.BaseURL, sc.ResultsPerPage), nil
	}},
	"computrabajo": {fetch.TierScrape, func(hc *httpx.Client, sc config.SourceConfig) (fetch.Source, error) {
		return computrabajo.New(hc, sc.BaseURL), nil
	}},
	"getonboard": {fetch.TierScrape, func(hc *httpx.Client, sc config.SourceConfig) (fetch.Source, error) {
		return getonboard.New(hc, sc.BaseURL), nil
	}},
}

// Build resolves the enabled sources into run descriptors. Sources that
// cannot be built come back as terminal stats (error_init or not_found) so
// the run report still accounts for them; the run itself continues with
// whatever did come up. Iteration is name-sorted for deterministic logs.
func Build(cfg config.Config, hc *httpx.Client, reg *fetch.Registry) (active []fetch.Descriptor, failed []fetch.SourceStats) {
	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sc := cfg.Sources[name]
		if !sc.Enabled {
			continue
		}

		r, ok := table[name]
		if !ok {
			log.Printf("[source] %q enabled in config but not registered", name)
			reg.Register(fetch.CategoryNotFound, name, "no registered connector for this name")
			failed = append(failed, terminal(name, "", fetch.StatusNotFound, "not registered"))
			continue
		}

		src, err := r.build(hc, sc)
		if err != nil {
			log.Printf("[source] init failed for %q: %v", name, err)
			reg.Register(fetch.CategoryInit, name, err.Error())
			failed = append(failed, terminal(name, r.tier, fetch.StatusErrorInit, fmt.Sprintf("init: %v", err)))
			continue
		}

		active = append(active, fetch.Descriptor{Name: name, Tier: r.tier, Source: src})
	}
	return active, failed
}

func terminal(name string, tier fetch.Tier, st fetch.Status, msg string) fetch.SourceStats {
	now := time.Now().UTC()
	return fetch.SourceStats{
		Source:    name,
		Tier:      tier,
		StartedAt: now,
		EndedAt:   now,
		Status:    st,
		Err:       msg,
	}
}
