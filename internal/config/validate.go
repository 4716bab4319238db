package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedups the keyword pools, then sanity-checks
// the whole config. Returns the normalized copy.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.JobTitles = trimList(out.JobTitles)
	out.Tools = trimList(out.Tools)
	out.Topics = trimList(out.Topics)
	out.Locations = trimList(out.Locations)
	out.Filters.KeywordsInclude = trimList(out.Filters.KeywordsInclude)
	out.Filters.KeywordsExclude = trimList(out.Filters.KeywordsExclude)
	out.Filters.LocationsInclude = trimList(out.Filters.LocationsInclude)
	out.Filters.LocationsExclude = trimList(out.Filters.LocationsExclude)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if len(out.JobTitles)+len(out.Tools)+len(out.Topics) == 0 {
		res.addErr("no keywords configured: fill job_titles, tools_technologies, or topics")
	}
	if len(out.Locations) == 0 {
		res.addWarn("locations is empty; every search runs without a location hint")
	}

	enabled := 0
	for _, sc := range out.Sources {
		if sc.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		res.addWarn("no sources enabled; the run will produce zero records")
	}

	if out.Scraping.WorkersAPI < 1 {
		res.addErr("scraping.workers_api must be >= 1")
	}
	if out.Scraping.WorkersScrape < 1 {
		res.addErr("scraping.workers_scrape must be >= 1")
	}
	if out.Scraping.MaxJobsPerSource < 1 {
		res.addErr("scraping.max_jobs_per_source must be >= 1")
	}
	if out.Schedule.IntervalMinutes < 0 {
		res.addErr("schedule.interval_minutes must be >= 0")
	}

	// exclude terms that also appear in a keyword pool will strip most results
	excl := map[string]bool{}
	for _, k := range out.Filters.KeywordsExclude {
		excl[strings.ToLower(k)] = true
	}
	for _, k := range append(append([]string{}, out.JobTitles...), out.Tools...) {
		if excl[strings.ToLower(k)] {
			res.addWarn("keyword appears in both a search pool and keywords_exclude: %q", k)
		}
	}

	return out, res
}
