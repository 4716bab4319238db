package fetch

import "strings"

// KeywordPools is the slice of configuration the variation generator needs:
// the three keyword pools and the location list (first entry = primary).
type KeywordPools struct {
	JobTitles []string
	Tools     []string
	Topics    []string
	Locations []string
}

// highSignalTerms are popular role/technology terms that tend to match well
// on every board; used to build the curated high-precision variation.
var highSignalTerms = map[string]bool{
	"python":         true,
	"javascript":     true,
	"react":          true,
	"data":           true,
	"developer":      true,
	"programador":    true,
	"software":       true,
	"web":            true,
	"frontend":       true,
	"backend":        true,
	"data scientist": true,
}

// BuildVariations produces the ordered, deduplicated list of parameter sets
// for one run. Pure and deterministic: same pools and same registry
// derivation order give byte-identical output. The list is shared across
// all sources in the run.
//
// Policy, in order: the full set with detail pages enabled, tools-only,
// titles-only, two 10-keyword windows when the combined pool is large,
// a curated high-signal subset, a location-free variation, and finally the
// registry's robust derivations of the full set (skipped when reg is nil).
func BuildVariations(pools KeywordPools, reg *Registry) []SearchParams {
	all := make([]string, 0, len(pools.JobTitles)+len(pools.Tools)+len(pools.Topics))
	all = append(all, pools.JobTitles...)
	all = append(all, pools.Tools...)
	all = append(all, pools.Topics...)

	var loc string
	if len(pools.Locations) > 0 {
		loc = pools.Locations[0]
	}

	var out []SearchParams
	seen := map[string]bool{}
	add := func(p SearchParams) {
		if len(p.Keywords) == 0 {
			return
		}
		k := p.Key()
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, p)
	}

	full := SearchParams{Keywords: all, Location: loc, FetchDetails: true}
	add(full)
	add(SearchParams{Keywords: pools.Tools, Location: loc})
	add(SearchParams{Keywords: pools.JobTitles, Location: loc})

	// Long combined queries get rejected by some boards; widen coverage
	// with two 10-keyword windows instead.
	if len(all) > 20 {
		add(SearchParams{Keywords: all[:10], Location: loc})
		add(SearchParams{Keywords: all[10:20], Location: loc})
	}

	if hs := pickHighSignal(all, 10); len(hs) > 0 {
		add(SearchParams{Keywords: hs, Location: loc})
	}

	// Location-free variation for sources whose index ignores location.
	add(SearchParams{Keywords: firstN(all, 10)})

	if reg != nil {
		for _, p := range reg.DeriveRobustVariations(full) {
			add(p)
		}
	}

	return out
}

func pickHighSignal(keywords []string, cap int) []string {
	var hs []string
	for _, k := range keywords {
		if highSignalTerms[strings.ToLower(k)] {
			hs = append(hs, k)
			if len(hs) == cap {
				break
			}
		}
	}
	return hs
}

func firstN(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
