package fetch

import (
	"context"
	"strings"

	"empleo-engine/internal/domain"
)

// Tier is the concurrency class of a source. It is assigned in the
// registration table, never inferred from the connector's type.
type Tier string

const (
	TierAPI    Tier = "api"
	TierScrape Tier = "scrape"
)

// Source is the contract every connector implements. Fetch returns the raw
// listings for one parameter set; connectors may copy and extend params
// (e.g. honor FetchDetails) but must not retain the slice.
type Source interface {
	SourceName() string
	Fetch(ctx context.Context, params SearchParams) ([]domain.Job, error)
}

// Descriptor binds a configured source name to its tier and connector.
// Built once at configuration load, immutable for the run.
type Descriptor struct {
	Name   string
	Tier   Tier
	Source Source
}

// SearchParams is one concrete variation tried against a source.
// Treated as immutable once produced by the generator.
type SearchParams struct {
	Keywords     []string
	Location     string
	FetchDetails bool // connector may fetch per-listing detail pages
}

// Key is the structural identity used for variation dedup: the ordered
// keyword sequence plus the location. FetchDetails is intentionally not
// part of the key.
func (p SearchParams) Key() string {
	return strings.Join(p.Keywords, "\x1f") + "\x1e" + p.Location
}
