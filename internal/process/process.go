// Package process normalizes raw records after the fetch run: field
// cleanup, minimal validity checks, and cross-source URL dedup. The first
// occurrence of a URL wins, so merge order decides provenance ties.
package process

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"empleo-engine/internal/domain"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases and strips diacritics, so "Diseñador Gráfico" matches
// "disenador grafico". Spanish boards mix both spellings freely.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Jobs cleans every record and drops invalid and cross-source duplicate
// entries. Records without a URL and a title carry nothing actionable.
func Jobs(raw []domain.Job) []domain.Job {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]domain.Job, 0, len(raw))
	for _, j := range raw {
		j.Title = clean(j.Title)
		j.Company = clean(j.Company)
		j.Location = clean(j.Location)
		j.Salary = clean(j.Salary)
		j.URL = strings.TrimSpace(j.URL)
		j.Source = clean(j.Source)
		j.PostedAt = clean(j.PostedAt)
		j.Description = strings.TrimSpace(j.Description)

		if j.URL == "" || j.Title == "" {
			continue
		}
		if !seen.Add(j.URL) {
			continue
		}
		if j.Location == "" {
			j.Location = "Unknown"
		}
		if j.Company == "" {
			j.Company = "Unknown"
		}
		out = append(out, j)
	}
	return out
}

func clean(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
