package getonboard

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"empleo-engine/internal/domain"
	"empleo-engine/internal/fetch"
	"empleo-engine/internal/httpx"
)

const (
	defaultBaseURL = "https://www.getonboard.com"
	maxPages       = 3
)

// Scraper walks Get on Board search result pages.
type Scraper struct {
	baseURL string
	hc      *httpx.Client
}

func New(hc *httpx.Client, baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Scraper{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (s *Scraper) SourceName() string { return "getonboard" }

func (s *Scraper) searchURL(params fetch.SearchParams, page int) string {
	q := url.Values{}
	if len(params.Keywords) > 0 {
		kws := params.Keywords
		if len(kws) > 3 {
			kws = kws[:3]
		}
		q.Set("q", strings.Join(kws, " "))
	}
	if page > 1 {
		q.Set("page", fmt.Sprint(page))
	}
	u := s.baseURL + "/jobs"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (s *Scraper) Fetch(ctx context.Context, params fetch.SearchParams) ([]domain.Job, error) {
	var out []domain.Job
	for page := 1; page <= maxPages; page++ {
		body, err := s.hc.Get(ctx, s.searchURL(params, page))
		if err != nil {
			if page > 1 {
				break
			}
			return nil, fmt.Errorf("getonboard search: %w", err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("getonboard parse: %w", err)
		}

		cards := doc.Find("article.gb-job-card, div.job-container")
		if cards.Length() == 0 {
			break
		}

		cards.Each(func(_ int, card *goquery.Selection) {
			link := card.Find(`a[data-gtm="title"], h2.job-title a`).First()
			href, ok := link.Attr("href")
			if !ok {
				return
			}
			abs := href
			if strings.HasPrefix(href, "/") {
				abs = s.baseURL + href
			}
			title := cleanText(link.Text())
			if title == "" {
				return
			}
			out = append(out, domain.Job{
				Title:    title,
				Company:  cleanText(card.Find(`a[data-gtm="company"], span.company-name`).First().Text()),
				Location: cleanText(card.Find("span.location-tag, div.job-location").First().Text()),
				Salary:   cleanText(card.Find("span.salary-tag, div.job-salary").First().Text()),
				PostedAt: cleanText(card.Find("time, span.publication-date").First().Text()),
				URL:      abs,
				Source:   s.SourceName(),
			})
		})
	}
	return out, nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
