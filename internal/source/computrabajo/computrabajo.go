package computrabajo

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
	defaultBaseURL = "https://www.computrabajo.com.ec"
	maxPages       = 2
	maxDetailPages = 5
)

// Scraper extracts listings from Computrabajo search result pages. Queries
// use up to three keywords; the boards reject over-long q parameters.
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

func (s *Scraper) SourceName() string { return "computrabajo" }

func (s *Scraper) searchURL(params fetch.SearchParams, page int) string {
	kws := params.Keywords
	if len(kws) > 3 {
		kws = kws[:3]
	}
	u := fmt.Sprintf("%s/ofertas-de-trabajo/?q=%s", s.baseURL, url.QueryEscape(strings.Join(kws, " ")))
	if params.Location != "" {
		u += "&l=" + url.QueryEscape(params.Location)
	}
	if page > 1 {
		u += fmt.Sprintf("&p=%d", page)
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
			return nil, fmt.Errorf("computrabajo search: %w", err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("computrabajo parse: %w", err)
		}

		cards := doc.Find("article.box_offer")
		if cards.Length() == 0 {
			break
		}

		cards.Each(func(_ int, card *goquery.Selection) {
			link := card.Find("h1.js-o-link a, p.title a").First()
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
				Company:  cleanText(card.Find("div.fs16 a, span.d-block a").First().Text()),
				Location: cleanText(card.Find("p span:not([class]), span span[title]").First().Text()),
				Salary:   cleanText(card.Find("span.tag_salary, div.fs13 span.icon-money").First().Text()),
				PostedAt: cleanText(card.Find("span.fc_aux, p.fs13 span").First().Text()),
				URL:      abs,
				Source:   s.SourceName(),
			})
		})
	}

	if params.FetchDetails {
		s.hydrate(ctx, out)
	}
	return out, nil
}

// hydrate fills descriptions from detail pages for the first few listings.
// Errors are ignored, the listing stays minimal.
func (s *Scraper) hydrate(ctx context.Context, jobs []domain.Job) {
	n := len(jobs)
	if n > maxDetailPages {
		n = maxDetailPages
	}
	for i := 0; i < n; i++ {
		body, err := s.hc.Get(ctx, jobs[i].URL)
		if err != nil {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			continue
		}
		if d := cleanText(doc.Find("section#description > div > p, div.fs16").First().Text()); d != "" {
			jobs[i].Description = d
		}
	}
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
