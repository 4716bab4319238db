package arbeitnow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"empleo-engine/internal/domain"
	"empleo-engine/internal/fetch"
	"empleo-engine/internal/httpx"
)

const defaultEndpoint = "https://arbeitnow.com/api/job-board-api"

// Client reads the Arbeitnow job-board API: a paginated JSON feed without a
// keyword parameter, filtered locally. One page is plenty for a run; the
// feed is ordered newest-first.
type Client struct {
	endpoint string
	hc       *httpx.Client
	pages    int
}

func New(hc *httpx.Client, baseURL string, pages int) *Client {
	if baseURL == "" {
		baseURL = defaultEndpoint
	}
	if pages <= 0 {
		pages = 1
	}
	return &Client{endpoint: baseURL, hc: hc, pages: pages}
}

func (c *Client) SourceName() string { return "arbeitnow" }

type apiResponse struct {
	Data []struct {
		CompanyName string   `json:"company_name"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Remote      bool     `json:"remote"`
		URL         string   `json:"url"`
		Tags        []string `json:"tags"`
		Location    string   `json:"location"`
	} `json:"data"`
}

func (c *Client) Fetch(ctx context.Context, params fetch.SearchParams) ([]domain.Job, error) {
	var out []domain.Job
	for page := 1; page <= c.pages; page++ {
		url := fmt.Sprintf("%s?page=%d", c.endpoint, page)
		body, err := c.hc.Get(ctx, url)
		if err != nil {
			if page > 1 {
				break // keep what earlier pages returned
			}
			return nil, fmt.Errorf("arbeitnow page %d: %w", page, err)
		}

		var resp apiResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("arbeitnow decode: %w", err)
		}
		if len(resp.Data) == 0 {
			break
		}

		for _, d := range resp.Data {
			if d.Title == "" || d.URL == "" {
				continue
			}
			if !matches(d.Title, d.Tags, params.Keywords) {
				continue
			}
			loc := d.Location
			if loc == "" && d.Remote {
				loc = "Remote"
			}
			out = append(out, domain.Job{
				Title:       d.Title,
				Company:     d.CompanyName,
				Location:    loc,
				URL:         d.URL,
				Description: d.Description,
				Source:      c.SourceName(),
			})
		}
	}
	return out, nil
}

func matches(title string, tags []string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	hay := strings.ToLower(title + " " + strings.Join(tags, " "))
	for _, k := range keywords {
		if strings.Contains(hay, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
