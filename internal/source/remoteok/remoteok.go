package remoteok

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"empleo-engine/internal/domain"
	"empleo-engine/internal/fetch"
	"empleo-engine/internal/httpx"
)

const defaultEndpoint = "https://remoteok.com/api"

// Client pulls the Remote OK public JSON feed. The feed has no server-side
// keyword filter, so matching happens here against title, tags, and company.
type Client struct {
	endpoint string
	hc       *httpx.Client
}

func New(hc *httpx.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultEndpoint
	}
	return &Client{endpoint: baseURL, hc: hc}
}

func (c *Client) SourceName() string { return "remoteok" }

type apiPosting struct {
	Legal    string   `json:"legal"` // first feed element is a notice, not a job
	Position string   `json:"position"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	URL      string   `json:"url"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	Desc     string   `json:"description"`
}

func (c *Client) Fetch(ctx context.Context, params fetch.SearchParams) ([]domain.Job, error) {
	body, err := c.hc.Get(ctx, c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("remoteok feed: %w", err)
	}

	var postings []apiPosting
	if err := json.Unmarshal(body, &postings); err != nil {
		return nil, fmt.Errorf("remoteok decode: %w", err)
	}

	var out []domain.Job
	for _, p := range postings {
		if p.Legal != "" || p.Position == "" || p.URL == "" {
			continue
		}
		if !matchesAny(p, params.Keywords) {
			continue
		}
		loc := p.Location
		if loc == "" {
			loc = "Remote"
		}
		desc := p.Desc
		if len(p.Tags) > 0 {
			desc += "\n\nSkills/Tags: " + strings.Join(p.Tags, ", ")
		}
		out = append(out, domain.Job{
			Title:       p.Position,
			Company:     p.Company,
			Location:    loc,
			URL:         p.URL,
			Description: desc,
			PostedAt:    p.Date,
			Source:      c.SourceName(),
		})
	}
	return out, nil
}

func matchesAny(p apiPosting, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	hay := strings.ToLower(p.Position + " " + p.Company + " " + strings.Join(p.Tags, " "))
	for _, k := range keywords {
		if strings.Contains(hay, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
