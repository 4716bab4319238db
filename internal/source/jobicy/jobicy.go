package jobicy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"empleo-engine/internal/domain"
	"empleo-engine/internal/fetch"
	"empleo-engine/internal/httpx"
)

const defaultEndpoint = "https://jobicy.com/api/v2/remote-jobs"

// Client queries the Jobicy remote-jobs API. Unlike the other API sources
// it accepts a tag parameter, so the first keyword of the variation goes
// into the query and the rest are matched locally.
type Client struct {
	endpoint string
	hc       *httpx.Client
	count    int
}

func New(hc *httpx.Client, baseURL string, count int) *Client {
	if baseURL == "" {
		baseURL = defaultEndpoint
	}
	if count <= 0 {
		count = 50
	}
	return &Client{endpoint: baseURL, hc: hc, count: count}
}

func (c *Client) SourceName() string { return "jobicy" }

type apiResponse struct {
	Jobs []struct {
		URL         string `json:"url"`
		JobTitle    string `json:"jobTitle"`
		CompanyName string `json:"companyName"`
		JobGeo      string `json:"jobGeo"`
		JobExcerpt  string `json:"jobExcerpt"`
		PubDate     string `json:"pubDate"`
		// The API sends the salary bounds as JSON numbers, absent on
		// most postings.
		SalaryMax json.Number `json:"annualSalaryMax"`
		Currency  string      `json:"salaryCurrency"`
	} `json:"jobs"`
}

func (c *Client) Fetch(ctx context.Context, params fetch.SearchParams) ([]domain.Job, error) {
	q := url.Values{}
	q.Set("count", fmt.Sprint(c.count))
	if len(params.Keywords) > 0 {
		q.Set("tag", params.Keywords[0])
	}

	body, err := c.hc.Get(ctx, c.endpoint+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("jobicy query: %w", err)
	}
	return c.parse(body, params)
}

func (c *Client) parse(body []byte, params fetch.SearchParams) ([]domain.Job, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("jobicy decode: %w", err)
	}

	var out []domain.Job
	for _, j := range resp.Jobs {
		if j.JobTitle == "" || j.URL == "" {
			continue
		}
		if !matches(j.JobTitle, j.JobExcerpt, params.Keywords) {
			continue
		}
		loc := j.JobGeo
		if loc == "" {
			loc = "Remote"
		}
		out = append(out, domain.Job{
			Title:       j.JobTitle,
			Company:     j.CompanyName,
			Location:    loc,
			Salary:      salaryText(j.SalaryMax, j.Currency),
			URL:         j.URL,
			Description: j.JobExcerpt,
			PostedAt:    j.PubDate,
			Source:      c.SourceName(),
		})
	}
	return out, nil
}

func salaryText(max json.Number, currency string) string {
	if max == "" {
		return ""
	}
	if currency != "" {
		return fmt.Sprintf("%s %s", max, currency)
	}
	return max.String()
}

func matches(title, excerpt string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	hay := strings.ToLower(title + " " + excerpt)
	for _, k := range keywords {
		if strings.Contains(hay, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
