// Package httpx is the shared HTTP layer injected into every connector:
// one underlying http.Client, per-host pacing, and a small bounded retry
// with exponential backoff for transient failures. Connectors own
// everything above this layer (URLs, parsing).
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent = "empleo-engine/1.0 (+local)"

	// Per-host pacing: boards tolerate a short burst of variation
	// queries but not a sustained hammering from three workers at once.
	hostRate  = rate.Limit(2)
	hostBurst = 4
)

type Client struct {
	hc      *http.Client
	retries int
	backoff time.Duration

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

func NewClient() *Client {
	return &Client{
		hc:      &http.Client{Timeout: 20 * time.Second},
		retries: 2,
		backoff: 500 * time.Millisecond,
		hosts:   make(map[string]*rate.Limiter),
	}
}

// wait blocks until this host's limiter grants a slot. Each hostname gets
// its own limiter on first contact, so computrabajo being throttled never
// slows remoteok down.
func (c *Client) wait(ctx context.Context, host string) error {
	if host == "" {
		host = "_"
	}
	c.mu.Lock()
	lim, ok := c.hosts[host]
	if !ok {
		lim = rate.NewLimiter(hostRate, hostBurst)
		c.hosts[host] = lim
	}
	c.mu.Unlock()
	return lim.Wait(ctx)
}

// Get fetches rawURL and returns the body. Retries on transport errors and
// 5xx/429 responses; 4xx other than 429 fails immediately, the page is not
// coming back on retry.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retryable, err := c.do(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("get %s: %w", rawURL, lastErr)
}

func (c *Client) do(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	if err := c.wait(ctx, req.URL.Host); err != nil {
		return nil, false, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		retryable := res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("status %d", res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, 10<<20))
	if err != nil {
		return nil, true, err
	}
	return b, false, nil
}
