// internal/adapters/appstore/client.go
package appstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"appcatalog/internal/adapters/observability"
	"appcatalog/internal/domain"
)

const SearchPath = "/v1/app-store-api/search"

var (
	ErrUnauthorized = errors.New("appstore: unauthorized")
	ErrStatus       = errors.New("appstore: unexpected status")
)

type Client struct {
	base string
	host string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

type Options struct {
	BaseURL string
	Host    string // sent as X-RapidAPI-Host; defaults to the base URL host
	Key     string
	RPS     int
	Timeout time.Duration
}

func New(o Options) (*Client, error) {
	u, err := url.Parse(o.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", o.BaseURL)
	}
	if o.Host == "" {
		o.Host = u.Host
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	return &Client{
		base: strings.TrimRight(o.BaseURL, "/"),
		host: o.Host,
		key:  o.Key,
		hc:   &http.Client{Timeout: o.Timeout},
		rl:   rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
	}, nil
}

// Search performs exactly one lookup. Failures are returned to the caller,
// which decides whether to skip the app; there is no retry here.
func (c *Client) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	var out domain.SearchResult
	if err := c.rl.Wait(ctx); err != nil {
		return out, err
	}

	u := c.base + SearchPath + "?" + url.Values{"query": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, err
	}
	if c.key != "" {
		req.Header.Set("X-RapidAPI-Key", c.key)
	}
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "appcatalog/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("appstore", "search", 0, time.Since(start))
		return out, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("appstore", "search", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return out, fmt.Errorf("decode search response: %w", err)
		}
		return out, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return out, fmt.Errorf("%w (%d)", ErrUnauthorized, resp.StatusCode)

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return out, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
