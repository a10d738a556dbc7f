// internal/adapters/suppliers/client.go
package suppliers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotels_merge/internal/adapters/observability"
	"hotels_merge/internal/domain"
)

const DefaultTimeout = 5 * time.Second

// Client is the HTTP transport shared by all supplier adapters. One GET per
// call, no retries.
type Client struct {
	hc *http.Client
	rl *rate.Limiter
}

func NewClient(timeout time.Duration, rps int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		hc: &http.Client{Timeout: timeout},
		rl: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// FetchArray GETs url and returns the object elements of the top-level JSON
// array. Non-object elements are dropped. Every failure is a *domain.FetchError.
func (c *Client) FetchArray(ctx context.Context, supplier, url string) ([]map[string]any, error) {
	raw, err := c.get(ctx, supplier, url)
	if err != nil {
		return nil, &domain.FetchError{Supplier: supplier, Err: err}
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, &domain.FetchError{Supplier: supplier, Err: fmt.Errorf("%w: got %T", domain.ErrMalformedPayload, raw)}
	}
	out := make([]map[string]any, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// ---- Internals ----

func (c *Client) get(ctx context.Context, supplier, url string) (any, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotels-merge/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(supplier, "hotels", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(supplier, "hotels", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return out, nil
}
