package playtak

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Rating is a player's standing as served by the PlayTak HTTP API.
type Rating struct {
	Name       string  `json:"name"`
	Rating     float64 `json:"rating"`
	RatedGames int     `json:"ratedgames"`
	IsBot      bool    `json:"isbot"`
}

// APIClient fetches public data from the PlayTak HTTP API. Lookups are
// best-effort decoration for list mode; callers treat failures as
// missing data, never as fatal.
type APIClient struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type APIOption func(*APIClient)

func WithAPITimeout(d time.Duration) APIOption {
	return func(a *APIClient) { a.defaultTimeout = d }
}

func WithAPIRetry(max int) APIOption {
	return func(a *APIClient) { a.retryMax = max }
}

func NewAPIClient(baseURL string, opts ...APIOption) *APIClient {
	a := &APIClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 4},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PlayerRating fetches the rating record for one player name.
func (a *APIClient) PlayerRating(ctx context.Context, name string) (*Rating, error) {
	var rating Rating
	if err := a.getJSON(ctx, "/ratings/"+url.PathEscape(name), &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (a *APIClient) getJSON(ctx context.Context, path string, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(a.baseURL + path)

	attempts := a.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := a.http.DoDeadline(req, resp, a.computeDeadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if attempt == attempts {
				return lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("playtak api error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
			if attempt == attempts || !shouldRetryStatus(status) {
				return lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return lastErr
}

func (a *APIClient) computeDeadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(a.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		return dl
	}
	return deadline
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
