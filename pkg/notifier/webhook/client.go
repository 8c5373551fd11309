// Package webhook provides a notifier.Client that POSTs each notification as
// JSON to a configured URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ipms/pkg/notifier"
	"ipms/pkg/serrors"
)

// ErrMissingURL is returned by New when no target URL is given.
var ErrMissingURL = errors.New("webhook URL is required")

// Client delivers notifications to a webhook. Calls are paced by a token
// bucket shared by all goroutines using the client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client  // httpClient performs the webhook calls
	target     string        // target is the webhook URL
	limiter    *rate.Limiter // limiter paces outgoing calls
}

// New creates a webhook client. perSecond <= 0 disables client-side pacing.
func New(httpClient *http.Client, target string, perSecond float64) (*Client, error) {
	if target == "" {
		return nil, ErrMissingURL
	}
	if _, err := url.ParseRequestURI(target); err != nil {
		return nil, fmt.Errorf("invalid webhook URL: %w", err)
	}

	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &Client{
		httpClient: httpClient,
		target:     target,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// ParseRateLimit extracts rate-limit information from the receiver's response
// headers. X-RateLimit-Reset is read as unix seconds; Retry-After (seconds)
// takes precedence when present. Missing headers leave the fields zero.
func ParseRateLimit(h http.Header, now time.Time) notifier.RateLimitStatus {
	atoi := func(s string) int {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}

		return 0
	}

	status := notifier.RateLimitStatus{
		Limit:     atoi(h.Get("X-RateLimit-Limit")),
		Remaining: atoi(h.Get("X-RateLimit-Remaining")),
	}
	if reset := atoi(h.Get("X-RateLimit-Reset")); reset > 0 {
		status.ResetAt = time.Unix(int64(reset), 0)
	}
	if retry := atoi(h.Get("Retry-After")); retry > 0 {
		status.ResetAt = now.Add(time.Duration(retry) * time.Second)
	}

	return status
}

// Notify POSTs n to the webhook. A 429 answer is returned as
// serrors.ErrRateLimited and other 4xx answers as serrors.ErrBadRequest, since
// repeating the same call cannot succeed.
func (c *Client) Notify(ctx context.Context, n notifier.Notification) (notifier.RateLimitStatus, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return notifier.RateLimitStatus{}, fmt.Errorf("could not wait for rate limiter: %w", err)
	}

	body, err := json.Marshal(n)
	if err != nil {
		return notifier.RateLimitStatus{}, fmt.Errorf("could not marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target, bytes.NewReader(body))
	if err != nil {
		return notifier.RateLimitStatus{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ipms-notifier")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return notifier.RateLimitStatus{}, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	rl := ParseRateLimit(resp.Header, time.Now())
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return rl, fmt.Errorf("could not read response body: %w", err)
	}
	msg := strings.TrimSpace(string(b))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return rl, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return rl, serrors.With(serrors.ErrRateLimited, "rate limited: %s", msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusRequestTimeout:
		return rl, serrors.With(serrors.ErrBadRequest, "webhook rejected notification (%d): %s", resp.StatusCode, msg)
	default:
		return rl, fmt.Errorf("webhook failed (%d): %s", resp.StatusCode, msg)
	}
}
