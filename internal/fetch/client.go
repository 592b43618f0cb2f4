package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"vouch/internal/fetch/metrics"
	"vouch/pkg/platform/sentinel"
)

const (
	// DefaultBackoff is the fixed wait between attempts after a 429.
	DefaultBackoff = 3 * time.Second

	// DefaultAttempts is the total attempt budget per request, first call
	// included.
	DefaultAttempts = 3
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests inject
// deterministic fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps idempotent GET calls with response caching and bounded backoff
// retry on rate limiting. It knows nothing about the domain meaning of the
// responses it carries.
//
// The cache lookup and the populate after a miss are separate steps: two
// callers racing on the same uncached key will each go upstream. That window
// is accepted (checks are per-subject and rarely collide) and pinned down by
// a test rather than papered over with request coalescing.
type Client struct {
	http     Doer
	store    Store
	backoff  time.Duration
	attempts int
	logger   *slog.Logger
	metrics  *metrics.Metrics
	sleep    func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithBackoff overrides the wait between attempts after a rate limit signal.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// WithAttempts overrides the total attempt budget per request.
func WithAttempts(n int) Option {
	return func(c *Client) {
		c.attempts = n
	}
}

// WithSleep replaces the backoff sleep. Tests use it to observe waits without
// slowing the suite down.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = fn
	}
}

func New(httpClient Doer, store Store, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, errors.New("http client is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}

	c := &Client{
		http:     httpClient,
		store:    store,
		backoff:  DefaultBackoff,
		attempts: DefaultAttempts,
		sleep:    sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.attempts < 1 {
		return nil, errors.New("attempts must be at least 1")
	}

	return c, nil
}

// Get returns the response body for url, serving from the cache when possible.
// On a miss it calls upstream, retrying after a fixed backoff while the
// upstream keeps answering 429, up to the attempt budget. Any other failure
// propagates immediately as *UpstreamError; an exhausted budget yields
// *RetriesExhaustedError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if body, err := c.store.Find(ctx, url); err == nil {
		c.metrics.IncrementCacheHit()
		return body, nil
	}
	c.metrics.IncrementCacheMiss()

	for attempt := 1; attempt <= c.attempts; attempt++ {
		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			if saveErr := c.store.Save(ctx, url, body); saveErr != nil {
				return nil, saveErr
			}
			return body, nil
		}
		if !errors.Is(err, sentinel.ErrRateLimited) {
			return nil, err
		}
		if attempt == c.attempts {
			break
		}

		if c.logger != nil {
			c.logger.WarnContext(ctx, "upstream rate limited, backing off",
				"key", url,
				"attempt", attempt,
				"backoff", c.backoff,
			)
		}
		c.metrics.IncrementRetry()
		if err := c.sleep(ctx, c.backoff); err != nil {
			return nil, err
		}
	}

	return nil, &RetriesExhaustedError{Key: url, Attempts: c.attempts}
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Key: url, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveUpstreamLatency(time.Since(start))
	if err != nil {
		return nil, &UpstreamError{Key: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, sentinel.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Key: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Key: url, Err: err}
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
