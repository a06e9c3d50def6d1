// ABOUTME: Retrying HTTP fetcher with browser-like headers and politeness pacing
// ABOUTME: Primary direct path plus an optional text-rendering proxy fallback for blocked pages

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	apperrors "epiotrkow-rss/core/errors"
	"epiotrkow-rss/core/interfaces"
)

const (
	userAgent = "Mozilla/5.0 (+https://github.com/) RSS static builder"

	// Responses shorter than this are treated as unusable (error pages,
	// bot interstitials) and retried.
	defaultMinBodyBytes = 512

	maxBodyBytes = 10 * 1024 * 1024
)

// Options configures the fetcher
type Options struct {
	// Timeout is the per-request timeout
	Timeout time.Duration

	// RetryCount is how many attempts each URL gets
	RetryCount int

	// RequestsPerSecond paces all outgoing requests
	RequestsPerSecond float64

	// AcceptLanguage is sent with every request
	AcceptLanguage string

	// Referer is sent with every request when non-empty
	Referer string

	// TextProxyURL is a printf template ("https://relay.example/?url=%s")
	// for a read-only text-rendering relay. Consulted only after the
	// primary path is exhausted; empty disables the fallback.
	TextProxyURL string

	// MinBodyBytes overrides the unusable-body threshold when positive
	MinBodyBytes int
}

// Client implements interfaces.PageFetcher using the standard library
// HTTP client, with retries, exponential backoff and a per-run page
// cache so cascade sub-fetches never hit the same URL twice.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	pages   *gocache.Cache
	opts    Options
	logger  interfaces.Logger
}

// NewClient creates a fetcher for one run
func NewClient(opts Options, logger interfaces.Logger) *Client {
	if opts.RetryCount < 1 {
		opts.RetryCount = 1
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.MinBodyBytes <= 0 {
		opts.MinBodyBytes = defaultMinBodyBytes
	}

	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		pages:   gocache.New(gocache.NoExpiration, 0),
		opts:    opts,
		logger:  logger,
	}
}

// Fetch retrieves the raw HTML behind a URL. The primary path is tried
// first; when it is exhausted and a text proxy is configured, the same
// retry policy runs against the proxy. Results are memoized for the
// lifetime of the run.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if cached, found := c.pages.Get(pageURL); found {
		return cached.([]byte), nil
	}

	body, err := c.fetchWithRetry(ctx, pageURL)
	if err != nil && c.opts.TextProxyURL != "" {
		c.logger.Warn("direct fetch exhausted, trying text proxy", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		if proxied, proxyErr := c.fetchWithRetry(ctx, c.proxyURL(pageURL)); proxyErr == nil {
			body, err = proxied, nil
		}
	}
	if err != nil {
		return nil, err
	}

	c.pages.Set(pageURL, body, gocache.NoExpiration)
	return body, nil
}

// fetchWithRetry runs the bounded retry loop for one URL
func (c *Client) fetchWithRetry(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	lastStatus := 0

	for attempt := 0; attempt < c.opts.RetryCount; attempt++ {
		if attempt > 0 {
			// 500ms, 1s, 2s, ...
			backoff := time.Duration(500*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, status, err := c.doRequest(ctx, pageURL)
		if err != nil {
			lastErr = err
			continue
		}
		if status != http.StatusOK {
			lastStatus = status
			lastErr = fmt.Errorf("status %d", status)
			continue
		}
		if len(body) < c.opts.MinBodyBytes {
			lastErr = fmt.Errorf("body too short: %d bytes", len(body))
			continue
		}

		return body, nil
	}

	return nil, &apperrors.TransportError{
		URL:        pageURL,
		StatusCode: lastStatus,
		Attempts:   c.opts.RetryCount,
		Err:        lastErr,
	}
}

func (c *Client) doRequest(ctx context.Context, pageURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("User-Agent", userAgent)
	if c.opts.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", c.opts.AcceptLanguage)
	}
	if c.opts.Referer != "" {
		req.Header.Set("Referer", c.opts.Referer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

// proxyURL builds the relay URL for a page: the template receives the
// page address with its scheme stripped, query-escaped.
func (c *Client) proxyURL(pageURL string) string {
	stripped := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Scheme != "" {
		stripped = strings.TrimPrefix(pageURL, u.Scheme+"://")
	}
	return fmt.Sprintf(c.opts.TextProxyURL, url.QueryEscape(stripped))
}
