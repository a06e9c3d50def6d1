package interfaces

import "context"

// PageFetcher retrieves the raw HTML document behind a URL.
// Implementations own the retry policy, request headers, politeness
// delays and any degraded-fidelity fallback path; callers only see
// "the bytes of the page" or an error meaning "skip this URL".
type PageFetcher interface {
	// Fetch performs an HTTP GET for the given URL and returns the
	// response body. A non-nil error means the URL is unusable after
	// all retries; it is never fatal to the run.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
