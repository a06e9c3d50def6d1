package article

import (
	"context"
	"errors"
	"sync"

	"epiotrkow-rss/core/interfaces"
)

// mockFetcher serves canned pages by URL and records what was requested
type mockFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{pages: map[string]string{}}
}

func (m *mockFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetched = append(m.fetched, url)
	if page, ok := m.pages[url]; ok {
		return []byte(page), nil
	}
	return nil, errors.New("not found")
}

func (m *mockFetcher) requested(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.fetched {
		if u == url {
			return true
		}
	}
	return false
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func testDeps(fetcher *mockFetcher) interfaces.Dependencies {
	return interfaces.Dependencies{
		Fetcher: fetcher,
		Logger:  nopLogger{},
	}
}
