package standard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "epiotrkow-rss/core/errors"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func testOptions() Options {
	return Options{
		Timeout:           5 * time.Second,
		RetryCount:        3,
		RequestsPerSecond: 1000, // tests should not sleep
		AcceptLanguage:    "pl-PL,pl;q=0.9,en;q=0.8",
		MinBodyBytes:      10,
	}
}

func page(content string) string {
	return "<html><body>" + content + strings.Repeat("x", 64) + "</body></html>"
}

func TestFetch_SetsBrowserHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		fmt.Fprint(w, page("ok"))
	}))
	defer srv.Close()

	c := NewClient(testOptions(), nopLogger{})
	if _, err := c.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if gotUA != userAgent {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotLang != "pl-PL,pl;q=0.9,en;q=0.8" {
		t.Errorf("Accept-Language = %q", gotLang)
	}
}

func TestFetch_RetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, page("recovered"))
	}))
	defer srv.Close()

	c := NewClient(testOptions(), nopLogger{})
	body, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch should succeed on the third attempt: %v", err)
	}
	if !strings.Contains(string(body), "recovered") {
		t.Error("Fetch returned wrong body")
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}

func TestFetch_RetriesOnTooShortBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			fmt.Fprint(w, "x") // unusable stub page
			return
		}
		fmt.Fprint(w, page("full page"))
	}))
	defer srv.Close()

	c := NewClient(testOptions(), nopLogger{})
	body, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !strings.Contains(string(body), "full page") {
		t.Error("short body should have been retried")
	}
}

func TestFetch_ExhaustedRetriesReturnTransportError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(testOptions(), nopLogger{})
	_, err := c.Fetch(context.Background(), srv.URL)

	if err == nil {
		t.Fatal("Fetch should fail after exhausting retries")
	}
	if !apperrors.IsTransport(err) {
		t.Errorf("error should be a TransportError, got %T", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}

func TestFetch_TextProxyFallback(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer blocked.Close()

	var proxyQuery string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxyQuery = r.URL.Query().Get("url")
		fmt.Fprint(w, page("text rendering of the page"))
	}))
	defer proxy.Close()

	opts := testOptions()
	opts.RetryCount = 1
	opts.TextProxyURL = proxy.URL + "/?url=%s"

	c := NewClient(opts, nopLogger{})
	body, err := c.Fetch(context.Background(), blocked.URL)
	if err != nil {
		t.Fatalf("proxy fallback should have rescued the fetch: %v", err)
	}
	if !strings.Contains(string(body), "text rendering") {
		t.Error("body should come from the proxy")
	}
	// The relay receives the page address without its scheme.
	if strings.Contains(proxyQuery, "http://") || proxyQuery == "" {
		t.Errorf("proxy received %q, want scheme-stripped address", proxyQuery)
	}
}

func TestFetch_MemoizesPerRun(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, page("cached"))
	}))
	defer srv.Close()

	c := NewClient(testOptions(), nopLogger{})
	ctx := context.Background()
	if _, err := c.Fetch(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fetch(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("second Fetch of the same URL should be served from memory, server saw %d calls", calls)
	}
}

func TestFetch_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(testOptions(), nopLogger{})
	if _, err := c.Fetch(ctx, srv.URL); err == nil {
		t.Error("Fetch with cancelled context should fail")
	}
}
