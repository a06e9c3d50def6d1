package main

import (
	"context"
	"errors"
	"testing"

	"epiotrkow-rss/core/article"
	"epiotrkow-rss/core/interfaces"
	"epiotrkow-rss/core/listing"
	"epiotrkow-rss/pkg/config"
)

type stubFetcher struct {
	pages map[string]string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if page, ok := s.pages[url]; ok {
		return []byte(page), nil
	}
	return nil, errors.New("unreachable")
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func testConfig() *config.Config {
	cfg, _ := config.LoadFromEnv()
	return cfg
}

func testDeps(fetcher *stubFetcher) interfaces.Dependencies {
	return interfaces.Dependencies{
		Fetcher: fetcher,
		Logger:  nopLogger{},
	}
}

func TestFetchArticles_FailedFetchStillYieldsTitledRecord(t *testing.T) {
	// A card found by the raw-markup scan has no title, and its page is
	// unreachable. The record must still come back with a slug title so
	// the feed never renders an empty one.
	deps := testDeps(&stubFetcher{})
	extractor := article.NewExtractor(deps, article.Config{})

	cards := []listing.Card{
		{URL: "https://epiotrkow.pl/news/nowa-obwodnica-otwarta,12345"},
	}

	articles := fetchArticles(context.Background(), testConfig(), deps, extractor, cards)

	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}
	got := articles[0]
	if got.Title != "nowa obwodnica otwarta" {
		t.Errorf("Title = %q, want URL-derived slug", got.Title)
	}
	if !got.IsValid() {
		t.Error("degraded record must still be a valid feed item")
	}
}

func TestFetchArticles_FailedFetchKeepsCardFields(t *testing.T) {
	deps := testDeps(&stubFetcher{})
	extractor := article.NewExtractor(deps, article.Config{})

	cards := []listing.Card{
		{
			URL:          "https://epiotrkow.pl/news/a,100",
			Title:        "Tytuł z listingu",
			ThumbnailURL: "https://epiotrkow.pl/im/a.jpg",
		},
	}

	articles := fetchArticles(context.Background(), testConfig(), deps, extractor, cards)

	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}
	if articles[0].Title != "Tytuł z listingu" {
		t.Errorf("Title = %q, want the card title", articles[0].Title)
	}
	if articles[0].ThumbnailURL != "https://epiotrkow.pl/im/a.jpg" {
		t.Errorf("ThumbnailURL = %q, want the card thumbnail", articles[0].ThumbnailURL)
	}
}

func TestFetchArticles_DetailLimitBoundsCascade(t *testing.T) {
	deps := testDeps(&stubFetcher{})
	extractor := article.NewExtractor(deps, article.Config{})

	cfg := testConfig()
	cfg.Crawl.DetailLimit = 1

	cards := []listing.Card{
		{URL: "https://epiotrkow.pl/news/a,1", Title: "A"},
		{URL: "https://epiotrkow.pl/news/b,2", Title: "B"},
	}

	articles := fetchArticles(context.Background(), cfg, deps, extractor, cards)

	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}
	if articles[0].URL != "https://epiotrkow.pl/news/a,1" {
		t.Errorf("URL = %q, the first card should be kept", articles[0].URL)
	}
}

func TestListingURL(t *testing.T) {
	cfg := testConfig()

	if got := listingURL(cfg, 1); got != "https://epiotrkow.pl/news/" {
		t.Errorf("page 1 = %q", got)
	}
	if got := listingURL(cfg, 3); got != "https://epiotrkow.pl/news/wydarzenia-p3" {
		t.Errorf("page 3 = %q", got)
	}
}
