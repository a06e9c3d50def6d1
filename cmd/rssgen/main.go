// ABOUTME: Main entry point for the static RSS feed builder
// ABOUTME: Crawls the listing, runs the extraction cascade and writes feed.xml

package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmcdole/gofeed"

	"epiotrkow-rss/core/article"
	"epiotrkow-rss/core/domain"
	"epiotrkow-rss/core/feedgen"
	"epiotrkow-rss/core/interfaces"
	"epiotrkow-rss/core/listing"
	stdhttp "epiotrkow-rss/infrastructure/http/standard"
	logrusimpl "epiotrkow-rss/infrastructure/logger/logrus"
	"epiotrkow-rss/pkg/config"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logrusimpl.NewLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting feed build", map[string]interface{}{
		"base_url":  cfg.Site.BaseURL,
		"max_pages": cfg.Crawl.MaxPages,
		"output":    cfg.OutputPath,
	})

	fetcher := stdhttp.NewClient(stdhttp.Options{
		Timeout:           time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		RetryCount:        cfg.HTTP.RetryCount,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		AcceptLanguage:    "pl-PL,pl;q=0.9,en;q=0.8",
		Referer:           cfg.Site.BaseURL,
		TextProxyURL:      cfg.HTTP.TextProxyURL,
	}, logger)

	deps := interfaces.Dependencies{
		Fetcher: fetcher,
		Logger:  logger,
	}

	listingExtractor, err := listing.NewExtractor(cfg.Site.BaseURL, cfg.Crawl.MinListingLinks, logger)
	if err != nil {
		log.Fatalf("Invalid site configuration: %v", err)
	}
	articleExtractor := article.NewExtractor(deps, article.Config{
		LeadMaxChars:    cfg.Lead.MaxChars,
		LeadMinGood:     cfg.Lead.MinGood,
		LeadRejectShort: cfg.Lead.RejectShort,
	})

	ctx := context.Background()

	cards := crawlListings(ctx, cfg, deps, listingExtractor)
	if len(cards) == 0 {
		// An empty run almost always means the site changed or blocked
		// us; overwriting a good feed with an empty one helps nobody.
		log.Fatal("No article links found on any listing page, keeping the previous feed")
	}
	logger.Info("Listing crawl finished", map[string]interface{}{
		"cards": len(cards),
	})

	articles := fetchArticles(ctx, cfg, deps, articleExtractor, cards)

	output, err := feedgen.Assemble(articles, feedgen.Options{
		Title:           cfg.Feed.Title,
		Link:            cfg.Feed.Link,
		Description:     cfg.Feed.Description,
		SelfURL:         cfg.Feed.SelfURL,
		Language:        cfg.Feed.Language,
		GUIDSalt:        cfg.Feed.GUIDSalt,
		MaxItems:        cfg.Crawl.MaxItems,
		HTMLDescription: cfg.Feed.DescriptionMode == config.DescriptionHTML,
		DateFallbackNow: cfg.Feed.DateFallback == config.DateFallbackNow,
	})
	if err != nil {
		log.Fatalf("Failed to render feed: %v", err)
	}

	// The document must survive a strict re-parse before it replaces
	// the published file.
	if _, err := gofeed.NewParser().Parse(bytes.NewReader(output)); err != nil {
		log.Fatalf("Generated feed does not parse as RSS: %v", err)
	}

	if err := writeAtomic(cfg.OutputPath, output); err != nil {
		log.Fatalf("Failed to write feed: %v", err)
	}

	logger.Info("Feed written", map[string]interface{}{
		"path":  cfg.OutputPath,
		"items": len(articles),
		"bytes": len(output),
	})
}

// crawlListings fetches up to MaxPages listing pages and merges their
// article cards, first occurrence winning.
func crawlListings(ctx context.Context, cfg *config.Config, deps interfaces.Dependencies, extractor *listing.Extractor) []listing.Card {
	seen := make(map[string]bool)
	var cards []listing.Card

	for page := 1; page <= cfg.Crawl.MaxPages; page++ {
		pageURL := listingURL(cfg, page)

		raw, err := deps.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			// Pagination past the last page 404s; later pages add
			// nothing, so one dead page ends the crawl.
			deps.Logger.Warn("Listing page fetch failed, stopping pagination", map[string]interface{}{
				"url":   pageURL,
				"page":  page,
				"error": err.Error(),
			})
			break
		}

		found := extractor.Extract(raw)
		if len(found) == 0 {
			deps.Logger.Warn("Listing page yielded no article links", map[string]interface{}{
				"url": pageURL,
			})
			break
		}

		fresh := 0
		for _, c := range found {
			if seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			cards = append(cards, c)
			fresh++
		}

		deps.Logger.Debug("Listing page crawled", map[string]interface{}{
			"url":   pageURL,
			"found": len(found),
			"fresh": fresh,
		})

		// A page of nothing but repeats means the pagination wrapped
		if fresh == 0 {
			break
		}
	}

	return cards
}

// listingURL builds the address of the Nth listing page. Page 1 is the
// listing root; deeper pages append the pagination suffix.
func listingURL(cfg *config.Config, page int) string {
	base := cfg.Site.BaseURL + cfg.Site.ListingPath
	if page == 1 {
		return base
	}
	return fmt.Sprintf("%s%s%d", base, cfg.Site.ListingPagePrefix, page)
}

// fetchArticles runs the extraction cascade over the first DetailLimit
// cards. A failed article fetch degrades to the card's own fields
// rather than dropping the item.
func fetchArticles(ctx context.Context, cfg *config.Config, deps interfaces.Dependencies, extractor *article.Extractor, cards []listing.Card) []domain.Article {
	limit := cfg.Crawl.DetailLimit
	if limit <= 0 || limit > len(cards) {
		limit = len(cards)
	}

	articles := make([]domain.Article, 0, limit)
	for _, card := range cards[:limit] {
		seed := domain.Article{
			URL:          card.URL,
			Title:        card.Title,
			ThumbnailURL: card.ThumbnailURL,
		}

		raw, err := deps.Fetcher.Fetch(ctx, card.URL)
		if err != nil {
			deps.Logger.Warn("Article fetch failed, using listing fields only", map[string]interface{}{
				"url":   card.URL,
				"error": err.Error(),
			})
			articles = append(articles, extractor.Fallback(seed))
			continue
		}

		articles = append(articles, extractor.Extract(ctx, raw, seed))
	}

	return articles
}

// writeAtomic writes the feed through a temp file in the target
// directory so readers never observe a partial document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".feed-*.xml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
