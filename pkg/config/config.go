// ABOUTME: Configuration management for the feed builder with environment variable support
// ABOUTME: Defines configuration structures for crawling, extraction, HTTP and feed output

package config

import (
	"errors"
	"os"
	"strconv"
)

// Date fallback policies for articles where no publication date was
// recoverable. "now" stamps them with the feed build time so readers
// still get a sortable field; "omit" leaves the pubDate node out.
const (
	DateFallbackNow  = "now"
	DateFallbackOmit = "omit"
)

// Description rendering modes for feed items.
const (
	DescriptionHTML  = "html"
	DescriptionPlain = "plain"
)

// Config holds all application configuration
type Config struct {
	// Site describes the crawled portal
	Site SiteConfig

	// Crawl bounds the size of a single run
	Crawl CrawlConfig

	// Lead tunes the lead-text quality thresholds
	Lead LeadConfig

	// HTTP configures the fetcher
	HTTP HTTPConfig

	// Feed configures the emitted RSS document
	Feed FeedConfig

	// OutputPath is where the finished feed file is written
	OutputPath string
}

// SiteConfig describes the crawled news portal
type SiteConfig struct {
	// BaseURL is the portal root, e.g. https://epiotrkow.pl
	BaseURL string

	// ListingPath is the news listing path on the portal
	ListingPath string

	// ListingPagePrefix is the path prefix of paginated listing pages
	// (page N > 1 lives at ListingPath + ListingPagePrefix + N)
	ListingPagePrefix string
}

// CrawlConfig bounds a single run
type CrawlConfig struct {
	// MaxPages is how many listing pages to crawl
	MaxPages int

	// MaxItems caps the total item count in the feed
	MaxItems int

	// DetailLimit is how many articles get the full extraction cascade
	DetailLimit int

	// MinListingLinks is the threshold below which the link extractor
	// falls through to its more permissive strategies
	MinListingLinks int
}

// LeadConfig tunes lead-text extraction
type LeadConfig struct {
	// MaxChars is the lead character budget
	MaxChars int

	// MinGood is the length at which a lead is accepted outright and
	// the cascade stops looking for a better one
	MinGood int

	// RejectShort drops leads under this length that also lack terminal
	// punctuation; such fragments are assumed to be truncated teasers
	RejectShort int
}

// HTTPConfig configures the fetcher
type HTTPConfig struct {
	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int

	// RetryCount is how many attempts each URL gets
	RetryCount int

	// RequestsPerSecond paces requests to stay polite to the origin
	RequestsPerSecond float64

	// TextProxyURL is a printf template for a read-only text-rendering
	// relay, consulted only after the primary path fails. Empty disables
	// the fallback.
	TextProxyURL string
}

// FeedConfig configures the emitted RSS document
type FeedConfig struct {
	// Title is the channel title
	Title string

	// Link is the channel link (the listing URL)
	Link string

	// Description is the channel description
	Description string

	// SelfURL is where the generated file will be served from
	SelfURL string

	// Language is the channel language code
	Language string

	// GUIDSalt is mixed into item GUIDs; bumping it makes readers treat
	// every item as new
	GUIDSalt string

	// DateFallback is "now" or "omit" (see the constants above)
	DateFallback string

	// DescriptionMode is "html" (thumbnail + lead markup) or "plain"
	DescriptionMode string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Site: SiteConfig{
			BaseURL:           getEnvOrDefault("SITE_BASE_URL", "https://epiotrkow.pl"),
			ListingPath:       getEnvOrDefault("LISTING_PATH", "/news/"),
			ListingPagePrefix: getEnvOrDefault("LISTING_PAGE_PREFIX", "wydarzenia-p"),
		},
		Crawl: CrawlConfig{
			MaxPages:        getEnvAsIntOrDefault("MAX_PAGES", 20),
			MaxItems:        getEnvAsIntOrDefault("MAX_ITEMS", 500),
			DetailLimit:     getEnvAsIntOrDefault("DETAIL_LIMIT", 500),
			MinListingLinks: getEnvAsIntOrDefault("MIN_LISTING_LINKS", 6),
		},
		Lead: LeadConfig{
			MaxChars:    getEnvAsIntOrDefault("LEAD_MAX_CHARS", 1000),
			MinGood:     getEnvAsIntOrDefault("LEAD_MIN_GOOD", 250),
			RejectShort: getEnvAsIntOrDefault("LEAD_REJECT_SHORT", 80),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds:    getEnvAsIntOrDefault("REQUEST_TIMEOUT", 25),
			RetryCount:        getEnvAsIntOrDefault("RETRY_COUNT", 3),
			RequestsPerSecond: getEnvAsFloatOrDefault("REQUESTS_PER_SECOND", 1.0),
			TextProxyURL:      getEnvOrDefault("TEXT_PROXY_URL", ""),
		},
		Feed: FeedConfig{
			Title:           getEnvOrDefault("FEED_TITLE", "epiotrkow.pl – Wydarzenia"),
			Link:            getEnvOrDefault("FEED_LINK", "https://epiotrkow.pl/news/"),
			Description:     getEnvOrDefault("FEED_DESCRIPTION", "Automatyczny RSS z list newsów epiotrkow.pl."),
			SelfURL:         getEnvOrDefault("FEED_SELF_URL", ""),
			Language:        getEnvOrDefault("FEED_LANGUAGE", "pl"),
			GUIDSalt:        getEnvOrDefault("GUID_SALT", ""),
			DateFallback:    getEnvOrDefault("DATE_FALLBACK_MODE", DateFallbackNow),
			DescriptionMode: getEnvOrDefault("DESCRIPTION_MODE", DescriptionHTML),
		},
		OutputPath: getEnvOrDefault("OUTPUT_PATH", "feed.xml"),
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return errors.New("site base URL cannot be empty")
	}

	if c.Crawl.MaxPages < 1 {
		return errors.New("max pages must be at least 1")
	}

	if c.Crawl.MaxItems < 1 {
		return errors.New("max items must be at least 1")
	}

	if c.Lead.MaxChars < c.Lead.MinGood {
		return errors.New("lead character budget cannot be below the quality gate")
	}

	if c.HTTP.RetryCount < 1 {
		return errors.New("retry count must be at least 1")
	}

	if c.HTTP.RequestsPerSecond <= 0 {
		return errors.New("requests per second must be positive")
	}

	if c.Feed.DateFallback != DateFallbackNow && c.Feed.DateFallback != DateFallbackOmit {
		return errors.New("date fallback mode must be 'now' or 'omit'")
	}

	if c.Feed.DescriptionMode != DescriptionHTML && c.Feed.DescriptionMode != DescriptionPlain {
		return errors.New("description mode must be 'html' or 'plain'")
	}

	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}

	return nil
}
