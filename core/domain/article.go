// ABOUTME: Article domain model represents one extracted news article
// ABOUTME: Identity is URL-based; GUID derivation and validation live here

package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// Article is the unit of feed output. One Article exists per unique URL;
// it is enriched in place by successive extraction strategies and then
// handed to the feed assembler.
type Article struct {
	// URL is the canonical absolute article URL and the article's identity.
	// Two articles with the same URL are the same article.
	URL string

	// Title is the headline. Never empty in final output: when nothing
	// better is found it falls back to a slug derived from the URL path.
	Title string

	// PublishedAt is the recovered publication instant, normalized to UTC.
	// Nil means no date was recoverable; whether that becomes "time of
	// feed build" or an omitted pubDate node is a configuration choice.
	PublishedAt *time.Time

	// Lead is a short representative excerpt of the article body, already
	// normalized and truncated. Empty means absent; the title is
	// substituted at render time.
	Lead string

	// ThumbnailURL is an absolute image URL, or empty when no usable
	// image was found.
	ThumbnailURL string
}

// GUID derives the item's opaque identifier: a hex SHA-1 of the URL,
// optionally salted. Bumping the salt changes every GUID, which forces
// feed readers to treat all items as new.
func (a *Article) GUID(salt string) string {
	sum := sha1.Sum([]byte(a.URL + salt))
	return hex.EncodeToString(sum[:])
}

// IsValid checks if the article has all required fields
func (a *Article) IsValid() bool {
	if a.URL == "" {
		return false
	}

	if a.Title == "" {
		return false
	}

	return true
}

// PublishedOr returns the publication time, or the given fallback when
// no date was recovered.
func (a *Article) PublishedOr(fallback time.Time) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return fallback
}
