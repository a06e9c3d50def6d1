// ABOUTME: Feed assembler: dedupe, order and cap article records, then render RSS 2.0
// ABOUTME: Output is deterministic for a given record set and build timestamp

package feedgen

import (
	"sort"
	"time"

	"epiotrkow-rss/core/domain"
)

// Options configures the emitted feed document
type Options struct {
	// Title, Link and Description fill the channel header
	Title       string
	Link        string
	Description string

	// SelfURL, when set, emits an atom:link self reference
	SelfURL string

	// Language is the channel language code
	Language string

	// GUIDSalt is mixed into every item identifier
	GUIDSalt string

	// MaxItems caps the item count; zero means no cap
	MaxItems int

	// TTLMinutes is the refresh interval hint for readers
	TTLMinutes int

	// HTMLDescription renders item descriptions as a thumbnail image
	// followed by the lead paragraph; false emits the bare lead text
	HTMLDescription bool

	// DateFallbackNow stamps items with no recoverable date with the
	// feed build time. This makes dateless items sort as freshest,
	// which is a deliberate policy: readers sort and display by this
	// field, and a missing one degrades worse than an approximate one.
	// When false the pubDate node is omitted instead.
	DateFallbackNow bool

	// Now supplies the build timestamp; nil means time.Now
	Now func() time.Time
}

// Assemble deduplicates, orders, caps and renders the record set into
// a complete RSS 2.0 document.
func Assemble(records []domain.Article, opts Options) ([]byte, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TTLMinutes <= 0 {
		opts.TTLMinutes = 60
	}

	buildTime := opts.Now().UTC()

	// A record without a URL or title cannot render a conformant item.
	valid := make([]domain.Article, 0, len(records))
	for _, r := range records {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}

	items := dedupeByURL(valid)

	// Most recent first; ties keep their listing order. Dateless items
	// sort with the build time regardless of the pubDate policy.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedOr(buildTime).After(items[j].PublishedOr(buildTime))
	})

	if opts.MaxItems > 0 && len(items) > opts.MaxItems {
		items = items[:opts.MaxItems]
	}

	return renderRSS(items, buildTime, opts)
}

// dedupeByURL keeps the first occurrence of each URL, preserving order
func dedupeByURL(records []domain.Article) []domain.Article {
	seen := make(map[string]bool, len(records))
	unique := make([]domain.Article, 0, len(records))

	for _, r := range records {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		unique = append(unique, r)
	}

	return unique
}
