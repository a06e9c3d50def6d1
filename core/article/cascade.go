// ABOUTME: Article field extraction cascade, the core of the feed builder
// ABOUTME: Ordered strategies fold into an accumulator that only fills empty or below-gate fields

package article

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"epiotrkow-rss/core/domain"
	"epiotrkow-rss/core/interfaces"
	"epiotrkow-rss/pkg/utils/text"
)

// Config tunes the cascade's quality thresholds
type Config struct {
	// LeadMaxChars is the lead character budget
	LeadMaxChars int

	// LeadMinGood is the quality gate: a lead this long is accepted
	// outright and the cascade stops searching for a better one
	LeadMinGood int

	// LeadRejectShort drops final leads under this length that lack
	// terminal punctuation (truncated teaser fragments)
	LeadRejectShort int
}

// Extractor resolves (title, date, lead, thumbnail) for one article URL
type Extractor struct {
	deps interfaces.Dependencies
	cfg  Config
}

// NewExtractor creates an article extractor
func NewExtractor(deps interfaces.Dependencies, cfg Config) *Extractor {
	if cfg.LeadMaxChars <= 0 {
		cfg.LeadMaxChars = 1000
	}
	if cfg.LeadMinGood <= 0 {
		cfg.LeadMinGood = 250
	}
	if cfg.LeadRejectShort <= 0 {
		cfg.LeadRejectShort = 80
	}

	return &Extractor{deps: deps, cfg: cfg}
}

// fields is the partial result a single strategy contributes
type fields struct {
	title       string
	publishedAt *time.Time
	lead        string
	thumbnail   string
}

// strategy is one step of the cascade. doc is nil when the article
// markup defeated the parser; raw is always the fetched bytes.
type strategy struct {
	name string
	run  func(ctx context.Context, doc *goquery.Document, raw []byte, pageURL string) fields
}

// Extract resolves the article's fields. It never fails: absent fields
// are valid output, and every sub-fetch or parse failure just means the
// next strategy gets its turn. seed carries whatever the listing card
// already knew (title, thumbnail).
func (e *Extractor) Extract(ctx context.Context, rawHTML []byte, seed domain.Article) domain.Article {
	acc := fields{title: seed.Title, thumbnail: seed.ThumbnailURL}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		e.deps.Logger.Debug("article markup defeated the parser", map[string]interface{}{
			"url":   seed.URL,
			"error": err.Error(),
		})
		doc = nil
	}

	// Priority order: structured data beats the AMP rendering beats
	// meta tags beats the in-page scan beats the gallery variant beats
	// boilerplate-stripped full text.
	strategies := []strategy{
		{"jsonld", e.structuredData},
		{"amp", e.alternateRendering},
		{"meta", e.metaTags},
		{"inpage", e.inPageScan},
		{"gallery", e.galleryVariant},
		{"readability", e.fullTextExtraction},
	}

	for _, s := range strategies {
		if e.satisfied(acc) {
			break
		}
		e.merge(&acc, s.run(ctx, doc, rawHTML, seed.URL))
	}

	return e.finalize(acc, seed.URL)
}

// Fallback produces a finalized record from the seed fields alone, for
// articles whose page could not be fetched. The same normalization and
// title rules apply, so the record still carries a usable title even
// when the listing knew nothing beyond the URL.
func (e *Extractor) Fallback(seed domain.Article) domain.Article {
	return e.finalize(fields{title: seed.Title, thumbnail: seed.ThumbnailURL}, seed.URL)
}

// satisfied reports whether the cascade can stop: a date is known and
// the lead has cleared the quality gate.
func (e *Extractor) satisfied(acc fields) bool {
	return acc.publishedAt != nil && e.meetsGate(acc.lead)
}

// meetsGate reports whether a lead clears the quality gate
func (e *Extractor) meetsGate(lead string) bool {
	return text.MeetsMinimumQuality(lead, e.cfg.LeadMinGood)
}

// merge folds one strategy's result into the accumulator. A field
// accepted by an earlier strategy is never overwritten; the lead is the
// one exception, upgradeable while it sits below the quality gate.
func (e *Extractor) merge(acc *fields, next fields) {
	if acc.title == "" {
		acc.title = next.title
	}
	if acc.publishedAt == nil {
		acc.publishedAt = next.publishedAt
	}
	if acc.thumbnail == "" {
		acc.thumbnail = next.thumbnail
	}

	if next.lead == "" {
		return
	}
	if acc.lead == "" {
		acc.lead = next.lead
		return
	}
	if !text.MeetsMinimumQuality(acc.lead, e.cfg.LeadMinGood) &&
		text.MeetsMinimumQuality(next.lead, e.cfg.LeadMinGood) {
		acc.lead = next.lead
	}
}

// finalize applies the normalization and rejection rules and produces
// the immutable article record.
func (e *Extractor) finalize(acc fields, pageURL string) domain.Article {
	lead := text.CollapseWhitespace(text.UnescapeEntities(acc.lead))
	lead = text.TruncateAtWordBoundary(lead, e.cfg.LeadMaxChars)
	if lead != "" &&
		!text.MeetsMinimumQuality(lead, e.cfg.LeadRejectShort) &&
		!text.HasTerminalPunctuation(lead) {
		// Short and unpunctuated: a truncated teaser, not real content.
		lead = ""
	}

	title := text.CollapseWhitespace(text.UnescapeEntities(acc.title))
	if title == "" {
		title = slugTitle(pageURL)
	}

	return domain.Article{
		URL:          pageURL,
		Title:        title,
		PublishedAt:  acc.publishedAt,
		Lead:         lead,
		ThumbnailURL: e.absoluteImage(acc.thumbnail, pageURL),
	}
}

// absoluteImage normalizes protocol-relative and root-relative image
// URLs against the article URL and rejects data: URIs.
func (e *Extractor) absoluteImage(img, pageURL string) string {
	if img == "" || strings.HasPrefix(img, "data:") {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return img
	}
	u, err := url.Parse(img)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

var slugID = regexp.MustCompile(`,\d+$`)

// slugTitle derives a human-readable title from the URL path, the final
// fallback when no strategy found a headline.
func slugTitle(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "Bez tytułu"
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	slug := segments[len(segments)-1]
	slug = slugID.ReplaceAllString(slug, "")
	slug = strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	slug = text.CollapseWhitespace(slug)

	if slug == "" {
		return "Bez tytułu"
	}
	return slug
}
