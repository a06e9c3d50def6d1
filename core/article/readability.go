// ABOUTME: Last-resort lead strategy using go-readability boilerplate removal
// ABOUTME: Runs against the original article page only, never its variants

package article

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"epiotrkow-rss/pkg/utils/text"
)

// Readability output shorter than this is junk (cookie banners,
// share buttons), not article text.
const minReadableChars = 120

// fullTextExtraction strips boilerplate from the already-fetched
// article page and uses the remaining text as the lead candidate.
func (e *Extractor) fullTextExtraction(_ context.Context, _ *goquery.Document, raw []byte, pageURL string) fields {
	var f fields
	if len(raw) == 0 {
		return f
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return f
	}

	parsed, err := readability.FromReader(bytes.NewReader(raw), parsedURL)
	if err != nil {
		e.deps.Logger.Debug("readability extraction failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return f
	}

	clean := text.CollapseWhitespace(text.UnescapeEntities(parsed.TextContent))
	if !text.MeetsMinimumQuality(clean, minReadableChars) {
		return f
	}

	f.lead = text.TruncateAtWordBoundary(clean, e.cfg.LeadMaxChars)

	f.title = parsed.Title
	f.thumbnail = parsed.Image

	return f
}
