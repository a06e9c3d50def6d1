// ABOUTME: Structured-data (JSON-LD) extraction strategy
// ABOUTME: Reads date, lead, headline and image from embedded article objects

package article

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "epiotrkow-rss/core/errors"
	"epiotrkow-rss/pkg/utils/dates"
	"epiotrkow-rss/pkg/utils/text"
)

// Leads recovered from structured data shorter than this are assumed to
// be SEO stubs and skipped.
const minStructuredLead = 40

// structuredData reads application/ld+json blocks and accepts data only
// from objects whose declared type denotes an article.
func (e *Extractor) structuredData(_ context.Context, doc *goquery.Document, _ []byte, pageURL string) fields {
	var f fields
	if doc == nil {
		return f
	}

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			// Malformed block: this strategy yielded nothing here.
			perr := &apperrors.ParseError{Strategy: "structured_data", Err: err}
			e.deps.Logger.Debug("structured data block rejected", map[string]interface{}{
				"url":   pageURL,
				"error": perr.Error(),
			})
			return true
		}

		for _, obj := range structuredObjects(data) {
			if !isArticleType(obj["@type"]) {
				continue
			}

			if f.publishedAt == nil {
				if raw, ok := firstString(obj, "datePublished", "dateCreated"); ok {
					if t, parsed := dates.ParseFlexible(raw); parsed {
						f.publishedAt = &t
					}
				}
			}

			if f.lead == "" {
				if raw, ok := firstString(obj, "articleBody", "description"); ok {
					clean := text.CollapseWhitespace(text.UnescapeEntities(raw))
					if text.MeetsMinimumQuality(clean, minStructuredLead) {
						f.lead = clean
					}
				}
			}

			if f.title == "" {
				if raw, ok := firstString(obj, "headline", "name"); ok {
					f.title = raw
				}
			}

			if f.thumbnail == "" {
				f.thumbnail = structuredImage(obj["image"])
			}
		}

		// Keep scanning blocks until a date or lead turns up.
		return f.publishedAt == nil && f.lead == ""
	})

	return f
}

// structuredObjects flattens the shapes JSON-LD arrives in: a single
// object, a top-level array, or an object wrapping a @graph array.
func structuredObjects(data interface{}) []map[string]interface{} {
	var out []map[string]interface{}

	switch v := data.(type) {
	case map[string]interface{}:
		out = append(out, v)
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, g := range graph {
				if obj, ok := g.(map[string]interface{}); ok {
					out = append(out, obj)
				}
			}
		}
	case []interface{}:
		for _, item := range v {
			if obj, ok := item.(map[string]interface{}); ok {
				out = append(out, obj)
			}
		}
	}

	return out
}

// isArticleType accepts Article, NewsArticle and their subtypes; the
// declared type may be a string or a list of strings.
func isArticleType(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return containsArticle(t)
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && containsArticle(s) {
				return true
			}
		}
	}
	return false
}

// NewsArticle and subtypes like ReportageNewsArticle all contain the
// Article substring.
func containsArticle(t string) bool {
	return strings.Contains(t, "Article")
}

// firstString returns the first of the named keys holding a non-empty string
func firstString(obj map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// structuredImage handles the two common shapes of the image property:
// a bare URL string or an ImageObject with a url field.
func structuredImage(v interface{}) string {
	switch img := v.(type) {
	case string:
		return img
	case map[string]interface{}:
		if u, ok := img["url"].(string); ok {
			return u
		}
	case []interface{}:
		if len(img) > 0 {
			return structuredImage(img[0])
		}
	}
	return ""
}
