// ABOUTME: Alternate-rendering strategies: AMP counterparts and the gallery URL transform
// ABOUTME: Degraded or secondary page variants consulted when the primary page under-yields

package article

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// alternateRendering visits the article's AMP counterpart(s): the
// explicit rel=amphtml hint first, then synthesized URL transforms.
// AMP pages are script-free and often keep their structured data and
// body paragraphs intact when the primary page hides them.
func (e *Extractor) alternateRendering(ctx context.Context, doc *goquery.Document, _ []byte, pageURL string) fields {
	var f fields

	for _, ampURL := range ampCandidates(doc, pageURL) {
		if f.publishedAt != nil && e.meetsGate(f.lead) {
			break
		}

		ampDoc := e.fetchDoc(ctx, ampURL)
		if ampDoc == nil {
			continue
		}

		got := e.structuredData(ctx, ampDoc, nil, ampURL)
		if f.publishedAt == nil {
			f.publishedAt = got.publishedAt
		}

		if !e.meetsGate(f.lead) {
			if lead := e.buildLead(ampDoc); e.meetsGate(lead) {
				f.lead = lead
			}
		}
	}

	return f
}

// ampCandidates lists the AMP URLs to try for an article, the explicit
// page hint first, skipping anything equal to the original URL.
func ampCandidates(doc *goquery.Document, pageURL string) []string {
	var out []string
	seen := map[string]bool{pageURL: true}
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	if doc != nil {
		doc.Find("link[rel*='amphtml']").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				if u, err := url.Parse(href); err == nil {
					add(base.ResolveReference(u).String())
				}
			}
		})
	}

	withQuery := func(key, value string) string {
		u := *base
		q := u.Query()
		q.Set(key, value)
		u.RawQuery = q.Encode()
		return u.String()
	}
	add(withQuery("amp", ""))
	add(withQuery("amp", "1"))
	add(withQuery("output", "amp"))

	if !strings.HasSuffix(base.Path, "/amp") {
		u := *base
		u.Path = strings.TrimRight(u.Path, "/") + "/amp"
		add(u.String())
	}

	return out
}

// galleryVariant reruns extraction against the article's gallery
// counterpart (/news/slug,ID -> /galeria/slug,ID), which on this portal
// often carries the body text for photo-heavy articles.
func (e *Extractor) galleryVariant(ctx context.Context, _ *goquery.Document, _ []byte, pageURL string) fields {
	var f fields

	galURL := galleryURL(pageURL)
	if galURL == "" {
		return f
	}

	galDoc := e.fetchDoc(ctx, galURL)
	if galDoc == nil {
		return f
	}

	got := e.structuredData(ctx, galDoc, nil, galURL)
	f.publishedAt = got.publishedAt

	if lead := e.buildLead(galDoc); e.meetsGate(lead) {
		f.lead = lead
	}

	return f
}

// galleryURL maps /news/slug,ID to /galeria/slug,ID; articles without
// the ,ID form have no gallery counterpart.
func galleryURL(pageURL string) string {
	idx := strings.Index(pageURL, "/news/")
	if idx < 0 {
		return ""
	}
	rest := pageURL[idx+len("/news/"):]
	if !strings.Contains(rest, ",") {
		return ""
	}
	return pageURL[:idx] + "/galeria/" + rest
}

// fetchDoc retrieves and parses a page variant; any failure is logged
// and swallowed, the variant simply contributes nothing.
func (e *Extractor) fetchDoc(ctx context.Context, pageURL string) *goquery.Document {
	body, err := e.deps.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		e.deps.Logger.Debug("variant fetch failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return doc
}
