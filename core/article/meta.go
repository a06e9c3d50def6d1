// ABOUTME: Meta-tag extraction strategy
// ABOUTME: Known date-bearing meta names plus open-graph title and image

package article

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"epiotrkow-rss/pkg/utils/dates"
)

// Date-bearing meta tags in priority order.
var dateMetaSelectors = []string{
	"meta[property='article:published_time']",
	"meta[name='article:published_time']",
	"meta[itemprop='datePublished']",
	"meta[name='date']",
}

// metaTags scans the document head for a publication date, an
// open-graph title and an open-graph image.
func (e *Extractor) metaTags(_ context.Context, doc *goquery.Document, _ []byte, _ string) fields {
	var f fields
	if doc == nil {
		return f
	}

	for _, sel := range dateMetaSelectors {
		content, ok := doc.Find(sel).First().Attr("content")
		if !ok || content == "" {
			continue
		}
		if t, parsed := dates.ParseFlexible(content); parsed {
			f.publishedAt = &t
			break
		}
	}

	if content, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		f.title = content
	}

	if content, ok := doc.Find("meta[property='og:image']").First().Attr("content"); ok {
		f.thumbnail = content
	} else if content, ok := doc.Find("meta[name='twitter:image']").First().Attr("content"); ok {
		f.thumbnail = content
	}

	return f
}
