// ABOUTME: In-page extraction strategy: content-container paragraph scan and labeled date text
// ABOUTME: First matching selector list wins; noise paragraphs and ad containers are skipped

package article

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"epiotrkow-rss/pkg/utils/dates"
	"epiotrkow-rss/pkg/utils/text"
)

// Content-container selector lists in priority order. The first list
// that yields any paragraphs wins; matches are never mixed across lists.
var leadSelectors = []string{
	"[itemprop='articleBody'] p",
	".news-body p",
	".news-content p",
	".article-body p",
	".article-content p",
	".entry-content p",
	"article .content p",
	"article p",
	".post-content p",
	".post-text p",
	".content p",
}

// Paragraphs shorter than this are navigation crumbs, captions and
// other noise, not body text.
const noiseThreshold = 30

// Containers whose paragraphs never belong in a lead.
const skipContainers = ".ad, .ads, .advert, .advertisement, .banner, nav, footer, .menu, .nav"

var publishedLabel = regexp.MustCompile(`(?i)(?:opublikowano|published)\s*:?\s*(.{0,40})`)

var cssURL = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// inPageScan builds a lead from the article's own paragraphs and looks
// for a visible publication date where the machine-readable paths found
// none.
func (e *Extractor) inPageScan(_ context.Context, doc *goquery.Document, _ []byte, _ string) fields {
	var f fields
	if doc == nil {
		return f
	}

	f.lead = e.buildLead(doc)
	f.publishedAt = labeledDate(doc)

	if h1 := text.CollapseWhitespace(doc.Find("h1").First().Text()); h1 != "" {
		f.title = h1
	}

	f.thumbnail = lazyBackgroundImage(doc)

	return f
}

// buildLead concatenates body paragraphs in document order until the
// character budget is reached.
func (e *Extractor) buildLead(doc *goquery.Document) string {
	var paras *goquery.Selection
	for _, sel := range leadSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			paras = s
			break
		}
	}
	if paras == nil {
		if s := doc.Find("main p"); s.Length() > 0 {
			paras = s
		} else {
			paras = doc.Find("p")
		}
	}

	var chunks []string
	total := 0
	paras.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if p.Closest(skipContainers).Length() > 0 {
			return true
		}

		t := text.CollapseWhitespace(text.UnescapeEntities(p.Text()))
		if !text.MeetsMinimumQuality(t, noiseThreshold) {
			return true
		}

		chunks = append(chunks, t)
		total += len([]rune(t)) + 1
		return total < e.cfg.LeadMaxChars
	})

	if len(chunks) == 0 {
		return ""
	}
	return text.TruncateAtWordBoundary(strings.Join(chunks, " "), e.cfg.LeadMaxChars)
}

// labeledDate recovers a date from the portal's visible byline: the
// .news-date node, a time element, or a "Opublikowano:" label followed
// by a Polish date expression.
func labeledDate(doc *goquery.Document) *time.Time {
	if el := doc.Find(".news-date").First(); el.Length() > 0 {
		if t, ok := dates.ParsePolish(el.Text()); ok {
			return &t
		}
	}

	if el := doc.Find("time").First(); el.Length() > 0 {
		if dt, ok := el.Attr("datetime"); ok {
			if t, parsed := dates.ParseFlexible(dt); parsed {
				return &t
			}
		}
		if t, ok := dates.ParsePolish(el.Text()); ok {
			return &t
		}
	}

	if m := publishedLabel.FindStringSubmatch(doc.Text()); m != nil {
		if t, ok := dates.ParsePolish(m[1]); ok {
			return &t
		}
	}

	return nil
}

// lazyBackgroundImage finds a thumbnail on sites that render images as
// CSS backgrounds on lazy-loading placeholders.
func lazyBackgroundImage(doc *goquery.Document) string {
	if src, ok := doc.Find("[data-bg]").First().Attr("data-bg"); ok && !strings.HasPrefix(src, "data:") {
		return src
	}

	if style, ok := doc.Find("[style*='background-image']").First().Attr("style"); ok {
		if m := cssURL.FindStringSubmatch(style); m != nil && !strings.HasPrefix(m[1], "data:") {
			return m[1]
		}
	}

	return ""
}
