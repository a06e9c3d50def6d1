// ABOUTME: Listing page extractor producing article link candidates with card metadata
// ABOUTME: Structural selectors first, then raw-markup regex, then embedded-JSON walk

package listing

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "epiotrkow-rss/core/errors"
	"epiotrkow-rss/core/interfaces"
)

// Card is one article candidate found on a listing page. Title and
// thumbnail are best-effort; the article cascade fills what is missing.
type Card struct {
	URL          string
	Title        string
	ThumbnailURL string
}

// Article links look like /news/slug,12345. Listing and category pages
// share the /news/ prefix but lack the trailing ,ID and must be excluded.
var (
	articleHref    = regexp.MustCompile(`^/news/[^/]+,\d+$`)
	absoluteInText = regexp.MustCompile(`https?://[^"'\s<>]+/news/[^/"'\s<>]+,\d+`)
	relativeInText = regexp.MustCompile(`["'(](/news/[^/"'\s<>)]+,\d+)`)
)

// Anchor selectors for the portal's card markup, most specific first.
var cardSelectors = []string{
	".tn-img a[href^='/news/']",
	".bg-white a[href^='/news/']",
	"a[href*='/news/']",
}

// Extractor turns one listing page's raw markup into article cards
type Extractor struct {
	base     *url.URL
	minLinks int
	logger   interfaces.Logger
}

// NewExtractor creates a listing extractor rooted at the portal base URL.
// minLinks is the threshold below which the permissive fallback
// strategies are consulted.
func NewExtractor(baseURL string, minLinks int, logger interfaces.Logger) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, apperrors.WrapError(err, "invalid portal base URL")
	}

	return &Extractor{
		base:     base,
		minLinks: minLinks,
		logger:   logger,
	}, nil
}

// Extract returns the order-preserving, deduplicated article cards found
// in one listing page. All URLs are absolute. It never fails: unusable
// markup just produces fewer (or zero) cards.
func (e *Extractor) Extract(rawHTML []byte) []Card {
	var cards []Card

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err == nil {
		cards = e.structuralScan(doc)
	} else {
		e.logger.Debug("listing markup defeated the parser", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if len(cards) < e.minLinks {
		cards = append(cards, e.regexScan(rawHTML)...)
	}

	if len(cards) < e.minLinks {
		cards = append(cards, e.embeddedJSONScan(doc)...)
	}

	return dedupe(cards)
}

// structuralScan walks the known card selectors and collects anchors
// whose target matches the article path pattern, along with the card's
// title and thumbnail when present.
func (e *Extractor) structuralScan(doc *goquery.Document) []Card {
	var cards []Card

	for _, sel := range cardSelectors {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			href = e.rootRelative(href)
			if !articleHref.MatchString(href) {
				return
			}

			cards = append(cards, Card{
				URL:          e.absolutize(href),
				Title:        cardTitle(a),
				ThumbnailURL: e.cardImage(a),
			})
		})
	}

	return cards
}

// regexScan matches article URLs directly in the unparsed markup to
// survive attribute quoting variants and inline-rendered JSON.
func (e *Extractor) regexScan(rawHTML []byte) []Card {
	var cards []Card

	for _, m := range absoluteInText.FindAll(rawHTML, -1) {
		href := e.rootRelative(string(m))
		if articleHref.MatchString(href) {
			cards = append(cards, Card{URL: e.absolutize(href)})
		}
	}
	for _, m := range relativeInText.FindAllSubmatch(rawHTML, -1) {
		cards = append(cards, Card{URL: e.absolutize(string(m[1]))})
	}

	return cards
}

// embeddedJSONScan parses client-framework data blobs and collects any
// string leaf containing an article path.
func (e *Extractor) embeddedJSONScan(doc *goquery.Document) []Card {
	if doc == nil {
		return nil
	}

	var cards []Card
	doc.Find("script#__NEXT_DATA__, script[type='application/json']").Each(func(_ int, s *goquery.Selection) {
		var blob interface{}
		if err := json.Unmarshal([]byte(s.Text()), &blob); err != nil {
			return
		}
		walkStrings(blob, func(leaf string) {
			for _, m := range absoluteInText.FindAllString(leaf, -1) {
				if href := e.rootRelative(m); articleHref.MatchString(href) {
					cards = append(cards, Card{URL: e.absolutize(href)})
				}
			}
			for _, m := range relativeInText.FindAllStringSubmatch(`"`+leaf, -1) {
				cards = append(cards, Card{URL: e.absolutize(m[1])})
			}
		})
	})

	return cards
}

// walkStrings visits every string leaf of a decoded JSON structure
func walkStrings(node interface{}, visit func(string)) {
	switch v := node.(type) {
	case string:
		visit(v)
	case []interface{}:
		for _, child := range v {
			walkStrings(child, visit)
		}
	case map[string]interface{}:
		for _, child := range v {
			walkStrings(child, visit)
		}
	}
}

// cardTitle recovers the headline attached to a card anchor: the
// .tn-title node inside it, the anchor's own text, a .tn-title in the
// surrounding card, or the image alt text.
func cardTitle(a *goquery.Selection) string {
	if t := strings.TrimSpace(a.Find(".tn-title").First().Text()); t != "" {
		return collapse(t)
	}
	if t := strings.TrimSpace(a.Text()); t != "" {
		return collapse(t)
	}

	parent := a
	for i := 0; i < 4; i++ {
		parent = parent.Parent()
		if parent.Length() == 0 {
			break
		}
		if t := strings.TrimSpace(parent.Find(".tn-title").First().Text()); t != "" {
			return collapse(t)
		}
	}

	if alt, ok := a.Find("img").First().Attr("alt"); ok {
		return collapse(strings.TrimSpace(alt))
	}
	return ""
}

// cardImage finds the thumbnail for a card anchor: an img inside the
// anchor itself, then up to four ancestor levels, then the nearest
// following image, then a lazy-loader background-image. data: URIs are
// rejected everywhere.
func (e *Extractor) cardImage(a *goquery.Selection) string {
	if src := imageSource(a.Find("img").First()); src != "" {
		return e.absolutize(src)
	}

	parent := a
	for i := 0; i < 4; i++ {
		parent = parent.Parent()
		if parent.Length() == 0 {
			break
		}
		if src := imageSource(parent.Find("img").First()); src != "" {
			return e.absolutize(src)
		}
	}

	if src := imageSource(a.Parent().NextAll().Find("img").First()); src != "" {
		return e.absolutize(src)
	}

	if src := backgroundImage(a); src != "" {
		return e.absolutize(src)
	}

	return ""
}

// imageSource prefers the lazy-loading data-src attribute over src
func imageSource(img *goquery.Selection) string {
	if img.Length() == 0 {
		return ""
	}
	src, ok := img.Attr("data-src")
	if !ok || src == "" {
		src, _ = img.Attr("src")
	}
	if strings.HasPrefix(src, "data:") {
		return ""
	}
	return src
}

var cssURL = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// backgroundImage pulls a URL out of an inline background-image style
// on the anchor or its card container.
func backgroundImage(a *goquery.Selection) string {
	for _, sel := range []*goquery.Selection{a, a.Parent(), a.Closest("[style*='background-image']")} {
		style, ok := sel.Attr("style")
		if !ok {
			continue
		}
		if m := cssURL.FindStringSubmatch(style); m != nil && !strings.HasPrefix(m[1], "data:") {
			return m[1]
		}
	}
	return ""
}

// rootRelative strips the portal origin from absolute URLs so one
// pattern covers both forms; foreign-host URLs stay absolute and fail
// the article pattern.
func (e *Extractor) rootRelative(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.Host != "" && u.Host == e.base.Host {
		return u.Path
	}
	return href
}

// absolutize resolves protocol-relative and root-relative URLs against
// the portal base.
func (e *Extractor) absolutize(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return e.base.ResolveReference(u).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dedupe keeps the first occurrence of each URL, preserving order.
// Later duplicates may still contribute a title or thumbnail the first
// sighting lacked.
func dedupe(cards []Card) []Card {
	seen := make(map[string]int, len(cards))
	unique := make([]Card, 0, len(cards))

	for _, c := range cards {
		if idx, ok := seen[c.URL]; ok {
			if unique[idx].Title == "" {
				unique[idx].Title = c.Title
			}
			if unique[idx].ThumbnailURL == "" {
				unique[idx].ThumbnailURL = c.ThumbnailURL
			}
			continue
		}
		seen[c.URL] = len(unique)
		unique = append(unique, c)
	}

	return unique
}
