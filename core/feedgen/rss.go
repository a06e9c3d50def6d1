// ABOUTME: RSS 2.0 document rendering with media extensions
// ABOUTME: Optional nodes are omitted entirely rather than emitted empty

package feedgen

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"epiotrkow-rss/core/domain"
	"epiotrkow-rss/pkg/utils/dates"
)

type rssDoc struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	MediaNS string   `xml:"xmlns:media,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	TTL           int       `xml:"ttl"`
	Language      string    `xml:"language,omitempty"`
	AtomLink      *atomLink `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title          cdata           `xml:"title"`
	Link           string          `xml:"link"`
	GUID           guid            `xml:"guid"`
	PubDate        string          `xml:"pubDate,omitempty"`
	Description    cdata           `xml:"description"`
	Enclosure      *enclosure      `xml:"enclosure"`
	MediaContent   *mediaContent   `xml:"media:content"`
	MediaThumbnail *mediaThumbnail `xml:"media:thumbnail"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

type guid struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

type mediaContent struct {
	URL    string `xml:"url,attr"`
	Medium string `xml:"medium,attr"`
}

type mediaThumbnail struct {
	URL string `xml:"url,attr"`
}

// renderRSS builds the document tree and marshals it
func renderRSS(items []domain.Article, buildTime time.Time, opts Options) ([]byte, error) {
	doc := rssDoc{
		Version: "2.0",
		MediaNS: "http://search.yahoo.com/mrss/",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: channel{
			Title:         opts.Title,
			Link:          opts.Link,
			Description:   opts.Description,
			LastBuildDate: dates.ToRFC2822(buildTime),
			TTL:           opts.TTLMinutes,
			Language:      opts.Language,
			Items:         make([]rssItem, 0, len(items)),
		},
	}

	if opts.SelfURL != "" {
		doc.Channel.AtomLink = &atomLink{
			Href: opts.SelfURL,
			Rel:  "self",
			Type: "application/rss+xml",
		}
	}

	for _, a := range items {
		doc.Channel.Items = append(doc.Channel.Items, renderItem(a, buildTime, opts))
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func renderItem(a domain.Article, buildTime time.Time, opts Options) rssItem {
	item := rssItem{
		Title:       cdata{Value: a.Title},
		Link:        a.URL,
		GUID:        guid{IsPermaLink: "false", Value: a.GUID(opts.GUIDSalt)},
		Description: cdata{Value: itemDescription(a, opts)},
	}

	if a.PublishedAt != nil {
		item.PubDate = dates.ToRFC2822(*a.PublishedAt)
	} else if opts.DateFallbackNow {
		item.PubDate = dates.ToRFC2822(buildTime)
	}

	if a.ThumbnailURL != "" {
		// Readers disagree on which media reference they honor, so all
		// three point at the same image.
		item.Enclosure = &enclosure{URL: a.ThumbnailURL, Type: GuessMIME(a.ThumbnailURL)}
		item.MediaContent = &mediaContent{URL: a.ThumbnailURL, Medium: "image"}
		item.MediaThumbnail = &mediaThumbnail{URL: a.ThumbnailURL}
	}

	return item
}

// itemDescription renders the item body: the lead when one was
// extracted, the title otherwise; in HTML mode the thumbnail image
// precedes the text.
func itemDescription(a domain.Article, opts Options) string {
	lead := a.Lead
	if lead == "" {
		lead = a.Title
	}

	if !opts.HTMLDescription {
		return lead
	}

	var b strings.Builder
	if a.ThumbnailURL != "" {
		fmt.Fprintf(&b, `<p><img src="%s" alt="miniatura"/></p>`, a.ThumbnailURL)
	}
	fmt.Fprintf(&b, "<p>%s</p>", lead)
	return b.String()
}

// GuessMIME infers the thumbnail MIME type from its file extension
func GuessMIME(imageURL string) string {
	u := strings.ToLower(imageURL)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}

	switch {
	case strings.HasSuffix(u, ".webp"):
		return "image/webp"
	case strings.HasSuffix(u, ".png"):
		return "image/png"
	case strings.HasSuffix(u, ".jpg"), strings.HasSuffix(u, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(u, ".gif"):
		return "image/gif"
	}
	return "image/*"
}
