// ABOUTME: Date parsing utilities for the extraction cascade
// ABOUTME: Handles ISO timestamps, loosely formatted meta dates and Polish month-name dates

package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Polish month names as they appear in article bylines: genitive full
// forms, diacritic-free spellings, and common abbreviations.
var polishMonths = map[string]time.Month{
	"stycznia": time.January, "lutego": time.February, "marca": time.March,
	"kwietnia": time.April, "maja": time.May, "czerwca": time.June,
	"lipca": time.July, "sierpnia": time.August,
	"września": time.September, "wrzesnia": time.September,
	"października": time.October, "pazdziernika": time.October,
	"listopada": time.November, "grudnia": time.December,

	"sty": time.January, "lut": time.February, "mar": time.March,
	"kwi": time.April, "maj": time.May, "cze": time.June, "lip": time.July,
	"sie": time.August, "wrz": time.September,
	"paź": time.October, "paz": time.October,
	"lis": time.November, "gru": time.December,
}

// dayMonthYear matches "5 września 2024", optionally followed by a
// clock time, anywhere inside a text fragment.
var dayMonthYear = regexp.MustCompile(`(\d{1,2})\s+([\p{L}]+)\s+(\d{4})(?:\D{0,3}(\d{1,2}):(\d{2}))?`)

// ParseFlexible parses a machine-written timestamp: strict RFC 3339
// first, then a handful of near-ISO layouts, then dateparse for the
// looser formats meta tags are seen carrying. The result is always UTC.
func ParseFlexible(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t.UTC(), true
	}

	return time.Time{}, false
}

// ParsePolish scans a text fragment for a Polish-locale date expression
// ("14 października 2024", "14 paź 2024 17:30"). When no clock time is
// present the instant lands on 12:00 UTC so same-day items keep a sane
// relative order in readers.
func ParsePolish(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	m := dayMonthYear.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	month, ok := monthByName(m[2])
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}

	hour, minute := 12, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if hour > 23 || minute > 59 {
			hour, minute = 12, 0
		}
	}

	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC), true
}

func monthByName(name string) (time.Month, bool) {
	key := strings.ToLower(strings.TrimSuffix(name, "."))
	if month, ok := polishMonths[key]; ok {
		return month, true
	}
	return 0, false
}

// ToRFC2822 renders an instant in the textual format RSS pubDate and
// lastBuildDate require, always in UTC.
func ToRFC2822(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05 +0000")
}
