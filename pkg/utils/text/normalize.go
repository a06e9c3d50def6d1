// ABOUTME: Pure text normalization helpers used by the extraction cascade
// ABOUTME: Whitespace collapsing, entity unescaping, word-boundary truncation, quality gates

package text

import (
	"html"
	"strings"
)

// Ellipsis is appended to leads that were cut at the character budget.
const Ellipsis = "…"

// CollapseWhitespace folds all runs of whitespace (including newlines
// and tabs) into single spaces and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// UnescapeEntities decodes HTML entities like &amp; and &#8230;.
func UnescapeEntities(s string) string {
	return html.UnescapeString(s)
}

// TruncateAtWordBoundary cuts s down to at most maxChars characters and
// appends an ellipsis when a cut was made. The cut lands on a word
// boundary so no partial word precedes the ellipsis. maxChars counts
// characters, not bytes; Polish diacritics are multi-byte.
func TruncateAtWordBoundary(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}

	cut := string(runes[:maxChars])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " ") + Ellipsis
}

// MeetsMinimumQuality reports whether s is long enough to be worth
// keeping as a lead candidate.
func MeetsMinimumQuality(s string, minChars int) bool {
	return len([]rune(s)) >= minChars
}

// HasTerminalPunctuation reports whether s ends in sentence-final
// punctuation. Short leads without it are assumed to be truncated
// teaser fragments rather than real content.
func HasTerminalPunctuation(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}

	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return strings.HasSuffix(trimmed, Ellipsis)
}
