package text

import (
	"strings"
	"testing"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tabs and newlines", "jedna\t linia\n\n druga", "jedna linia druga"},
		{"leading and trailing", "  tekst  ", "tekst"},
		{"already clean", "nic do roboty", "nic do roboty"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseWhitespace(tt.input); got != tt.want {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnescapeEntities(t *testing.T) {
	got := UnescapeEntities("Wojew&oacute;dztwo &amp; miasto &#8230;")
	want := "Województwo & miasto …"
	if got != want {
		t.Errorf("UnescapeEntities = %q, want %q", got, want)
	}
}

func TestTruncateAtWordBoundary_NoCutWhenShort(t *testing.T) {
	s := "krótki lead."
	if got := TruncateAtWordBoundary(s, 500); got != s {
		t.Errorf("short input should be returned unchanged, got %q", got)
	}
}

func TestTruncateAtWordBoundary_BudgetProperty(t *testing.T) {
	// 2000-char input with a 500-char budget must come back as at most
	// 501 characters (budget + ellipsis), cut on a word boundary.
	word := "artykuł "
	long := strings.Repeat(word, 250)

	got := TruncateAtWordBoundary(long, 500)
	runes := []rune(got)

	if len(runes) > 501 {
		t.Errorf("truncated length %d exceeds budget+ellipsis", len(runes))
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Error("truncated text should end in an ellipsis")
	}

	body := strings.TrimSuffix(got, Ellipsis)
	if !strings.HasSuffix(body, "artykuł") {
		t.Errorf("cut should land on a word boundary, got tail %q", body[len(body)-10:])
	}
}

func TestTruncateAtWordBoundary_CountsRunesNotBytes(t *testing.T) {
	// ł, ó, ż are multi-byte; a byte-based cut would split them.
	s := strings.Repeat("żółć ", 30)

	got := TruncateAtWordBoundary(s, 20)
	for _, r := range got {
		if r == '�' {
			t.Fatal("truncation split a multi-byte rune")
		}
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Error("cut text should carry the ellipsis marker")
	}
}

func TestMeetsMinimumQuality(t *testing.T) {
	if MeetsMinimumQuality("za krótki", 250) {
		t.Error("9 characters should not meet a 250-char gate")
	}
	if !MeetsMinimumQuality(strings.Repeat("a", 250), 250) {
		t.Error("exactly 250 characters should meet a 250-char gate")
	}
}

func TestHasTerminalPunctuation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Pełne zdanie.", true},
		{"Naprawdę!", true},
		{"Czyżby?", true},
		{"urwany fragment" + Ellipsis, true},
		{"urwany fragment", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasTerminalPunctuation(tt.input); got != tt.want {
			t.Errorf("HasTerminalPunctuation(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
