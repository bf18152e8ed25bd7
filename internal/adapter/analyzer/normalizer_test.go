package analyzer

import (
	"strings"
	"testing"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		input string
		want  string
	}{
		{"The food was great but the service was slow.", "food great servic slow"},
		{"I LOVED it!!! 10/10", "love"},
		{"a b c", ""},
		{"", ""},
		{"   \t\n  ", ""},
		{"Tasty dishes, cheap prices.", "tasti dish cheap price"},
		{"don't", "don"},
	}

	for _, tt := range tests {
		if got := n.Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizer_OnlyLowercaseLetters(t *testing.T) {
	n := NewNormalizer(nil)

	out := n.Normalize("Crème brûlée: 12€, WOW!! (really) — the_best #1")
	for _, r := range out {
		if r != ' ' && (r < 'a' || r > 'z') {
			t.Fatalf("unexpected rune %q in %q", r, out)
		}
	}
	if strings.Contains(out, "  ") || strings.HasPrefix(out, " ") || strings.HasSuffix(out, " ") {
		t.Errorf("expected single-space separation, got %q", out)
	}
}

func TestNormalizer_StopwordRemoval(t *testing.T) {
	n := NewNormalizer(nil)

	for _, token := range n.Tokens("the staff and the manager were with them") {
		if _, isStop := n.stopwords[token]; isStop {
			t.Errorf("stopword %q should be removed", token)
		}
	}
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := NewNormalizer(nil)
	input := "Waited forever; the waitress was rude and the soup tasted bland."

	first := n.Normalize(input)
	if second := n.Normalize(input); first != second {
		t.Errorf("Normalize is not deterministic: %q vs %q", first, second)
	}
}

func TestNormalizer_CustomStemmer(t *testing.T) {
	n := NewNormalizer(identityStemmer{})

	if got := n.Normalize("Running dogs"); got != "running dogs" {
		t.Errorf("expected unstemmed tokens, got %q", got)
	}
}

type identityStemmer struct{}

func (identityStemmer) Stem(word string) string { return word }
