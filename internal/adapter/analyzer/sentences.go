package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text at whitespace that follows '.', '!' or '?', and
// at runs of newlines. Fragments are trimmed and empty ones dropped.
func SplitSentences(text string) []string {
	text = strings.TrimFunc(text, isSpace)

	var sentences []string
	start := 0
	prev := rune(0)

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		end := -1
		switch {
		case isTerminal(prev) && isSpace(r):
			end = skipWhile(text, i, isSpace)
		case r == '\n':
			end = skipWhile(text, i, func(r rune) bool { return r == '\n' })
		}

		if end < 0 {
			prev = r
			i += size
			continue
		}

		sentences = appendFragment(sentences, text[start:i])
		start, i = end, end
		prev = 0
	}

	return appendFragment(sentences, text[start:])
}

// isSpace extends unicode.IsSpace with the file, group, record and unit
// separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// skipWhile returns the byte offset of the first rune at or after i that
// does not satisfy keep.
func skipWhile(text string, i int, keep func(rune) bool) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !keep(r) {
			break
		}
		i += size
	}
	return i
}

func appendFragment(sentences []string, fragment string) []string {
	if fragment = strings.TrimFunc(fragment, isSpace); fragment != "" {
		sentences = append(sentences, fragment)
	}
	return sentences
}
