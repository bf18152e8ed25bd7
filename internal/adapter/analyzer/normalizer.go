package analyzer

import (
	"strings"
	"unicode"

	"reviewsense/internal/port"
)

// Normalizer lowercases, strips non-letters, drops stopwords and one-letter
// tokens, and stems what is left.
type Normalizer struct {
	stemmer   port.Stemmer
	stopwords map[string]struct{}
}

// NewNormalizer creates a Normalizer. A nil stemmer defaults to Porter.
func NewNormalizer(stemmer port.Stemmer) *Normalizer {
	if stemmer == nil {
		stemmer = NewPorterStemmer()
	}
	return &Normalizer{
		stemmer:   stemmer,
		stopwords: defaultStopwords(),
	}
}

// Normalize returns the space-joined stems of text, or "" when no token
// survives filtering.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the stems Normalize would join.
func (n *Normalizer) Tokens(text string) []string {
	words := strings.Fields(strings.ToLower(lettersOnly(text)))
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if _, isStop := n.stopwords[word]; isStop {
			continue
		}
		if len(word) <= 1 {
			continue
		}
		tokens = append(tokens, n.stemmer.Stem(word))
	}

	return tokens
}

// lettersOnly replaces every rune that is neither an ASCII letter nor
// whitespace with a space.
func lettersOnly(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)
}

// defaultStopwords returns the closed set of English function words the
// sentiment model was fitted without.
func defaultStopwords() map[string]struct{} {
	stops := []string{
		"the", "a", "an", "and", "or", "but", "if", "while", "is", "are",
		"was", "were", "be", "been", "to", "of", "in", "on", "for", "with",
		"as", "at", "by", "from", "this", "that", "it", "i", "you", "he",
		"she", "they", "we", "my", "your", "our", "their", "me", "him", "her",
		"them", "so",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
