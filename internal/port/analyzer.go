package port

import "reviewsense/internal/domain"

type Stemmer interface {
	Stem(word string) string
}

// Normalizer reduces raw text to the whitespace-joined stem string the
// vectorizer was fitted on.
type Normalizer interface {
	Normalize(raw string) string
}

// AspectMatcher reports which aspects a sentence mentions, in fixed aspect
// order.
type AspectMatcher interface {
	Match(sentence string) []domain.Aspect
}
