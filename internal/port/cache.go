package port

import "reviewsense/internal/domain"

// ScoreCache memoizes sentiment results by normalized text. Keys are scoped
// by the model fingerprint supplied at construction.
type ScoreCache interface {
	Get(text string) (domain.SentimentResult, bool)

	Put(text string, result domain.SentimentResult)
}
