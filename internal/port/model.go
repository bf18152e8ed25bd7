package port

import "reviewsense/internal/domain"

// Vectorizer turns normalized text into a feature vector using a pre-fitted
// vocabulary. Implementations must be safe for concurrent use.
type Vectorizer interface {
	Transform(text string) ([]float64, error)

	// Dimension returns the length of every vector Transform produces.
	Dimension() int
}

// Classifier predicts a discrete sentiment label for a feature vector.
type Classifier interface {
	Predict(vec []float64) (int, error)

	// Classes returns the class labels in model order.
	Classes() []int
}

// ProbabilisticClassifier is a Classifier that also reports per-class
// probabilities, ordered like Classes.
type ProbabilisticClassifier interface {
	Classifier

	PredictProba(vec []float64) ([]float64, error)
}

// SentimentScorer scores one normalized text unit.
type SentimentScorer interface {
	Score(normalized string) (domain.SentimentResult, error)
}
