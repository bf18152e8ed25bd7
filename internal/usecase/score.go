package usecase

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"reviewsense/internal/domain"
	"reviewsense/internal/port"
)

// Scorer turns normalized text into a sentiment label and, when the
// classifier supports it, a confidence.
type Scorer struct {
	vectorizer port.Vectorizer
	classifier port.Classifier
}

// NewScorer creates a new scorer over a fitted vectorizer and classifier.
func NewScorer(vectorizer port.Vectorizer, classifier port.Classifier) *Scorer {
	return &Scorer{
		vectorizer: vectorizer,
		classifier: classifier,
	}
}

// LabelError reports a failed label prediction on a vector that was
// produced. Confidence is computed independently and may still be set.
type LabelError struct {
	Err        error
	Confidence *float64
}

func (e *LabelError) Error() string {
	return "failed to predict: " + e.Err.Error()
}

func (e *LabelError) Unwrap() error {
	return e.Err
}

// Score returns the label for normalized text. Confidence is nil when the
// classifier has no probabilities or computing them fails; that failure is
// never returned. A failed Predict is returned as a *LabelError.
func (s *Scorer) Score(normalized string) (domain.SentimentResult, error) {
	vec, err := s.vectorizer.Transform(normalized)
	if err != nil {
		return domain.SentimentResult{}, fmt.Errorf("failed to vectorize: %w", err)
	}

	conf := s.confidence(vec)

	label, err := s.predict(vec)
	if err != nil {
		return domain.SentimentResult{}, &LabelError{Err: err, Confidence: conf}
	}

	return domain.SentimentResult{
		Label:      label,
		Confidence: conf,
	}, nil
}

// predict turns a classifier panic into an error.
func (s *Scorer) predict(vec []float64) (label int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panicked: %v", r)
		}
	}()
	return s.classifier.Predict(vec)
}

func (s *Scorer) confidence(vec []float64) (conf *float64) {
	pc, ok := s.classifier.(port.ProbabilisticClassifier)
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Debug("[Scorer] Probability call panicked", slog.Any("panic", r))
			conf = nil
		}
	}()

	proba, err := pc.PredictProba(vec)
	if err != nil {
		slog.Debug("[Scorer] Probability unavailable", slog.String("error", err.Error()))
		return nil
	}
	if len(proba) == 0 {
		return nil
	}

	best := floats.Max(proba)
	return &best
}
