package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"reviewsense/internal/adapter/analyzer"
	"reviewsense/internal/domain"
	"reviewsense/internal/port"
)

// AnalyzeUseCase scores a review as a whole and per aspect-bearing sentence.
type AnalyzeUseCase struct {
	normalizer port.Normalizer
	matcher    port.AspectMatcher
	scorer     port.SentimentScorer
}

// NewAnalyzeUseCase creates a new analyze use case.
func NewAnalyzeUseCase(
	normalizer port.Normalizer,
	matcher port.AspectMatcher,
	scorer port.SentimentScorer,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		normalizer: normalizer,
		matcher:    matcher,
		scorer:     scorer,
	}
}

// Analyze scores text. Only a failure to score the whole text is returned;
// a sentence that cannot be scored takes the document label.
func (u *AnalyzeUseCase) Analyze(text string) (domain.AnalysisResult, error) {
	overall, err := u.scorer.Score(u.normalizer.Normalize(text))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("failed to score text: %w", err)
	}

	result := domain.AnalysisResult{
		Overall: overall,
		Aspects: make(map[domain.Aspect][]domain.SentenceResult),
	}

	for _, sentence := range analyzer.SplitSentences(text) {
		aspects := u.matcher.Match(sentence)
		if len(aspects) == 0 {
			continue
		}

		// scored once, listed under every aspect it mentions
		scored := domain.SentenceResult{
			Sentence: sentence,
			Result:   u.scoreSentence(sentence, overall),
		}
		for _, a := range aspects {
			result.Aspects[a] = append(result.Aspects[a], scored)
		}
	}

	return result, nil
}

func (u *AnalyzeUseCase) scoreSentence(sentence string, overall domain.SentimentResult) (result domain.SentimentResult) {
	fallback := domain.SentimentResult{Label: overall.Label}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("[Analyze] Sentence scoring panicked, using document label",
				slog.Any("panic", r))
			result = fallback
		}
	}()

	r, err := u.scorer.Score(u.normalizer.Normalize(sentence))
	if err != nil {
		slog.Debug("[Analyze] Sentence scoring failed, using document label",
			slog.String("error", err.Error()))
		// the label failed but the probabilities may not have
		var labelErr *LabelError
		if errors.As(err, &labelErr) {
			fallback.Confidence = labelErr.Confidence
		}
		return fallback
	}
	return r
}

// Prediction is the wire form of an AnalysisResult.
type Prediction struct {
	Prediction  int                           `json:"prediction"`
	Probability *float64                      `json:"probability"`
	Aspects     map[string][]AspectPrediction `json:"aspects"`
}

type AspectPrediction struct {
	Sentence    string   `json:"sentence"`
	Pred        int      `json:"pred"`
	Probability *float64 `json:"probability"`
}

// NewPrediction converts an analysis result for JSON output.
func NewPrediction(r domain.AnalysisResult) Prediction {
	p := Prediction{
		Prediction:  r.Overall.Label,
		Probability: r.Overall.Confidence,
		Aspects:     make(map[string][]AspectPrediction, len(r.Aspects)),
	}
	for a, sentences := range r.Aspects {
		items := make([]AspectPrediction, len(sentences))
		for i, s := range sentences {
			items[i] = AspectPrediction{
				Sentence:    s.Sentence,
				Pred:        s.Result.Label,
				Probability: s.Result.Confidence,
			}
		}
		p.Aspects[string(a)] = items
	}
	return p
}
