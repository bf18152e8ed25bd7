package usecase

import (
	"errors"
	"strings"
	"sync"

	"reviewsense/internal/adapter/analyzer"
	"reviewsense/internal/adapter/aspect"
	"reviewsense/internal/port"
)

var (
	positiveStems = map[string]bool{"great": true, "love": true, "fair": true, "tasti": true}
	negativeStems = map[string]bool{"slow": true, "bad": true, "loud": true, "dirti": true}

	errPredict = errors.New("predict failed")
	errProba   = errors.New("proba failed")
)

// lexiconVectorizer counts positive and negative stems.
type lexiconVectorizer struct{}

func (lexiconVectorizer) Dimension() int { return 2 }

func (lexiconVectorizer) Transform(text string) ([]float64, error) {
	vec := make([]float64, 2)
	for _, tok := range strings.Fields(text) {
		switch {
		case positiveStems[tok]:
			vec[0]++
		case negativeStems[tok]:
			vec[1]++
		}
	}
	return vec, nil
}

// lexiconClassifier labels 1 when positive counts are not below negative
// counts. With failFrom > 0, Predict call number failFrom and every later
// call fail (or panic).
type lexiconClassifier struct {
	mu        sync.Mutex
	calls     int
	failFrom  int
	panicking bool
}

func (c *lexiconClassifier) Classes() []int { return []int{0, 1} }

func (c *lexiconClassifier) Predict(vec []float64) (int, error) {
	c.mu.Lock()
	c.calls++
	calls := c.calls
	c.mu.Unlock()

	if c.failFrom > 0 && calls >= c.failFrom {
		if c.panicking {
			panic("corrupt weights")
		}
		return 0, errPredict
	}
	if vec[0] >= vec[1] {
		return 1, nil
	}
	return 0, nil
}

// probaClassifier adds probabilities to lexiconClassifier.
type probaClassifier struct {
	lexiconClassifier
	fail bool
}

func (c *probaClassifier) PredictProba(vec []float64) ([]float64, error) {
	if c.fail {
		return nil, errProba
	}
	p := (vec[0] + 1) / (vec[0] + vec[1] + 2)
	return []float64{1 - p, p}, nil
}

func newTestAnalyzer(clf port.Classifier) *AnalyzeUseCase {
	return NewAnalyzeUseCase(
		analyzer.NewNormalizer(nil),
		aspect.NewMatcher(),
		NewScorer(lexiconVectorizer{}, clf),
	)
}
