package usecase

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// LabeledReview is a review with its expected overall label.
type LabeledReview struct {
	Text  string
	Label int
}

// ReadLabeledReviews parses "label<TAB>text" lines. Blank lines and lines
// starting with # are skipped.
func ReadLabeledReviews(r io.Reader) ([]LabeledReview, error) {
	var samples []LabeledReview

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		labelField, text, ok := strings.Cut(raw, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected label and text separated by a tab", line)
		}
		label, err := strconv.Atoi(strings.TrimSpace(labelField))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid label %q", line, labelField)
		}
		samples = append(samples, LabeledReview{Text: strings.TrimSpace(text), Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// ClassMetrics holds per-class retrieval-style metrics.
type ClassMetrics struct {
	Label     int     `json:"label"`
	Support   int     `json:"support"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// EvalReport summarizes how well the model reproduces known labels.
type EvalReport struct {
	Samples     int            `json:"samples"`
	Failed      int            `json:"failed"`
	Accuracy    float64        `json:"accuracy"`
	Classes     []ClassMetrics `json:"classes"`
	MeanLatency time.Duration  `json:"mean_latency_ns"`
}

// Evaluate analyzes every sample and compares the overall label with the
// expected one. Samples that fail to analyze count as wrong.
func (u *AnalyzeUseCase) Evaluate(samples []LabeledReview) (*EvalReport, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to evaluate")
	}

	report := &EvalReport{Samples: len(samples)}
	truePos := make(map[int]int)
	predicted := make(map[int]int)
	support := make(map[int]int)
	correct := 0

	var total time.Duration
	for _, s := range samples {
		support[s.Label]++

		start := time.Now()
		result, err := u.Analyze(s.Text)
		total += time.Since(start)

		if err != nil {
			report.Failed++
			continue
		}

		predicted[result.Overall.Label]++
		if result.Overall.Label == s.Label {
			correct++
			truePos[s.Label]++
		}
	}

	report.Accuracy = float64(correct) / float64(len(samples))
	report.MeanLatency = total / time.Duration(len(samples))

	labels := make([]int, 0, len(support))
	seen := make(map[int]bool)
	for _, m := range []map[int]int{support, predicted} {
		for l := range m {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	sort.Ints(labels)

	for _, l := range labels {
		cm := ClassMetrics{
			Label:     l,
			Support:   support[l],
			Precision: ratio(truePos[l], predicted[l]),
			Recall:    ratio(truePos[l], support[l]),
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		report.Classes = append(report.Classes, cm)
	}

	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
