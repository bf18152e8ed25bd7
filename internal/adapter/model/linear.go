package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearClassifier predicts with a linear decision function. It exposes no
// probabilities.
type LinearClassifier struct {
	classes   []int
	coef      *mat.Dense
	intercept []float64
}

func newLinearClassifier(classes []int, coef [][]float64, intercept []float64) (*LinearClassifier, error) {
	w, err := denseFromRows(coef)
	if err != nil {
		return nil, fmt.Errorf("coef: %w", err)
	}

	rows, _ := w.Dims()
	if len(intercept) != rows {
		return nil, fmt.Errorf("intercept has %d values, coef has %d rows", len(intercept), rows)
	}
	switch {
	case rows == 1 && len(classes) != 2:
		return nil, fmt.Errorf("binary coef needs 2 classes, got %d", len(classes))
	case rows > 1 && rows != len(classes):
		return nil, fmt.Errorf("coef has %d rows for %d classes", rows, len(classes))
	}

	return &LinearClassifier{classes: classes, coef: w, intercept: intercept}, nil
}

func (c *LinearClassifier) Classes() []int {
	return c.classes
}

// Features returns the number of input features the model expects.
func (c *LinearClassifier) Features() int {
	_, cols := c.coef.Dims()
	return cols
}

// Predict returns the class with the highest decision score.
func (c *LinearClassifier) Predict(vec []float64) (int, error) {
	scores, err := c.decision(vec)
	if err != nil {
		return 0, err
	}
	if len(scores) == 1 {
		if scores[0] > 0 {
			return c.classes[1], nil
		}
		return c.classes[0], nil
	}
	return c.classes[floats.MaxIdx(scores)], nil
}

func (c *LinearClassifier) decision(vec []float64) ([]float64, error) {
	rows, cols := c.coef.Dims()
	if len(vec) != cols {
		return nil, fmt.Errorf("%w: got %d features, model expects %d", ErrDimensionMismatch, len(vec), cols)
	}

	var out mat.VecDense
	out.MulVec(c.coef, mat.NewVecDense(cols, vec))

	scores := make([]float64, rows)
	for i := range scores {
		scores[i] = out.AtVec(i) + c.intercept[i]
	}
	return scores, nil
}

// LogisticClassifier is a LinearClassifier whose scores map to class
// probabilities.
type LogisticClassifier struct {
	*LinearClassifier
	multinomial bool
}

// PredictProba returns class probabilities in Classes order.
func (c *LogisticClassifier) PredictProba(vec []float64) ([]float64, error) {
	scores, err := c.decision(vec)
	if err != nil {
		return nil, err
	}

	if len(scores) == 1 {
		p := sigmoid(scores[0])
		return []float64{1 - p, p}, nil
	}

	if c.multinomial {
		return softmax(scores), nil
	}

	// one-vs-rest: independent sigmoids, renormalized
	for i, s := range scores {
		scores[i] = sigmoid(s)
	}
	if sum := floats.Sum(scores); sum > 0 {
		floats.Scale(1/sum, scores)
	}
	return scores, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax converts log-scale scores to probabilities in place.
func softmax(scores []float64) []float64 {
	lse := floats.LogSumExp(scores)
	for i, s := range scores {
		scores[i] = math.Exp(s - lse)
	}
	return scores
}

func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyModel
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}
