package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NaiveBayesClassifier is a fitted multinomial naive Bayes model.
type NaiveBayesClassifier struct {
	classes        []int
	classLogPrior  []float64
	featureLogProb *mat.Dense
}

func newNaiveBayesClassifier(classes []int, classLogPrior []float64, featureLogProb [][]float64) (*NaiveBayesClassifier, error) {
	flp, err := denseFromRows(featureLogProb)
	if err != nil {
		return nil, fmt.Errorf("feature_log_prob: %w", err)
	}
	rows, _ := flp.Dims()
	if rows != len(classes) || len(classLogPrior) != len(classes) {
		return nil, fmt.Errorf("naive bayes shapes disagree: %d classes, %d priors, %d feature rows",
			len(classes), len(classLogPrior), rows)
	}
	return &NaiveBayesClassifier{
		classes:        classes,
		classLogPrior:  classLogPrior,
		featureLogProb: flp,
	}, nil
}

func (c *NaiveBayesClassifier) Classes() []int {
	return c.classes
}

func (c *NaiveBayesClassifier) Features() int {
	_, cols := c.featureLogProb.Dims()
	return cols
}

func (c *NaiveBayesClassifier) Predict(vec []float64) (int, error) {
	jll, err := c.jointLogLikelihood(vec)
	if err != nil {
		return 0, err
	}
	return c.classes[floats.MaxIdx(jll)], nil
}

func (c *NaiveBayesClassifier) PredictProba(vec []float64) ([]float64, error) {
	jll, err := c.jointLogLikelihood(vec)
	if err != nil {
		return nil, err
	}
	return softmax(jll), nil
}

func (c *NaiveBayesClassifier) jointLogLikelihood(vec []float64) ([]float64, error) {
	rows, cols := c.featureLogProb.Dims()
	if len(vec) != cols {
		return nil, fmt.Errorf("%w: got %d features, model expects %d", ErrDimensionMismatch, len(vec), cols)
	}

	var out mat.VecDense
	out.MulVec(c.featureLogProb, mat.NewVecDense(cols, vec))

	jll := make([]float64, rows)
	for i := range jll {
		jll[i] = out.AtVec(i) + c.classLogPrior[i]
	}
	return jll, nil
}
