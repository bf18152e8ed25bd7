package usecase

import (
	"errors"
	"testing"
)

func TestScorer_Score(t *testing.T) {
	s := NewScorer(lexiconVectorizer{}, &probaClassifier{})

	r, err := s.Score("great love slow")
	if err != nil {
		t.Fatal(err)
	}
	if r.Label != 1 {
		t.Errorf("expected label 1, got %d", r.Label)
	}
	if r.Confidence == nil {
		t.Fatal("expected confidence")
	}
	// p = (2+1)/(3+2) = 0.6
	if *r.Confidence != 0.6 {
		t.Errorf("expected confidence 0.6, got %f", *r.Confidence)
	}
}

func TestScorer_NoProbabilities(t *testing.T) {
	s := NewScorer(lexiconVectorizer{}, &lexiconClassifier{})

	r, err := s.Score("bad")
	if err != nil {
		t.Fatal(err)
	}
	if r.Label != 0 {
		t.Errorf("expected label 0, got %d", r.Label)
	}
	if r.Confidence != nil {
		t.Errorf("expected nil confidence, got %f", *r.Confidence)
	}
}

func TestScorer_ProbabilityErrorAbsorbed(t *testing.T) {
	s := NewScorer(lexiconVectorizer{}, &probaClassifier{fail: true})

	r, err := s.Score("great")
	if err != nil {
		t.Fatalf("probability failure must not surface, got %v", err)
	}
	if r.Label != 1 || r.Confidence != nil {
		t.Errorf("expected label 1 with nil confidence, got %+v", r)
	}
}

func TestScorer_PredictError(t *testing.T) {
	s := NewScorer(lexiconVectorizer{}, &lexiconClassifier{failFrom: 2})

	if _, err := s.Score("great"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Score("great"); !errors.Is(err, errPredict) {
		t.Errorf("expected errPredict, got %v", err)
	}
}

func TestScorer_PredictErrorKeepsConfidence(t *testing.T) {
	s := NewScorer(lexiconVectorizer{}, &probaClassifier{lexiconClassifier: lexiconClassifier{failFrom: 1}})

	_, err := s.Score("great")
	var labelErr *LabelError
	if !errors.As(err, &labelErr) {
		t.Fatalf("expected *LabelError, got %v", err)
	}
	if !errors.Is(err, errPredict) {
		t.Errorf("expected errPredict in chain, got %v", err)
	}
	// p = (1+1)/(1+0+2)
	if labelErr.Confidence == nil || *labelErr.Confidence != 2.0/3.0 {
		t.Errorf("expected confidence 2/3, got %v", labelErr.Confidence)
	}
}

func TestScorer_PredictPanicBecomesError(t *testing.T) {
	s := NewScorer(lexiconVectorizer{}, &lexiconClassifier{failFrom: 1, panicking: true})

	_, err := s.Score("great")
	var labelErr *LabelError
	if !errors.As(err, &labelErr) {
		t.Fatalf("expected *LabelError, got %v", err)
	}
	if labelErr.Confidence != nil {
		t.Errorf("classifier without probabilities must not report confidence")
	}
}
