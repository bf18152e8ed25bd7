package model

import (
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// tokenPattern matches runs of two or more word characters, the default
// token pattern of the vectorizers the artifacts are exported from.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// TFIDFVectorizer maps text onto a fitted vocabulary and weights term counts
// by inverse document frequency. It is read-only after loading.
type TFIDFVectorizer struct {
	vocabulary  map[string]int
	idf         []float64 // nil when idf weighting is disabled
	ngramMin    int
	ngramMax    int
	sublinearTF bool
	binary      bool
	norm        string
	lowercase   bool
}

// Dimension returns the vocabulary size.
func (v *TFIDFVectorizer) Dimension() int {
	return len(v.vocabulary)
}

// Transform returns the tf-idf vector of text. Terms outside the vocabulary
// are ignored.
func (v *TFIDFVectorizer) Transform(text string) ([]float64, error) {
	if len(v.vocabulary) == 0 {
		return nil, ErrEmptyModel
	}

	if v.lowercase {
		text = strings.ToLower(text)
	}

	vec := make([]float64, len(v.vocabulary))
	for _, term := range v.terms(tokenPattern.FindAllString(text, -1)) {
		if idx, ok := v.vocabulary[term]; ok {
			vec[idx]++
		}
	}

	for i, tf := range vec {
		if tf == 0 {
			continue
		}
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if v.idf != nil {
			tf *= v.idf[i]
		}
		vec[i] = tf
	}

	switch v.norm {
	case "l2":
		if n := floats.Norm(vec, 2); n > 0 {
			floats.Scale(1/n, vec)
		}
	case "l1":
		if n := floats.Norm(vec, 1); n > 0 {
			floats.Scale(1/n, vec)
		}
	}

	return vec, nil
}

// terms expands tokens into the configured n-gram range.
func (v *TFIDFVectorizer) terms(tokens []string) []string {
	if v.ngramMin == 1 && v.ngramMax == 1 {
		return tokens
	}

	var terms []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
