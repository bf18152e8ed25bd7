package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reviewsense/internal/domain"
	"reviewsense/internal/port"
)

const (
	// ClassifierFile and VectorizerFile are the artifact names inside a model
	// directory.
	ClassifierFile = "model.json"
	VectorizerFile = "vectorizer.json"

	KindTFIDF              = "tfidf"
	KindLogisticRegression = "logistic_regression"
	KindLinearSVC          = "linear_svc"
	KindMultinomialNB      = "multinomial_nb"
)

var (
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrUnknownKind       = errors.New("unknown artifact kind")
	ErrEmptyModel        = errors.New("empty model")
)

// Model is a loaded vectorizer/classifier pair.
type Model struct {
	Vectorizer *TFIDFVectorizer
	Classifier port.Classifier
	Info       domain.ArtifactInfo
}

type vectorizerArtifact struct {
	Kind        string          `json:"kind"`
	Vocabulary  map[string]int  `json:"vocabulary"`
	IDF         []float64       `json:"idf"`
	NgramRange  []int           `json:"ngram_range"`
	SublinearTF bool            `json:"sublinear_tf"`
	Binary      bool            `json:"binary"`
	Norm        json.RawMessage `json:"norm"`
	Lowercase   *bool           `json:"lowercase"`
}

type classifierArtifact struct {
	Kind           string      `json:"kind"`
	Classes        []int       `json:"classes"`
	Coef           [][]float64 `json:"coef"`
	Intercept      []float64   `json:"intercept"`
	MultiClass     string      `json:"multi_class"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// featureCounter is implemented by every classifier in this package.
type featureCounter interface {
	Features() int
}

// DefaultDir returns the model directory next to the running executable.
func DefaultDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "model"
	}
	return filepath.Join(filepath.Dir(exe), "model")
}

// LoadDir reads and parses the two artifacts from dir.
func LoadDir(dir string) (*Model, error) {
	classifierData, err := os.ReadFile(filepath.Join(dir, ClassifierFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier: %w", err)
	}
	vectorizerData, err := os.ReadFile(filepath.Join(dir, VectorizerFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer: %w", err)
	}
	return Parse(classifierData, vectorizerData)
}

// Parse builds a Model from raw artifact payloads and checks that the
// vectorizer output fits the classifier input.
func Parse(classifierData, vectorizerData []byte) (*Model, error) {
	vec, vecKind, err := ParseVectorizer(vectorizerData)
	if err != nil {
		return nil, fmt.Errorf("invalid vectorizer: %w", err)
	}
	clf, clfKind, err := ParseClassifier(classifierData)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier: %w", err)
	}

	features := clf.(featureCounter).Features()
	if features != vec.Dimension() {
		return nil, fmt.Errorf("%w: vectorizer produces %d features, classifier expects %d",
			ErrDimensionMismatch, vec.Dimension(), features)
	}

	_, probabilistic := clf.(port.ProbabilisticClassifier)
	return &Model{
		Vectorizer: vec,
		Classifier: clf,
		Info: domain.ArtifactInfo{
			Fingerprint:    Fingerprint(classifierData, vectorizerData),
			VectorizerKind: vecKind,
			ClassifierKind: clfKind,
			Features:       features,
			Classes:        clf.Classes(),
			Probabilistic:  probabilistic,
		},
	}, nil
}

// Fingerprint identifies an artifact pair.
func Fingerprint(classifierData, vectorizerData []byte) string {
	h := sha256.New()
	h.Write(classifierData)
	h.Write([]byte{0})
	h.Write(vectorizerData)
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// ParseVectorizer decodes a vectorizer artifact.
func ParseVectorizer(data []byte) (*TFIDFVectorizer, string, error) {
	var a vectorizerArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, "", err
	}
	if a.Kind != KindTFIDF {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
	if len(a.Vocabulary) == 0 {
		return nil, "", ErrEmptyModel
	}
	if a.IDF != nil && len(a.IDF) != len(a.Vocabulary) {
		return nil, "", fmt.Errorf("idf has %d values for %d terms", len(a.IDF), len(a.Vocabulary))
	}
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= len(a.Vocabulary) {
			return nil, "", fmt.Errorf("term %q has index %d outside vocabulary", term, idx)
		}
	}

	v := &TFIDFVectorizer{
		vocabulary:  a.Vocabulary,
		idf:         a.IDF,
		ngramMin:    1,
		ngramMax:    1,
		sublinearTF: a.SublinearTF,
		binary:      a.Binary,
		norm:        "l2",
		lowercase:   true,
	}
	if len(a.NgramRange) == 2 {
		v.ngramMin, v.ngramMax = a.NgramRange[0], a.NgramRange[1]
		if v.ngramMin < 1 || v.ngramMax < v.ngramMin {
			return nil, "", fmt.Errorf("invalid ngram_range %v", a.NgramRange)
		}
	}
	if norm, err := parseNorm(a.Norm); err != nil {
		return nil, "", err
	} else if norm != nil {
		v.norm = *norm
	}
	if a.Lowercase != nil {
		v.lowercase = *a.Lowercase
	}
	switch v.norm {
	case "l1", "l2", "":
	default:
		return nil, "", fmt.Errorf("unsupported norm %q", v.norm)
	}

	return v, a.Kind, nil
}

// parseNorm distinguishes an absent norm (nil, keep the default) from an
// explicit null (no normalization).
func parseNorm(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	none := ""
	if string(raw) == "null" {
		return &none, nil
	}
	var norm string
	if err := json.Unmarshal(raw, &norm); err != nil {
		return nil, fmt.Errorf("invalid norm: %w", err)
	}
	return &norm, nil
}

// ParseClassifier decodes a classifier artifact.
func ParseClassifier(data []byte) (port.Classifier, string, error) {
	var a classifierArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, "", err
	}
	if len(a.Classes) < 2 {
		return nil, "", fmt.Errorf("need at least 2 classes, got %d", len(a.Classes))
	}

	switch a.Kind {
	case KindLinearSVC:
		c, err := newLinearClassifier(a.Classes, a.Coef, a.Intercept)
		if err != nil {
			return nil, "", err
		}
		return c, a.Kind, nil
	case KindLogisticRegression:
		c, err := newLinearClassifier(a.Classes, a.Coef, a.Intercept)
		if err != nil {
			return nil, "", err
		}
		return &LogisticClassifier{LinearClassifier: c, multinomial: a.MultiClass != "ovr"}, a.Kind, nil
	case KindMultinomialNB:
		c, err := newNaiveBayesClassifier(a.Classes, a.ClassLogPrior, a.FeatureLogProb)
		if err != nil {
			return nil, "", err
		}
		return c, a.Kind, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
}
