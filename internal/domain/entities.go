package domain

// Aspect is one of the fixed topical categories a review sentence can be
// attributed to.
type Aspect string

const (
	Food     Aspect = "food"
	Service  Aspect = "service"
	Speed    Aspect = "speed"
	Hygiene  Aspect = "hygiene"
	Ambience Aspect = "ambience"
	Price    Aspect = "price"
)

// Aspects lists every aspect in matching order.
var Aspects = []Aspect{Food, Service, Speed, Hygiene, Ambience, Price}

// DefaultKeywords holds the curated keyword list for each aspect.
var DefaultKeywords = map[Aspect][]string{
	Food:     {"food", "taste", "flavor", "dish", "meal", "menu", "tasteful", "tasty"},
	Service:  {"service", "staff", "waiter", "waitress", "server", "host", "manager"},
	Speed:    {"quick", "slow", "speed", "time", "wait", "waited"},
	Hygiene:  {"hygiene", "clean", "dirty", "sanitary", "unclean", "hygienic", "cleanliness"},
	Ambience: {"ambience", "ambiance", "atmosphere", "music", "decor", "lighting"},
	Price:    {"price", "cost", "expensive", "cheap", "value", "worth"},
}

// ParseAspect returns the aspect named s.
func ParseAspect(s string) (Aspect, bool) {
	for _, a := range Aspects {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// SentimentResult is the outcome of scoring one unit of text.
// Confidence is nil when the classifier cannot report probabilities.
type SentimentResult struct {
	Label      int
	Confidence *float64
}

type SentenceResult struct {
	Sentence string
	Result   SentimentResult
}

// AnalysisResult holds the document-level score and the per-aspect sentence
// scores. Aspects with no matching sentence are absent from the map.
type AnalysisResult struct {
	Overall SentimentResult
	Aspects map[Aspect][]SentenceResult
}

// ArtifactInfo describes a loaded or bundled model.
type ArtifactInfo struct {
	Fingerprint    string `json:"fingerprint"`
	VectorizerKind string `json:"vectorizer_kind"`
	ClassifierKind string `json:"classifier_kind"`
	Features       int    `json:"features"`
	Classes        []int  `json:"classes"`
	Probabilistic  bool   `json:"probabilistic"`
}
