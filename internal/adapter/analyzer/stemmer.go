package analyzer

import (
	"fmt"
	"strings"

	"reviewsense/internal/port"
)

// PorterStemmer implements the Porter stemming algorithm with the NLTK
// extensions: a table of irregular forms, a guard for words of two letters or
// fewer, special handling of four-letter "-ies"/"-ied" words and the extra
// step 2 rules.
type PorterStemmer struct{}

// NewPorterStemmer creates a new Porter stemmer.
func NewPorterStemmer() *PorterStemmer {
	return &PorterStemmer{}
}

// NewStemmer returns the stemmer registered under name.
func NewStemmer(name string) (port.Stemmer, error) {
	switch name {
	case "", "porter":
		return NewPorterStemmer(), nil
	case "snowball":
		return NewSnowballStemmer(), nil
	default:
		return nil, fmt.Errorf("unknown stemmer: %s", name)
	}
}

var irregularForms = map[string]string{
	"skies":    "sky",
	"sky":      "sky",
	"dying":    "die",
	"lying":    "lie",
	"tying":    "tie",
	"news":     "news",
	"innings":  "inning",
	"inning":   "inning",
	"outings":  "outing",
	"outing":   "outing",
	"cannings": "canning",
	"canning":  "canning",
	"howe":     "howe",
	"proceed":  "proceed",
	"exceed":   "exceed",
	"succeed":  "succeed",
}

// Stem returns the stem of a word using the Porter algorithm.
func (p *PorterStemmer) Stem(word string) string {
	word = strings.ToLower(word)
	if stem, ok := irregularForms[word]; ok {
		return stem
	}
	if len(word) <= 2 {
		return word
	}

	word = step1a(word)
	word = step1b(word)
	word = step1c(word)
	word = step2(word)
	word = step3(word)
	word = step4(word)
	word = step5a(word)
	word = step5b(word)

	return word
}

// rule rewrites suffix to replacement when cond holds for the remaining stem.
type rule struct {
	suffix      string
	replacement string
	cond        func(stem string) bool
}

// applyRules applies the first rule whose suffix matches. Once a suffix
// matches, no later rule is tried even if the condition fails.
func applyRules(word string, rules []rule) string {
	for _, r := range rules {
		if !strings.HasSuffix(word, r.suffix) {
			continue
		}
		stem := word[:len(word)-len(r.suffix)]
		if r.cond == nil || r.cond(stem) {
			return stem + r.replacement
		}
		return word
	}
	return word
}

func positiveMeasure(stem string) bool {
	return measure(stem) > 0
}

func measureAboveOne(stem string) bool {
	return measure(stem) > 1
}

func isConsonant(word string, i int) bool {
	switch word[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isConsonant(word, i-1)
	}
	return true
}

// measure counts the VC sequences in word.
func measure(word string) int {
	n := len(word)
	m := 0
	i := 0

	for i < n && isConsonant(word, i) {
		i++
	}

	for i < n {
		for i < n && !isConsonant(word, i) {
			i++
		}
		if i >= n {
			break
		}
		m++
		for i < n && isConsonant(word, i) {
			i++
		}
	}

	return m
}

func hasVowel(word string) bool {
	for i := 0; i < len(word); i++ {
		if !isConsonant(word, i) {
			return true
		}
	}
	return false
}

func endsDoubleConsonant(word string) bool {
	n := len(word)
	if n < 2 {
		return false
	}
	return word[n-1] == word[n-2] && isConsonant(word, n-1)
}

// endsCVC reports the *o condition. Two-letter vowel-consonant words count.
func endsCVC(word string) bool {
	n := len(word)
	if n >= 3 && isConsonant(word, n-3) && !isConsonant(word, n-2) && isConsonant(word, n-1) {
		c := word[n-1]
		return c != 'w' && c != 'x' && c != 'y'
	}
	return n == 2 && !isConsonant(word, 0) && isConsonant(word, 1)
}

var step1aRules = []rule{
	{"sses", "ss", nil},
	{"ies", "i", nil},
	{"ss", "ss", nil},
	{"s", "", nil},
}

func step1a(word string) string {
	if len(word) == 4 && strings.HasSuffix(word, "ies") {
		return word[:1] + "ie"
	}
	return applyRules(word, step1aRules)
}

func step1b(word string) string {
	if strings.HasSuffix(word, "ied") {
		if len(word) == 4 {
			return word[:1] + "ie"
		}
		return word[:len(word)-3] + "i"
	}

	if strings.HasSuffix(word, "eed") {
		stem := word[:len(word)-3]
		if measure(stem) > 0 {
			return stem + "ee"
		}
		return word
	}

	var stem string
	switch {
	case strings.HasSuffix(word, "ed"):
		stem = word[:len(word)-2]
	case strings.HasSuffix(word, "ing"):
		stem = word[:len(word)-3]
	default:
		return word
	}
	if !hasVowel(stem) {
		return word
	}

	switch {
	case strings.HasSuffix(stem, "at"), strings.HasSuffix(stem, "bl"), strings.HasSuffix(stem, "iz"):
		return stem + "e"
	case endsDoubleConsonant(stem):
		if c := stem[len(stem)-1]; c != 'l' && c != 's' && c != 'z' {
			return stem[:len(stem)-1]
		}
		return stem
	case measure(stem) == 1 && endsCVC(stem):
		return stem + "e"
	}
	return stem
}

func step1c(word string) string {
	if !strings.HasSuffix(word, "y") {
		return word
	}
	stem := word[:len(word)-1]
	if len(stem) > 1 && isConsonant(stem, len(stem)-1) {
		return stem + "i"
	}
	return word
}

var step2Rules = []rule{
	{"ational", "ate", positiveMeasure},
	{"tional", "tion", positiveMeasure},
	{"enci", "ence", positiveMeasure},
	{"anci", "ance", positiveMeasure},
	{"izer", "ize", positiveMeasure},
	{"bli", "ble", positiveMeasure},
	{"alli", "al", positiveMeasure},
	{"entli", "ent", positiveMeasure},
	{"eli", "e", positiveMeasure},
	{"ousli", "ous", positiveMeasure},
	{"ization", "ize", positiveMeasure},
	{"ation", "ate", positiveMeasure},
	{"ator", "ate", positiveMeasure},
	{"alism", "al", positiveMeasure},
	{"iveness", "ive", positiveMeasure},
	{"fulness", "ful", positiveMeasure},
	{"ousness", "ous", positiveMeasure},
	{"aliti", "al", positiveMeasure},
	{"iviti", "ive", positiveMeasure},
	{"biliti", "ble", positiveMeasure},
	{"fulli", "ful", positiveMeasure},
	{"lessli", "less", positiveMeasure},
	// measured on the stem with the "l" kept
	{"logi", "log", func(stem string) bool { return positiveMeasure(stem + "l") }},
}

func step2(word string) string {
	// "-alli" is reduced first and the result goes through step 2 again.
	if strings.HasSuffix(word, "alli") {
		if stem := word[:len(word)-4]; positiveMeasure(stem) {
			return step2(stem + "al")
		}
	}
	return applyRules(word, step2Rules)
}

var step3Rules = []rule{
	{"icate", "ic", positiveMeasure},
	{"ative", "", positiveMeasure},
	{"alize", "al", positiveMeasure},
	{"iciti", "ic", positiveMeasure},
	{"ical", "ic", positiveMeasure},
	{"ful", "", positiveMeasure},
	{"ness", "", positiveMeasure},
}

func step3(word string) string {
	return applyRules(word, step3Rules)
}

var step4Rules = []rule{
	{"al", "", measureAboveOne},
	{"ance", "", measureAboveOne},
	{"ence", "", measureAboveOne},
	{"er", "", measureAboveOne},
	{"ic", "", measureAboveOne},
	{"able", "", measureAboveOne},
	{"ible", "", measureAboveOne},
	{"ant", "", measureAboveOne},
	{"ement", "", measureAboveOne},
	{"ment", "", measureAboveOne},
	{"ent", "", measureAboveOne},
	{"ion", "", func(stem string) bool {
		n := len(stem)
		return measure(stem) > 1 && n > 0 && (stem[n-1] == 's' || stem[n-1] == 't')
	}},
	{"ou", "", measureAboveOne},
	{"ism", "", measureAboveOne},
	{"ate", "", measureAboveOne},
	{"iti", "", measureAboveOne},
	{"ous", "", measureAboveOne},
	{"ive", "", measureAboveOne},
	{"ize", "", measureAboveOne},
}

func step4(word string) string {
	return applyRules(word, step4Rules)
}

func step5a(word string) string {
	if strings.HasSuffix(word, "e") {
		stem := word[:len(word)-1]
		m := measure(stem)
		if m > 1 {
			return stem
		}
		if m == 1 && !endsCVC(stem) {
			return stem
		}
	}
	return word
}

func step5b(word string) string {
	if strings.HasSuffix(word, "ll") && measure(word[:len(word)-1]) > 1 {
		return word[:len(word)-1]
	}
	return word
}
