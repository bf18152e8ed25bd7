package analyzer

import "github.com/kljensen/snowball"

// SnowballStemmer stems with the English Snowball (Porter2) algorithm.
type SnowballStemmer struct{}

func NewSnowballStemmer() *SnowballStemmer {
	return &SnowballStemmer{}
}

func (s *SnowballStemmer) Stem(word string) string {
	stem, err := snowball.Stem(word, "english", true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}
