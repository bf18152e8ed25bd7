package aspect

import (
	"fmt"
	"regexp"
	"strings"

	"reviewsense/internal/domain"
)

// Matcher holds one compiled whole-word, case-insensitive pattern per aspect.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	aspects  []domain.Aspect
	patterns map[domain.Aspect]*regexp.Regexp
}

// NewMatcher compiles the default keyword lists.
func NewMatcher() *Matcher {
	m, err := NewMatcherWithKeywords(nil)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMatcherWithKeywords compiles the default keyword lists with overrides
// applied. Overrides are keyed by aspect name and replace that aspect's list.
func NewMatcherWithKeywords(overrides map[string][]string) (*Matcher, error) {
	keywords := make(map[domain.Aspect][]string, len(domain.Aspects))
	for _, a := range domain.Aspects {
		keywords[a] = domain.DefaultKeywords[a]
	}
	for name, kws := range overrides {
		a, ok := domain.ParseAspect(name)
		if !ok {
			return nil, fmt.Errorf("unknown aspect: %s", name)
		}
		keywords[a] = kws
	}

	m := &Matcher{
		aspects:  domain.Aspects,
		patterns: make(map[domain.Aspect]*regexp.Regexp, len(keywords)),
	}
	for _, a := range m.aspects {
		if len(keywords[a]) == 0 {
			continue
		}
		re, err := compileKeywords(keywords[a])
		if err != nil {
			return nil, fmt.Errorf("failed to compile keywords for %s: %w", a, err)
		}
		m.patterns[a] = re
	}
	return m, nil
}

func compileKeywords(keywords []string) (*regexp.Regexp, error) {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// Matches reports whether sentence mentions any keyword of aspect as a
// separate word.
func (m *Matcher) Matches(aspect domain.Aspect, sentence string) bool {
	re, ok := m.patterns[aspect]
	if !ok {
		return false
	}
	return re.MatchString(sentence)
}

// Match returns every aspect sentence mentions, in fixed aspect order.
func (m *Matcher) Match(sentence string) []domain.Aspect {
	var matched []domain.Aspect
	for _, a := range m.aspects {
		if m.Matches(a, sentence) {
			matched = append(matched, a)
		}
	}
	return matched
}
