package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"reviewsense/internal/domain"
)

func confidence(v float64) *float64 { return &v }

func TestScoreCache_GetPut(t *testing.T) {
	c := NewScoreCache("fp1", 10, time.Minute)

	if _, ok := c.Get("great food"); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := domain.SentimentResult{Label: 1, Confidence: confidence(0.9)}
	c.Put("great food", want)

	got, ok := c.Get("great food")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Label != 1 || got.Confidence == nil || *got.Confidence != 0.9 {
		t.Errorf("got %+v", got)
	}
}

func TestScoreCache_FingerprintScope(t *testing.T) {
	if cacheKey("fp1", "text") == cacheKey("fp2", "text") {
		t.Error("keys for different fingerprints must differ")
	}
}

func TestScoreCache_EvictsOldest(t *testing.T) {
	c := NewScoreCache("fp", 2, time.Minute)

	c.Put("a", domain.SentimentResult{Label: 0})
	c.Put("b", domain.SentimentResult{Label: 1})
	c.Get("a") // a becomes most recent
	c.Put("c", domain.SentimentResult{Label: 1})

	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive")
	}
}

func TestScoreCache_Expires(t *testing.T) {
	c := NewScoreCache("fp", 10, time.Millisecond)
	c.Put("a", domain.SentimentResult{Label: 1})

	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected entry to expire")
	}
	if c.Size() != 0 {
		t.Errorf("expected expired entry to be removed, size %d", c.Size())
	}
}

func TestScoreCache_Invalidate(t *testing.T) {
	c := NewScoreCache("fp", 10, time.Minute)
	c.Put("a", domain.SentimentResult{})
	c.Put("b", domain.SentimentResult{})
	c.Invalidate()

	if c.Size() != 0 {
		t.Errorf("expected empty cache, got %d", c.Size())
	}
}

func TestScoreCache_ConcurrentGetPut(t *testing.T) {
	c := NewScoreCache("fp", 4, time.Minute)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (w+i)%10)
				if i%2 == 0 {
					c.Put(key, domain.SentimentResult{Label: w % 2})
				} else {
					c.Get(key)
				}
			}
		}(w)
	}
	wg.Wait()

	if len(c.entries) > c.maxSize {
		t.Errorf("expected at most %d entries, got %d", c.maxSize, len(c.entries))
	}
	if len(c.order) != len(c.entries) {
		t.Fatalf("order has %d keys for %d entries", len(c.order), len(c.entries))
	}
	for _, key := range c.order {
		if _, ok := c.entries[key]; !ok {
			t.Errorf("order holds evicted key %s", key)
		}
	}
}

type countingScorer struct {
	calls int
	err   error
}

func (s *countingScorer) Score(normalized string) (domain.SentimentResult, error) {
	s.calls++
	if s.err != nil {
		return domain.SentimentResult{}, s.err
	}
	return domain.SentimentResult{Label: len(normalized) % 2}, nil
}

func TestCachedScorer(t *testing.T) {
	inner := &countingScorer{}
	s := NewCachedScorer(inner, NewScoreCache("fp", 10, time.Minute))

	first, err := s.Score("tasti food")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Score("tasti food")
	if err != nil {
		t.Fatal(err)
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if first.Label != second.Label {
		t.Errorf("cached label %d differs from live label %d", second.Label, first.Label)
	}
}

func TestCachedScorer_ErrorsNotCached(t *testing.T) {
	inner := &countingScorer{err: errors.New("boom")}
	cache := NewScoreCache("fp", 10, time.Minute)
	s := NewCachedScorer(inner, cache)

	for i := 0; i < 2; i++ {
		if _, err := s.Score("x"); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.calls)
	}
	if cache.Size() != 0 {
		t.Errorf("expected nothing cached, got %d", cache.Size())
	}
}
