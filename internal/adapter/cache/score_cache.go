package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"reviewsense/internal/domain"
	"reviewsense/internal/port"
)

// ScoreCache is an in-process LRU of sentiment results with a TTL. Entries
// are scoped to one model fingerprint.
type ScoreCache struct {
	mu          sync.RWMutex
	entries     map[string]*cacheEntry
	order       []string
	maxSize     int
	ttl         time.Duration
	fingerprint string
}

type cacheEntry struct {
	result    domain.SentimentResult
	timestamp time.Time
}

func NewScoreCache(fingerprint string, maxSize int, ttl time.Duration) *ScoreCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ScoreCache{
		entries:     make(map[string]*cacheEntry),
		order:       make([]string, 0, maxSize),
		maxSize:     maxSize,
		ttl:         ttl,
		fingerprint: fingerprint,
	}
}

// cacheKey hashes the fingerprint and text so keys have a fixed size.
func cacheKey(fingerprint, text string) string {
	hash := sha256.Sum256([]byte(fingerprint + "\x00" + text))
	return hex.EncodeToString(hash[:16])
}

func (c *ScoreCache) Get(text string) (domain.SentimentResult, bool) {
	key := cacheKey(c.fingerprint, text)

	// reordering mutates, so lookup and reorder share one write lock
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return domain.SentimentResult{}, false
	}

	if time.Since(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return domain.SentimentResult{}, false
	}

	c.moveToEnd(key)
	return entry.result, true
}

func (c *ScoreCache) Put(text string, result domain.SentimentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(c.fingerprint, text)
	entry := &cacheEntry{result: result, timestamp: time.Now()}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Invalidate drops every entry.
func (c *ScoreCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *ScoreCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ScoreCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ScoreCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ScoreCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedScorer consults a cache before scoring. Only successful scores are
// stored.
type CachedScorer struct {
	scorer port.SentimentScorer
	cache  port.ScoreCache
}

func NewCachedScorer(scorer port.SentimentScorer, cache port.ScoreCache) *CachedScorer {
	return &CachedScorer{
		scorer: scorer,
		cache:  cache,
	}
}

func (s *CachedScorer) Score(normalized string) (domain.SentimentResult, error) {
	if result, hit := s.cache.Get(normalized); hit {
		return result, nil
	}

	result, err := s.scorer.Score(normalized)
	if err != nil {
		return result, err
	}

	s.cache.Put(normalized, result)
	return result, nil
}
