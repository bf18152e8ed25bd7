package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"reviewsense/internal/domain"
)

const valkeyKeyPrefix = "reviewsense:score:"

// ValkeyOptions configures the shared score cache.
type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
	Timeout  time.Duration
}

// ValkeyScoreCache shares sentiment results between server replicas. Any
// Valkey failure is logged and treated as a miss.
type ValkeyScoreCache struct {
	client      valkey.Client
	fingerprint string
	ttl         time.Duration
	timeout     time.Duration
}

type storedResult struct {
	Label      int      `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// NewValkeyScoreCache connects and pings the server.
func NewValkeyScoreCache(fingerprint string, opts ValkeyOptions) (*ValkeyScoreCache, error) {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.TTL < time.Second {
		opts.TTL = time.Second // EX takes whole seconds
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 500 * time.Millisecond
	}

	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	slog.Info("[ValkeyScoreCache] Connected", slog.String("address", opts.Address))

	return &ValkeyScoreCache{
		client:      client,
		fingerprint: fingerprint,
		ttl:         opts.TTL,
		timeout:     opts.Timeout,
	}, nil
}

func (c *ValkeyScoreCache) key(text string) string {
	return valkeyKeyPrefix + cacheKey(c.fingerprint, text)
}

func (c *ValkeyScoreCache) Get(text string) (domain.SentimentResult, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(text)).Build()).AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyScoreCache] Get failed", slog.String("error", err.Error()))
		}
		return domain.SentimentResult{}, false
	}

	var stored storedResult
	if err := json.Unmarshal(data, &stored); err != nil {
		slog.Warn("[ValkeyScoreCache] Corrupt entry", slog.String("error", err.Error()))
		return domain.SentimentResult{}, false
	}
	return domain.SentimentResult{Label: stored.Label, Confidence: stored.Confidence}, true
}

func (c *ValkeyScoreCache) Put(text string, result domain.SentimentResult) {
	data, err := json.Marshal(storedResult{Label: result.Label, Confidence: result.Confidence})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmd := c.client.B().Set().Key(c.key(text)).Value(string(data)).ExSeconds(int64(c.ttl.Seconds())).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		slog.Warn("[ValkeyScoreCache] Set failed", slog.String("error", err.Error()))
	}
}

func (c *ValkeyScoreCache) Close() {
	c.client.Close()
}
