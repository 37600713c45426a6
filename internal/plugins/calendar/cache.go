package calendar

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
)

// ParseCache stores successful parses keyed by calendar definition and
// normalized input text. Because the key includes a fingerprint of the
// definition, editing a calendar never serves stale results.
type ParseCache interface {
	Get(ctx context.Context, fingerprint, text string) (*dateparse.ParsedDate, bool, error)
	Set(ctx context.Context, fingerprint, text string, d *dateparse.ParsedDate) error
}

// cacheKeyPrefix namespaces parse cache entries in a shared Redis.
const cacheKeyPrefix = "dateparse:"

// Fingerprint identifies a calendar definition for cache keys: the first 16
// bytes of the BLAKE2b-256 digest of its JSON encoding, hex encoded.
func Fingerprint(def dateparse.CalendarConfig) (string, error) {
	b, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("encoding calendar definition: %w", err)
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:16]), nil
}

// cacheKey builds the Redis key for text under a calendar fingerprint.
// Parsing ignores case and surrounding whitespace, so the key does too.
func cacheKey(fingerprint, text string) string {
	sum := blake2b.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return cacheKeyPrefix + fingerprint + ":" + hex.EncodeToString(sum[:])
}

// redisParseCache is the Redis-backed ParseCache.
type redisParseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisParseCache creates a ParseCache storing entries in Redis for ttl.
func NewRedisParseCache(client *redis.Client, ttl time.Duration) ParseCache {
	return &redisParseCache{client: client, ttl: ttl}
}

// Get returns the cached parse of text, if any.
func (c *redisParseCache) Get(ctx context.Context, fingerprint, text string) (*dateparse.ParsedDate, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(fingerprint, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading parse cache: %w", err)
	}

	var d dateparse.ParsedDate
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("decoding cached parse: %w", err)
	}
	return &d, true, nil
}

// Set stores a successful parse.
func (c *redisParseCache) Set(ctx context.Context, fingerprint, text string, d *dateparse.ParsedDate) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding parse for cache: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(fingerprint, text), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing parse cache: %w", err)
	}
	return nil
}

// noopParseCache is used when Redis is not configured.
type noopParseCache struct{}

// NewNoopParseCache returns a ParseCache that never stores anything.
func NewNoopParseCache() ParseCache { return noopParseCache{} }

func (noopParseCache) Get(context.Context, string, string) (*dateparse.ParsedDate, bool, error) {
	return nil, false, nil
}

func (noopParseCache) Set(context.Context, string, string, *dateparse.ParsedDate) error {
	return nil
}
