package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (ParseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisParseCache(client, ttl), mr
}

func TestRedisParseCache_RoundTrip(t *testing.T) {
	cache, mr := newTestRedisCache(t, time.Hour)
	ctx := context.Background()

	fp, err := Fingerprint(standardDefinition())
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	p, err := dateparse.New(standardDefinition())
	if err != nil {
		t.Fatalf("building parser: %v", err)
	}
	d, err := p.Parse("From 1st to 5th Harvest Moon 3019")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}

	if _, ok, err := cache.Get(ctx, fp, "From 1st to 5th Harvest Moon 3019"); err != nil || ok {
		t.Fatalf("expected a miss on an empty cache, got ok=%v err=%v", ok, err)
	}
	if err := cache.Set(ctx, fp, "From 1st to 5th Harvest Moon 3019", d); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Keys ignore case and surrounding whitespace, like the parser.
	got, ok, err := cache.Get(ctx, fp, "  from 1ST to 5th harvest moon 3019 ")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if got.String() != d.String() {
		t.Errorf("cached %s, want %s", got, d)
	}

	keys := mr.Keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], cacheKeyPrefix+fp+":") {
		t.Errorf("unexpected keys %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl != time.Hour {
		t.Errorf("expected TTL 1h, got %s", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, _ := cache.Get(ctx, fp, "From 1st to 5th Harvest Moon 3019"); ok {
		t.Error("expected the entry to expire")
	}
}

func TestRedisParseCache_Errors(t *testing.T) {
	cache, mr := newTestRedisCache(t, time.Hour)
	ctx := context.Background()

	mr.Set(cacheKey("fp", "Year 3019"), "not json")
	if _, _, err := cache.Get(ctx, "fp", "Year 3019"); err == nil {
		t.Error("expected a decoding error for a corrupt entry")
	}

	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { down.Close() })
	if _, _, err := NewRedisParseCache(down, time.Hour).Get(ctx, "fp", "Year 3020"); err == nil {
		t.Error("expected an error with Redis down")
	}
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(standardDefinition())
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	b, _ := Fingerprint(standardDefinition())
	if a != b || len(a) != 32 {
		t.Errorf("expected a stable 32-character fingerprint, got %q and %q", a, b)
	}

	changed := standardDefinition()
	changed.MonthDays[0], changed.MonthDays[1] = 59, 61
	c, _ := Fingerprint(changed)
	if c == a {
		t.Error("expected a different fingerprint for a different definition")
	}
}

func TestNoopParseCache(t *testing.T) {
	cache := NewNoopParseCache()
	ctx := context.Background()
	if err := cache.Set(ctx, "fp", "Year 3019", &dateparse.ParsedDate{Year: 3019}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := cache.Get(ctx, "fp", "Year 3019"); ok || err != nil {
		t.Errorf("expected a miss, got ok=%v err=%v", ok, err)
	}
}
