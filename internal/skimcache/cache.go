// Package skimcache fronts the skim store's routing collaborator with a
// Redis cache keyed by skim fingerprint, a circuit breaker, and a per-host
// rate limiter (spec §4.3a, §4.16). The cache is an optimization only:
// correctness never depends on a hit, and a cache outage degrades to direct
// collaborator calls.
package skimcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/akerscore/aucs/internal/skim"
)

// DefaultTTL is the default cache entry lifetime (spec §4.16).
const DefaultTTL = 24 * time.Hour

// Cache is a two-tier read path in front of a skim.Source: an in-process
// LRU for the hottest fingerprints, a Redis tier for cross-process reuse,
// and the collaborator itself behind a breaker and limiter.
type Cache struct {
	redis   *redis.Client
	source  skim.Source
	breaker *Breaker
	limiter *HostLimiter
	ttl     time.Duration
	lru     *lru
	host    string
}

// New builds a Cache in front of source, using rdb for the cross-process
// tier. host identifies the collaborator endpoint for rate-limiting.
func New(rdb *redis.Client, source skim.Source, host string, lruCapacity int, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		redis:   rdb,
		source:  source,
		breaker: NewBreaker("skim-collaborator", 5, 30*time.Second),
		limiter: NewHostLimiter(20, 40),
		ttl:     ttl,
		lru:     newLRU(lruCapacity),
		host:    host,
	}
}

func cacheKey(k skim.Key, fingerprint string) string {
	return fmt.Sprintf("aucs:skim:%s:%s:%s:%s:%s", fingerprint, k.OriginCell, k.DestinationID, k.Mode, k.TimeSlice)
}

// Get resolves a batch of keys, consulting the in-process LRU, then Redis,
// then falling through to the collaborator (rate-limited, breaker-guarded)
// for whatever remains.
func (c *Cache) Get(ctx context.Context, fingerprint string, keys []skim.Key) ([]skim.Entry, error) {
	results := make([]skim.Entry, len(keys))
	missing := make([]int, 0, len(keys))
	missingKeys := make([]skim.Key, 0, len(keys))

	for i, k := range keys {
		if e, ok := c.lru.get(cacheKey(k, fingerprint)); ok {
			results[i] = e
			continue
		}
		missing = append(missing, i)
		missingKeys = append(missingKeys, k)
	}

	if len(missingKeys) == 0 {
		return results, nil
	}

	if c.redis != nil {
		stillMissing := missing[:0]
		stillMissingKeys := missingKeys[:0]
		for j, k := range missingKeys {
			raw, err := c.redis.Get(ctx, cacheKey(k, fingerprint)).Result()
			if err == nil {
				var e skim.Entry
				if jsonErr := json.Unmarshal([]byte(raw), &e); jsonErr == nil {
					results[missing[j]] = e
					c.lru.put(cacheKey(k, fingerprint), e)
					continue
				}
			}
			stillMissing = append(stillMissing, missing[j])
			stillMissingKeys = append(stillMissingKeys, k)
		}
		missing = stillMissing
		missingKeys = stillMissingKeys
	}

	if len(missingKeys) == 0 {
		return results, nil
	}

	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return nil, fmt.Errorf("skimcache: rate limiter wait: %w", err)
	}

	raw, err := c.breaker.Call(ctx, func(ctx context.Context) (interface{}, error) {
		return c.source.BatchSkim(ctx, missingKeys)
	})
	if err != nil {
		return nil, fmt.Errorf("skimcache: collaborator call failed: %w", err)
	}
	fetched := raw.([]skim.Entry)

	byKey := make(map[skim.Key]skim.Entry, len(fetched))
	for _, e := range fetched {
		byKey[skim.Key{OriginCell: e.OriginCell, DestinationID: e.DestinationID, Mode: e.Mode, TimeSlice: e.TimeSlice}] = e
	}

	for j, k := range missingKeys {
		e, ok := byKey[k]
		if !ok {
			e = skim.Entry{OriginCell: k.OriginCell, DestinationID: k.DestinationID, Mode: k.Mode, TimeSlice: k.TimeSlice, Reachable: false}
		}
		results[missing[j]] = e
		c.lru.put(cacheKey(k, fingerprint), e)
		if c.redis != nil {
			if body, err := json.Marshal(e); err == nil {
				c.redis.Set(ctx, cacheKey(k, fingerprint), body, c.ttl)
			}
		}
	}

	return results, nil
}
