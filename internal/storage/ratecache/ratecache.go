// Package ratecache wraps a rate lookup with a Redis read-through cache.
package ratecache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

const defaultTTL = 5 * time.Minute

type RateLookup interface {
	GetRate(ctx context.Context, venueID string, date time.Time) (domain.Rate, error)
}

// Cache caches resolved nightly/hourly rates per venue and date. Lookup
// failures against Redis fall back to the underlying source, so a cache
// outage degrades latency but never availability.
type Cache struct {
	next   RateLookup
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// New wraps next with a Redis cache. A nil client disables caching and
// delegates every call.
func New(next RateLookup, client *redis.Client, logger *log.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	c := &Cache{
		next:   next,
		client: client,
		logger: logger,
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) GetRate(ctx context.Context, venueID string, date time.Time) (domain.Rate, error) {
	if c.client == nil {
		return c.next.GetRate(ctx, venueID, date)
	}

	key := rateKey(venueID, date)
	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var rate domain.Rate
		if err := json.Unmarshal([]byte(cached), &rate); err == nil {
			return rate, nil
		}
	} else if err != redis.Nil {
		c.logger.Printf("WARN rate cache read failed key=%s: %v", key, err)
	}

	rate, err := c.next.GetRate(ctx, venueID, date)
	if err != nil {
		return domain.Rate{}, err
	}

	payload, err := json.Marshal(rate)
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Printf("WARN rate cache write failed key=%s: %v", key, err)
		}
	}
	return rate, nil
}

// Invalidate drops the cached rate for a venue and date, typically after a
// rate override changes.
func (c *Cache) Invalidate(ctx context.Context, venueID string, date time.Time) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, rateKey(venueID, date)).Err(); err != nil {
		c.logger.Printf("WARN rate cache invalidate failed venue_id=%s: %v", venueID, err)
	}
}

func rateKey(venueID string, date time.Time) string {
	return fmt.Sprintf("venue_rate:%s:%s", venueID, date.UTC().Format("2006-01-02"))
}
