// Package redis caches the resolved daily exchange rate.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/core"
)

const defaultRateTTL = 24 * time.Hour

// RateCache stores one JSON-encoded core.ExchangeRate per KST day.
type RateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRateCache wraps client. A non-positive ttl falls back to 24h.
func NewRateCache(client *redis.Client, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = defaultRateTTL
	}
	return &RateCache{client: client, ttl: ttl}
}

// NewClient builds a client from addr, which may be a host:port or a
// redis:// URL.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	if opts, err := redis.ParseURL(addr); err == nil {
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}), nil
}

// RateKey returns the cache key for the KST day containing day.
func RateKey(day time.Time) string {
	return fmt.Sprintf("fx:rate:%s", clock.Day(day).Format(time.DateOnly))
}

func (c *RateCache) GetRate(ctx context.Context, day time.Time) (core.ExchangeRate, bool, error) {
	raw, err := c.client.Get(ctx, RateKey(day)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.ExchangeRate{}, false, nil
		}
		return core.ExchangeRate{}, false, fmt.Errorf("get cached rate: %w", err)
	}

	var rate core.ExchangeRate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return core.ExchangeRate{}, false, fmt.Errorf("decode cached rate: %w", err)
	}
	return rate, true, nil
}

func (c *RateCache) SetRate(ctx context.Context, rate core.ExchangeRate) error {
	raw, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("encode rate: %w", err)
	}
	if err := c.client.Set(ctx, RateKey(rate.AsOf), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached rate: %w", err)
	}
	return nil
}

// Ping reports whether the server is reachable.
func (c *RateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
