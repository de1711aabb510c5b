package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/config"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	forecastKeyPrefix     = "forecast:response"
	forecastScanBatchSize = 100
)

// ForecastCache keeps forecast service responses keyed by request.
type ForecastCache interface {
	Get(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, bool, error)
	Set(ctx context.Context, req domain.ForecastRequest, resp *domain.ForecastResponse) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

// NewForecastCache returns a Redis backed cache, or a no-op cache when caching
// is disabled.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	ttl, err := forecastTTL(cfg.ForecastTTLSeconds)
	if err != nil {
		return nil, err
	}
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := dialRedis(opts)
	if err != nil {
		return nil, err
	}

	return NewRedisForecastCache(client, ttl), nil
}

func NewRedisForecastCache(client *redis.Client, ttl time.Duration) ForecastCache {
	if ttl <= 0 {
		ttl = defaultForecastTTL
	}
	return &redisForecastCache{client: client, ttl: ttl}
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, bool, error) {
	payload, err := c.client.Get(ctx, forecastKey(req)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var resp domain.ForecastResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return &resp, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, req domain.ForecastRequest, resp *domain.ForecastResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, forecastKey(req), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	removed, err := purgeForecasts(ctx, c.client)
	if err != nil {
		return err
	}
	log.Info().Int("keys", removed).Msg("cache: forecast responses purged")
	return nil
}

func (n *noopForecastCache) Get(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, req domain.ForecastRequest, resp *domain.ForecastResponse) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func forecastKey(req domain.ForecastRequest) string {
	return fmt.Sprintf("%s:%04d-%02d:h%d", forecastKeyPrefix, req.Year, req.Month, req.Holidays)
}
