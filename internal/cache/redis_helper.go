package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultForecastTTL = time.Minute
	maxForecastTTL = 24 * time.Hour
	pingTimeout    = 5 * time.Second
)

var ErrInvalidCacheConfig = errors.New("invalid cache config")

// forecastTTL converts CACHE_FORECAST_TTL_SECONDS. Zero selects the default.
func forecastTTL(seconds int) (time.Duration, error) {
	if seconds == 0 {
		return defaultForecastTTL, nil
	}
	ttl := time.Duration(seconds) * time.Second
	if ttl < 0 || ttl > maxForecastTTL {
		return 0, fmt.Errorf("%w: forecast ttl %s outside (0, %s]", ErrInvalidCacheConfig, ttl, maxForecastTTL)
	}
	return ttl, nil
}

// redisOptions prefers REDIS_URL and falls back to host, port and db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("%w: redis url: %v", ErrInvalidCacheConfig, err)
		}
		return opt, nil
	}

	if cfg.RedisDB < 0 {
		return nil, fmt.Errorf("%w: redis db %d", ErrInvalidCacheConfig, cfg.RedisDB)
	}
	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// dialRedis connects and pings once so a dead cache is noticed at startup.
func dialRedis(opts *redis.Options) (*redis.Client, error) {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// purgeForecasts removes every cached forecast response and reports how many
// keys went. Other keys in the same database are left alone.
func purgeForecasts(ctx context.Context, client *redis.Client) (int, error) {
	iter := client.Scan(ctx, 0, forecastKeyPrefix+":*", forecastScanBatchSize).Iterator()

	removed := 0
	batch := make([]string, 0, forecastScanBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := client.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan: %w", err)
	}
	return removed, flush()
}
