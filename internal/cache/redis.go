package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL  = 10 * time.Minute
	redisDialTimeout = 5 * time.Second
)

// dialRedis connects to the configured redis and fails fast when it does not answer.
func dialRedis(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}
	return client, nil
}

func resultTTL(cfg config.CacheConfig) time.Duration {
	if cfg.ResultTTLSeconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(cfg.ResultTTLSeconds) * time.Second
}

// redisOptions prefers REDIS_URL and falls back to host/port/db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
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

// purgePrefix removes every key under prefix and returns how many were deleted.
func purgePrefix(ctx context.Context, client *redis.Client, prefix string, batch int64) (int, error) {
	iter := client.Scan(ctx, 0, prefix+"*", batch).Iterator()

	deleted := 0
	pending := make([]string, 0, batch)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := client.Del(ctx, pending...).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
		deleted += len(pending)
		pending = pending[:0]
		return nil
	}

	for iter.Next(ctx) {
		pending = append(pending, iter.Val())
		if int64(len(pending)) >= batch {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan failed: %w", err)
	}
	return deleted, flush()
}
