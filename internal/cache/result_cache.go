package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline/abc"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	resultKeyPrefix     = "abc:result"
	resultScanBatchSize = 100
)

// ResultKey identifies one analysis: the workbook contents, the filter and the
// analysis settings it ran with.
type ResultKey struct {
	Digest   string
	Filter   domain.Filter
	Settings string
}

// Hash returns a stable hash of the key.
func (k ResultKey) Hash() string {
	parts := []string{
		"digest=" + k.Digest,
		"owning_unit=" + k.Filter.OwningUnit,
		"material_type=" + k.Filter.MaterialType,
		"requesting_area=" + k.Filter.RequestingArea,
		"settings=" + k.Settings,
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

type ResultCache interface {
	Get(ctx context.Context, key ResultKey) (*abc.Result, bool, error)
	Set(ctx context.Context, key ResultKey, result *abc.Result) error
	Invalidate(ctx context.Context, key ResultKey) error
	InvalidateAll(ctx context.Context) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	client, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisResultCache(client, resultTTL(cfg)), nil
}

// NewRedisResultCache wraps an existing client.
func NewRedisResultCache(client *redis.Client, ttl time.Duration) ResultCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisResultCache{client: client, ttl: ttl}
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) Get(ctx context.Context, key ResultKey) (*abc.Result, bool, error) {
	payload, err := c.client.Get(ctx, buildResultKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result abc.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode abc result cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, key ResultKey, result *abc.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode abc result cache: %w", err)
	}

	if err := c.client.Set(ctx, buildResultKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisResultCache) Invalidate(ctx context.Context, key ResultKey) error {
	return c.client.Del(ctx, buildResultKey(key)).Err()
}

func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	n, err := purgePrefix(ctx, c.client, resultKeyPrefix+":", resultScanBatchSize)
	if err != nil {
		return err
	}
	log.Debug().Int("keys", n).Msg("abc result cache cleared")
	return nil
}

func (n *noopResultCache) Get(ctx context.Context, key ResultKey) (*abc.Result, bool, error) {
	return nil, false, nil
}

func (n *noopResultCache) Set(ctx context.Context, key ResultKey, result *abc.Result) error {
	return nil
}

func (n *noopResultCache) Invalidate(ctx context.Context, key ResultKey) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildResultKey(key ResultKey) string {
	return fmt.Sprintf("%s:%s", resultKeyPrefix, key.Hash())
}
