package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/preseasonhq/backoffice/internal/config"
	"github.com/preseasonhq/backoffice/internal/domain"
)

const (
	velocityKeyPrefix    = "velocity"
	velocityScanBatchLen = 100
)

// VelocityCache memoizes the trailing-sales velocity map per filter context.
// Velocity is fetched once per filter and reused by every suggestion run
// until the filter changes or the TTL lapses.
type VelocityCache interface {
	Get(ctx context.Context, filter domain.InventoryFilter, months int) (domain.VelocityMap, bool, error)
	Set(ctx context.Context, filter domain.InventoryFilter, months int, velocity domain.VelocityMap) error
	Invalidate(ctx context.Context, filter domain.InventoryFilter, months int) error
	InvalidateAll(ctx context.Context) error
}

type redisVelocityCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopVelocityCache struct{}

func NewVelocityCache(cfg config.CacheConfig) (VelocityCache, error) {
	if !cfg.Enabled {
		return &noopVelocityCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisVelocityCache{client: client, ttl: ttl}, nil
}

func NewNoopVelocityCache() VelocityCache {
	return &noopVelocityCache{}
}

func (c *redisVelocityCache) Get(ctx context.Context, filter domain.InventoryFilter, months int) (domain.VelocityMap, bool, error) {
	payload, err := c.client.Get(ctx, buildVelocityKey(filter, months)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var velocity domain.VelocityMap
	if err := json.Unmarshal(payload, &velocity); err != nil {
		return nil, false, fmt.Errorf("decode velocity cache: %w", err)
	}

	return velocity, true, nil
}

func (c *redisVelocityCache) Set(ctx context.Context, filter domain.InventoryFilter, months int, velocity domain.VelocityMap) error {
	payload, err := json.Marshal(velocity)
	if err != nil {
		return fmt.Errorf("encode velocity cache: %w", err)
	}

	if err := c.client.Set(ctx, buildVelocityKey(filter, months), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisVelocityCache) Invalidate(ctx context.Context, filter domain.InventoryFilter, months int) error {
	return c.client.Del(ctx, buildVelocityKey(filter, months)).Err()
}

func (c *redisVelocityCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, velocityKeyPrefix, velocityScanBatchLen)
}

func (n *noopVelocityCache) Get(ctx context.Context, filter domain.InventoryFilter, months int) (domain.VelocityMap, bool, error) {
	return nil, false, nil
}

func (n *noopVelocityCache) Set(ctx context.Context, filter domain.InventoryFilter, months int, velocity domain.VelocityMap) error {
	return nil
}

func (n *noopVelocityCache) Invalidate(ctx context.Context, filter domain.InventoryFilter, months int) error {
	return nil
}

func (n *noopVelocityCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildVelocityKey(filter domain.InventoryFilter, months int) string {
	return fmt.Sprintf("%s:%s", velocityKeyPrefix, velocityFilterHash(filter, months))
}

func velocityFilterHash(filter domain.InventoryFilter, months int) string {
	parts := []string{
		"season=" + strconv.FormatInt(filter.SeasonID, 10),
		"months=" + strconv.Itoa(months),
	}
	if filter.BrandID != nil {
		parts = append(parts, "brand="+strconv.FormatInt(*filter.BrandID, 10))
	}
	if filter.LocationID != nil {
		parts = append(parts, "location="+strconv.FormatInt(*filter.LocationID, 10))
	}
	if filter.ShipDate != "" {
		parts = append(parts, "ship_date="+strings.TrimSpace(filter.ShipDate))
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
