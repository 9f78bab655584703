package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appPricing "github.com/jewelerp/backend/internal/application/pricing"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds the connection settings for Redis-backed caches
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisRateBoardCache implements RateBoardCache using Redis so every
// instance serves the same board after a rate publication.
type RedisRateBoardCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisRateBoardCacheOption is a functional option for configuring the cache
type RedisRateBoardCacheOption func(*RedisRateBoardCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisRateBoardCacheOption {
	return func(c *RedisRateBoardCache) {
		c.logger = logger
	}
}

// NewRedisRateBoardCache creates a new Redis-based rate board cache
func NewRedisRateBoardCache(cfg RedisConfig, opts ...RedisRateBoardCacheOption) (*RedisRateBoardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisRateBoardCache{
		client:     client,
		ownsClient: true,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisRateBoardCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisRateBoardCacheWithClient(client *redis.Client, opts ...RedisRateBoardCacheOption) *RedisRateBoardCache {
	cache := &RedisRateBoardCache{
		client:     client,
		ownsClient: false,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func rateBoardKey(tenantID uuid.UUID) string {
	return "rateboard:" + tenantID.String()
}

// Get retrieves the cached rate board for a tenant. A miss returns (nil, nil).
func (c *RedisRateBoardCache) Get(ctx context.Context, tenantID uuid.UUID) (*appPricing.GoldRateBoardResponse, error) {
	data, err := c.client.Get(ctx, rateBoardKey(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rate board from cache: %w", err)
	}

	var board appPricing.GoldRateBoardResponse
	if err := json.Unmarshal(data, &board); err != nil {
		// Corrupt entry, drop it so the next read repopulates
		c.logger.Warn("dropping unreadable rate board cache entry",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		c.client.Del(ctx, rateBoardKey(tenantID))
		return nil, nil
	}
	return &board, nil
}

// Set stores the rate board for a tenant with the given TTL
func (c *RedisRateBoardCache) Set(ctx context.Context, tenantID uuid.UUID, board *appPricing.GoldRateBoardResponse, ttl time.Duration) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal rate board: %w", err)
	}
	if err := c.client.Set(ctx, rateBoardKey(tenantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rate board: %w", err)
	}
	return nil
}

// Invalidate removes the cached rate board for a tenant
func (c *RedisRateBoardCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, rateBoardKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rate board: %w", err)
	}
	return nil
}

// Close closes the Redis client if this cache owns it
func (c *RedisRateBoardCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisRateBoardCache implements RateBoardCache
var _ appPricing.RateBoardCache = (*RedisRateBoardCache)(nil)
