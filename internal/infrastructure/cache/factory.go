package cache

import (
	appPricing "github.com/jewelerp/backend/internal/application/pricing"
	"github.com/jewelerp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RateBoardCacheFactory creates rate board caches based on configuration
type RateBoardCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RateBoardCacheFactoryOption is a functional option for configuring the factory
type RateBoardCacheFactoryOption func(*RateBoardCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RateBoardCacheFactoryOption {
	return func(f *RateBoardCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RateBoardCacheFactoryOption {
	return func(f *RateBoardCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRateBoardCacheFactory creates a new factory
func NewRateBoardCacheFactory(cfg config.RedisConfig, opts ...RateBoardCacheFactoryOption) *RateBoardCacheFactory {
	f := &RateBoardCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a rate board cache, preferring Redis. When Redis
// is unreachable and fallback is allowed, it returns the in-memory
// cache with a warning; boards cached there are not shared across
// instances.
func (f *RateBoardCacheFactory) CreateCache() (appPricing.RateBoardCache, error) {
	cache, err := NewRedisRateBoardCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, WithCacheLogger(f.logger))
	if err == nil {
		f.logger.Info("using Redis rate board cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rate board cache",
		zap.Error(err))
	return NewInMemoryRateBoardCache(), nil
}
