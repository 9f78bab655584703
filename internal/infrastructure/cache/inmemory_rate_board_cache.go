package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	appPricing "github.com/jewelerp/backend/internal/application/pricing"
	"github.com/google/uuid"
)

const cleanupInterval = 30 * time.Second

// InMemoryRateBoardCache implements RateBoardCache with process-local
// storage. Suitable for single-instance deployments and tests; boards
// cached here are not shared across instances.
type InMemoryRateBoardCache struct {
	boards  sync.Map // map[uuid.UUID]*boardEntry
	stopCh  chan struct{}
	stopped int32
}

type boardEntry struct {
	board     *appPricing.GoldRateBoardResponse
	expiresAt time.Time
}

func (e *boardEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryRateBoardCache creates a new in-memory rate board cache
func NewInMemoryRateBoardCache() *InMemoryRateBoardCache {
	cache := &InMemoryRateBoardCache{
		stopCh: make(chan struct{}),
	}
	go cache.cleanupExpired()
	return cache
}

// Get retrieves the cached rate board for a tenant. A miss returns (nil, nil).
func (c *InMemoryRateBoardCache) Get(_ context.Context, tenantID uuid.UUID) (*appPricing.GoldRateBoardResponse, error) {
	value, ok := c.boards.Load(tenantID)
	if !ok {
		return nil, nil
	}
	entry := value.(*boardEntry)
	if entry.isExpired() {
		c.boards.Delete(tenantID)
		return nil, nil
	}
	return entry.board, nil
}

// Set stores the rate board for a tenant with the given TTL
func (c *InMemoryRateBoardCache) Set(_ context.Context, tenantID uuid.UUID, board *appPricing.GoldRateBoardResponse, ttl time.Duration) error {
	c.boards.Store(tenantID, &boardEntry{
		board:     board,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Invalidate removes the cached rate board for a tenant
func (c *InMemoryRateBoardCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.boards.Delete(tenantID)
	return nil
}

// Stop terminates the background cleanup goroutine
func (c *InMemoryRateBoardCache) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryRateBoardCache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.boards.Range(func(key, value interface{}) bool {
				if value.(*boardEntry).isExpired() {
					c.boards.Delete(key)
				}
				return true
			})
		}
	}
}

// Ensure InMemoryRateBoardCache implements RateBoardCache
var _ appPricing.RateBoardCache = (*InMemoryRateBoardCache)(nil)
