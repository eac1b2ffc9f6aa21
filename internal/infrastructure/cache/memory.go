package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// ConfigCache keeps recently resolved scoring configs in process memory so
// scoring a page of deals does not re-read the config row for every deal.
type ConfigCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*configItem
}

type configItem struct {
	config   *entities.ScoringConfig
	expireAt time.Time
}

// NewConfigCache creates a config cache with the given TTL and starts the
// background sweep of expired entries.
func NewConfigCache(ttl time.Duration) *ConfigCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c := &ConfigCache{
		ttl:   ttl,
		items: make(map[string]*configItem),
	}
	go c.sweepExpired()
	return c
}

func configKey(tenantID, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", tenantID, userID)
}

// Get returns a cached config, or nil when missing or expired
func (c *ConfigCache) Get(tenantID, userID uuid.UUID) *entities.ScoringConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[configKey(tenantID, userID)]
	if !ok || time.Now().After(item.expireAt) {
		return nil
	}
	return item.config
}

// Put stores a config for its owner
func (c *ConfigCache) Put(config *entities.ScoringConfig) {
	if config == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[configKey(config.TenantID, config.UserID)] = &configItem{
		config:   config,
		expireAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops the cached config for an owner, used after config updates
func (c *ConfigCache) Invalidate(tenantID, userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, configKey(tenantID, userID))
}

func (c *ConfigCache) sweepExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expireAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
