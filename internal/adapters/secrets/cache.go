package secrets

import (
	"sync"
	"time"
)

// settingsCache is a small TTL cache shared by the Vault and AWS providers
// so a burst of charges does not hammer the secret backend
type settingsCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	enabled bool
	ttl     time.Duration
}

type cacheEntry struct {
	value     map[string]string
	expiresAt time.Time
}

func newSettingsCache(enabled bool, ttl time.Duration) *settingsCache {
	return &settingsCache{
		entries: make(map[string]*cacheEntry),
		enabled: enabled,
		ttl:     ttl,
	}
}

func (c *settingsCache) get(key string) (map[string]string, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *settingsCache) put(key string, value map[string]string) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}
