package driver

import (
	"sync"
)

// ResultCache is the per-process front of the disk cache: results computed or
// read once in a run are served from memory afterwards.
type ResultCache struct {
	mu    sync.RWMutex
	byKey map[Digest]*DiskPayload
	disk  *DiskCache

	hits, misses int
}

// NewResultCache creates a ResultCache. disk may be nil for a memory-only
// cache.
func NewResultCache(disk *DiskCache, capHint int) *ResultCache {
	return &ResultCache{byKey: make(map[Digest]*DiskPayload, capHint), disk: disk}
}

// Get looks the key up in memory, then on disk. Disk errors are misses.
func (c *ResultCache) Get(key Digest) (*DiskPayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	p, ok := c.byKey[key]
	c.mu.RUnlock()
	if ok {
		c.count(true)
		return p, true
	}
	var out DiskPayload
	if found, err := c.disk.Get(key, &out); err != nil || !found {
		c.count(false)
		return nil, false
	}
	c.mu.Lock()
	c.byKey[key] = &out
	c.mu.Unlock()
	c.count(true)
	return &out, true
}

// Put stores the payload in memory and on disk.
func (c *ResultCache) Put(key Digest, p *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.byKey[key] = p
	c.mu.Unlock()
	return c.disk.Put(key, p)
}

// Stats returns hit and miss counters.
func (c *ResultCache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *ResultCache) count(hit bool) {
	c.mu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
}
