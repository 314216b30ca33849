package application

import (
	"sync"
	"time"

	"github.com/example/smart-calendar/internal/suggest"
)

// snapshotCache keeps recently loaded signal snapshots per owner so repeated
// suggestion listings do not reread every source table.
type snapshotCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]snapshotCacheEntry
}

type snapshotCacheEntry struct {
	snapshot  suggest.Snapshot
	expiresAt time.Time
}

// newSnapshotCache returns nil when ttl is not positive, which disables
// caching.
func newSnapshotCache(ttl time.Duration, maxEntries int, now func() time.Time) *snapshotCache {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &snapshotCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]snapshotCacheEntry),
	}
}

func (c *snapshotCache) Get(ownerID string) (suggest.Snapshot, bool) {
	if c == nil {
		return suggest.Snapshot{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[ownerID]
	c.mu.RUnlock()
	if !ok {
		return suggest.Snapshot{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, ownerID)
		c.mu.Unlock()
		return suggest.Snapshot{}, false
	}
	return cloneSnapshot(entry.snapshot), true
}

func (c *snapshotCache) Store(ownerID string, snapshot suggest.Snapshot) {
	if c == nil {
		return
	}
	cloned := cloneSnapshot(snapshot)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if _, exists := c.entries[ownerID]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[ownerID] = snapshotCacheEntry{snapshot: cloned, expiresAt: expiry}
}

func (c *snapshotCache) Invalidate(ownerID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, ownerID)
	c.mu.Unlock()
}

func (c *snapshotCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *snapshotCache) evictOneLocked() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}

func cloneSnapshot(s suggest.Snapshot) suggest.Snapshot {
	return suggest.Snapshot{
		Leases:     append([]suggest.Lease(nil), s.Leases...),
		Warranties: append([]suggest.Warranty(nil), s.Warranties...),
		Policies:   append([]suggest.InsurancePolicy(nil), s.Policies...),
		Documents:  append([]suggest.Document(nil), s.Documents...),
	}
}
