package feedback

import (
	"sync"
	"time"

	"interview-alchemist/internal/models"
)

const cleanupInterval = 5 * time.Minute

// ContextCache holds evaluation exchanges until the candidate rates them or they expire
type ContextCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	context   *models.RequestContext
	expiresAt time.Time
}

func NewContextCache(ttl time.Duration) *ContextCache {
	cc := &ContextCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go cc.cleanupLoop()
	return cc
}

// Set replaces any earlier exchange under the same key
func (cc *ContextCache) Set(key string, ctx *models.RequestContext) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.entries[key] = &cacheEntry{context: ctx, expiresAt: cc.now().Add(cc.ttl)}
}

func (cc *ContextCache) Get(key string) (*models.RequestContext, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	entry, ok := cc.entries[key]
	if !ok || cc.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.context, true
}

func (cc *ContextCache) Delete(key string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.entries, key)
}

func (cc *ContextCache) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.entries)
}

// Close stops the background sweep
func (cc *ContextCache) Close() {
	cc.once.Do(func() { close(cc.stop) })
}

func (cc *ContextCache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cc.cleanup()
		case <-cc.stop:
			return
		}
	}
}

func (cc *ContextCache) cleanup() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	now := cc.now()
	for key, entry := range cc.entries {
		if now.After(entry.expiresAt) {
			delete(cc.entries, key)
		}
	}
}
