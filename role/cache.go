package role

import (
	"sync"

	"homeflow/auth"
)

// Cache memoizes resolved roles. It is injected into the Resolver rather
// than living as package state so each process (and each test) owns its own
// scope and can invalidate explicitly. Entries have no TTL; they live until
// invalidated or the process restarts.
type Cache interface {
	Get(email string) (auth.Role, bool)
	Set(email string, role auth.Role)
	Invalidate(email string)
	Reset()
}

// MemoryCache is a mutex-guarded in-process Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	roles map[string]auth.Role
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{roles: make(map[string]auth.Role)}
}

func (c *MemoryCache) Get(email string) (auth.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	role, ok := c.roles[email]
	return role, ok
}

func (c *MemoryCache) Set(email string, role auth.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[email] = role
}

// Invalidate drops the entry for one identity, forcing a fresh lookup. Role
// mutations (elevation, revocation) must call this for the affected email.
func (c *MemoryCache) Invalidate(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.roles, email)
}

// Reset drops every entry.
func (c *MemoryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles = make(map[string]auth.Role)
}
