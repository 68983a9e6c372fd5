package driver

import (
	"sync"

	"bgql/internal/modules"
)

type moduleKey struct {
	scope string
	from  string
	name  string
}

// ModuleCache shares loaded module sources between the roots of one
// directory run, so a module imported by many files is read once.
// Failed loads are not cached.
type ModuleCache struct {
	mu     sync.RWMutex
	bySrc  map[moduleKey]modules.Source
	hits   int
	misses int
}

// NewModuleCache creates a ModuleCache with the given capacity hint.
func NewModuleCache(capHint int) *ModuleCache {
	return &ModuleCache{bySrc: make(map[moduleKey]modules.Source, capHint)}
}

// Wrap returns a loader that consults the cache first. scope separates
// loaders whose answers differ, typically the DirLoader root.
func (c *ModuleCache) Wrap(l modules.Loader, scope string) modules.Loader {
	if c == nil || l == nil {
		return l
	}
	return modules.LoaderFunc(func(from, name string) (modules.Source, error) {
		key := moduleKey{scope: scope, from: from, name: name}
		c.mu.RLock()
		src, ok := c.bySrc[key]
		c.mu.RUnlock()
		if ok {
			c.mu.Lock()
			c.hits++
			c.mu.Unlock()
			return src, nil
		}

		src, err := l.Load(from, name)
		c.mu.Lock()
		c.misses++
		if err == nil {
			c.bySrc[key] = src
		}
		c.mu.Unlock()
		return src, err
	})
}

// Stats reports cache hits and misses so far.
func (c *ModuleCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
