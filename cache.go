// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"sync"

	"github.com/buke/vue-compile-go/host"
	"github.com/golang/groupcache/singleflight"
)

// Cache maps template strings to compiled render functions. Entries are
// never evicted or replaced, so it grows for as long as it is owned.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]host.RenderFunction
	flight  singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]host.RenderFunction)}
}

// Get returns the render function cached for key.
func (c *Cache) Get(key string) (host.RenderFunction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.entries[key]
	return fn, ok
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LookupOrCompile returns the render function cached for key, calling
// compile on a miss. Concurrent misses for the same key share one compile
// call. Failed compilations are not cached.
func (c *Cache) LookupOrCompile(key string, compile func() (host.RenderFunction, error)) (host.RenderFunction, error) {
	if fn, ok := c.Get(key); ok {
		return fn, nil
	}

	v, err := c.flight.Do(key, func() (interface{}, error) {
		if fn, ok := c.Get(key); ok {
			return fn, nil
		}
		fn, err := compile()
		if err != nil {
			return nil, err
		}
		return c.storeFirst(key, fn), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(host.RenderFunction), nil
}

// storeFirst inserts fn unless key is already present and returns the
// entry that ends up in the cache.
func (c *Cache) storeFirst(key string, fn host.RenderFunction) host.RenderFunction {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = fn
	return fn
}
