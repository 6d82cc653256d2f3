package acl

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the resolution cache.
const DefaultCacheSize = 10000

// resolveCache memoizes the merged per-level table per target path. Entries
// are principal-independent, so one cached table answers every user's query
// for that path until a document beneath it changes.
type resolveCache struct {
	lru *lru.Cache[string, *permTable]
}

func newResolveCache(size int) *resolveCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, *permTable](size)
	return &resolveCache{lru: cache}
}

func (c *resolveCache) Get(path string) *permTable {
	table, ok := c.lru.Get(path)
	if !ok {
		return nil
	}
	return table
}

func (c *resolveCache) Set(path string, table *permTable) {
	c.lru.Add(path, table)
}

// InvalidatePrefix drops every cached path at or below the given directory.
// Returns the number of entries dropped.
func (c *resolveCache) InvalidatePrefix(prefix string) int {
	dropped := 0
	for _, key := range c.lru.Keys() {
		if key == prefix || strings.HasPrefix(key, prefix+PathSep) || prefix == "" {
			c.lru.Remove(key)
			dropped++
		}
	}
	return dropped
}

func (c *resolveCache) Len() int {
	return c.lru.Len()
}
