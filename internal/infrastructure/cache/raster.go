// Package cache provides in-memory caching in front of expensive renderers.
package cache

import (
	"sync"
	"sync/atomic"

	"labelkit/internal/domain/render"
)

// DefaultRasterEntries bounds a raster cache created with a non-positive size.
const DefaultRasterEntries = 512

// RasterCache memoizes barcode images by identifier. Re-exporting a list
// rasterizes only identifiers added since the previous export.
// Returned slices are shared and must not be modified.
type RasterCache struct {
	next  render.BarcodeRenderer
	limit int

	mu      sync.RWMutex
	entries map[string][]byte
	order   []string // insertion order, oldest first

	hits   atomic.Int64
	misses atomic.Int64
}

var _ render.BarcodeRenderer = (*RasterCache)(nil)

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewRasterCache wraps next with a cache holding at most limit images.
func NewRasterCache(next render.BarcodeRenderer, limit int) *RasterCache {
	if limit <= 0 {
		limit = DefaultRasterEntries
	}
	return &RasterCache{
		next:    next,
		limit:   limit,
		entries: make(map[string][]byte, limit),
	}
}

// Rasterize returns the cached image or renders and stores it.
// Failures are not cached.
func (c *RasterCache) Rasterize(identifier string) ([]byte, error) {
	c.mu.RLock()
	img, ok := c.entries[identifier]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return img, nil
	}

	c.misses.Add(1)
	img, err := c.next.Rasterize(identifier)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[identifier]; !ok {
		for len(c.order) >= c.limit {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, identifier)
	}
	c.entries[identifier] = img
	return img, nil
}

// Invalidate drops every entry.
func (c *RasterCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string][]byte, c.limit)
	c.order = nil
	c.mu.Unlock()
}

// Stats returns current counters.
func (c *RasterCache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}
