package curve

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/xpscale/internal/scaled"
)

// Cached wraps the standard curve and memoizes cumulative requirements.
// Values are identical to Standard's. Safe for concurrent use.
type Cached struct {
	std Standard
	lru *lru.Cache[int, scaled.Number]
}

// NewCached creates a cached curve holding up to size cumulative values.
// A non-positive size falls back to DefaultCacheSize.
func NewCached(size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[int, scaled.Number](size)
	if err != nil {
		return nil, err
	}
	return &Cached{lru: cache}, nil
}

// Requirement implements Curve. It is cheap enough not to cache.
func (c *Cached) Requirement(level int) (scaled.Number, error) {
	return Requirement(level)
}

// Cumulative implements Curve.
func (c *Cached) Cumulative(level int) (scaled.Number, error) {
	if v, ok := c.lru.Get(level); ok {
		return v, nil
	}

	v, err := c.std.Cumulative(level)
	if err != nil {
		return scaled.Zero(), err
	}
	c.lru.Add(level, v)
	return v, nil
}

// Len returns the number of cached levels.
func (c *Cached) Len() int {
	return c.lru.Len()
}

// Purge drops every cached value.
func (c *Cached) Purge() {
	c.lru.Purge()
}
