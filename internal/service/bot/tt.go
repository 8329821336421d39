package bot

import (
	"github.com/iamasit07/connect4-ai/internal/domain"
)

const DefaultMaxCacheEntries = 1_000_000

// Bound tells how a cached score relates to the true minimax value of its node.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // true value >= Score (search failed high)
	BoundUpper       // true value <= Score (search failed low)
)

// CacheKey identifies a search node. Board is an array, so the whole key is comparable
// and two move orders reaching the same cells share an entry.
type CacheKey struct {
	Board      domain.Board
	Depth      int
	Maximizing bool
}

type cacheEntry struct {
	Result SearchResult
	Bound  Bound
}

// Cache is the transposition table of one engine. It is not safe for concurrent use;
// the owning session serialises access.
type Cache struct {
	entries    map[CacheKey]cacheEntry
	maxEntries int
	clears     int
}

func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCacheEntries
	}
	return &Cache{
		entries:    make(map[CacheKey]cacheEntry),
		maxEntries: maxEntries,
	}
}

func (c *Cache) Probe(key CacheKey) (cacheEntry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) Store(key CacheKey, result SearchResult, bound Bound) {
	c.entries[key] = cacheEntry{Result: result, Bound: bound}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = make(map[CacheKey]cacheEntry)
	c.clears++
}

// Trim clears the whole table once it holds more than maxEntries. It reports whether
// a clear happened.
func (c *Cache) Trim() bool {
	if len(c.entries) > c.maxEntries {
		c.Clear()
		return true
	}
	return false
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) MaxEntries() int {
	return c.maxEntries
}

// Clears counts how many times the table has been wiped, for stats.
func (c *Cache) Clears() int {
	return c.clears
}
