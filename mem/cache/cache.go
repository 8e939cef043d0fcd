// Package cache models the private cache hierarchy of a core.
//
// Caches only track tags. An access returns the number of core cycles it
// takes, which the core model charges to the instruction that issued it.
package cache

import (
	"github.com/sarchlab/roisim/mem/cache/internal/tagging"
	"github.com/sarchlab/roisim/stats"
)

// LowerLevel is anything that can serve cache misses.
type LowerLevel interface {
	// Access returns the latency, in core cycles, of reading or writing the
	// line at addr.
	Access(addr uint64, write bool) int
}

// Cache is a write-back, write-allocate, set-associative cache with LRU
// replacement.
type Cache struct {
	name         string
	blockSize    uint64
	hitLatency   int
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder

	hits       *stats.Counter
	misses     *stats.Counter
	writebacks *stats.Counter
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// HitLatency returns the number of cycles a hit takes.
func (c *Cache) HitLatency() int {
	return c.hitLatency
}

// Size returns the capacity in bytes.
func (c *Cache) Size() uint64 {
	return c.tags.TotalSize()
}

// LineAddr returns the address of the line that holds addr.
func (c *Cache) LineAddr(addr uint64) uint64 {
	return addr / c.blockSize * c.blockSize
}

// Contains tells if the line is in the cache, without touching LRU state.
func (c *Cache) Contains(addr uint64) bool {
	_, ok := c.tags.Lookup(c.LineAddr(addr))
	return ok
}

// Access looks the line up and allocates it on a miss. When a dirty line is
// evicted to make room, its address is returned with dirtyEviction set.
func (c *Cache) Access(
	addr uint64,
	write bool,
) (hit bool, evictedAddr uint64, dirtyEviction bool) {
	lineAddr := c.LineAddr(addr)

	block, hit := c.tags.Lookup(lineAddr)
	if hit {
		c.hits.Inc()
	} else {
		c.misses.Inc()

		block = c.victimFinder.FindVictim(c.tags, lineAddr)
		if block.IsValid && block.IsDirty {
			c.writebacks.Inc()
			evictedAddr = block.Tag
			dirtyEviction = true
		}

		block.Tag = lineAddr
		block.IsValid = true
		block.IsDirty = false
	}

	if write {
		block.IsDirty = true
	}

	c.tags.Update(block)
	c.tags.Visit(block)

	return hit, evictedAddr, dirtyEviction
}

// Invalidate drops every line.
func (c *Cache) Invalidate() {
	c.tags.Reset()
}
