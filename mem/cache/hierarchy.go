package cache

// Hierarchy is a split L1 instruction and data cache backed by a unified L2
// and main memory.
type Hierarchy struct {
	L1I *Cache
	L1D *Cache
	L2  *Cache

	memory LowerLevel
}

// Fetch returns the latency of fetching the instruction line at pc.
func (h *Hierarchy) Fetch(pc uint64) int {
	return h.access(h.L1I, pc, false)
}

// Load returns the latency of reading data at addr.
func (h *Hierarchy) Load(addr uint64) int {
	return h.access(h.L1D, addr, false)
}

// Store returns the latency of writing data at addr.
func (h *Hierarchy) Store(addr uint64) int {
	return h.access(h.L1D, addr, true)
}

// Access lets the hierarchy act as the lower level of another cache.
func (h *Hierarchy) Access(addr uint64, write bool) int {
	if write {
		return h.Store(addr)
	}

	return h.Load(addr)
}

func (h *Hierarchy) access(l1 *Cache, addr uint64, write bool) int {
	latency := l1.HitLatency()

	hit, victim, dirty := l1.Access(addr, write)
	if dirty {
		h.writeBackToL2(victim)
	}

	if hit {
		return latency
	}

	latency += h.L2.HitLatency()

	l2Hit, l2Victim, l2Dirty := h.L2.Access(addr, false)
	if l2Dirty {
		h.memory.Access(l2Victim, true)
	}

	if !l2Hit {
		latency += h.memory.Access(h.L2.LineAddr(addr), false)
	}

	return latency
}

// Write-backs leave the critical path, so their latency is not charged.
func (h *Hierarchy) writeBackToL2(addr uint64) {
	_, victim, dirty := h.L2.Access(addr, true)
	if dirty {
		h.memory.Access(victim, true)
	}
}

// Invalidate empties every cache.
func (h *Hierarchy) Invalidate() {
	h.L1I.Invalidate()
	h.L1D.Invalidate()
	h.L2.Invalidate()
}
