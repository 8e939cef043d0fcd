package tagging

// A VictimFinder decides which block should be evicted.
type VictimFinder interface {
	FindVictim(tags TagArray, addr uint64) Block
}

// LRUVictimFinder evicts the least recently used block.
type LRUVictimFinder struct{}

// NewLRUVictimFinder returns a newly constructed LRU victim finder.
func NewLRUVictimFinder() *LRUVictimFinder {
	return &LRUVictimFinder{}
}

// FindVictim prefers an invalid block and otherwise picks the least recently
// used one.
func (e *LRUVictimFinder) FindVictim(tags TagArray, addr uint64) Block {
	set, _ := tags.GetSet(addr)

	for _, way := range set.LRUQueue {
		if !set.Blocks[way].IsValid {
			return set.Blocks[way]
		}
	}

	return set.Blocks[set.LRUQueue[0]]
}
