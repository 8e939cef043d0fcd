// Package tagging keeps track of which memory lines a set-associative cache
// holds.
package tagging

// TagArray is the directory of a set-associative cache.
type TagArray interface {
	Lookup(lineAddr uint64) (Block, bool)
	Update(block Block)
	Visit(block Block)
	GetSet(addr uint64) (set *Set, setID int)
	TotalSize() uint64
	Reset()
}

// NewTagArray creates a tag array with every block invalid.
func NewTagArray(numSets, numWays, blockSize int) TagArray {
	if numSets <= 0 || numWays <= 0 || blockSize <= 0 {
		panic("tag array dimensions must be positive")
	}

	t := &tagArrayImpl{
		NumSets:   numSets,
		NumWays:   numWays,
		BlockSize: blockSize,
	}

	t.Reset()

	return t
}

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag     uint64
	WayID   int
	SetID   int
	IsValid bool
	IsDirty bool
}

// A Set is a list of blocks where a certain piece memory can be stored at.
// LRUQueue lists way IDs from the least to the most recently used.
type Set struct {
	Blocks   []Block
	LRUQueue []int
}

type tagArrayImpl struct {
	NumSets   int
	NumWays   int
	BlockSize int
	Sets      []Set
}

// TotalSize returns the maximum number of bytes can be stored in the cache
func (d *tagArrayImpl) TotalSize() uint64 {
	return uint64(d.NumSets) * uint64(d.NumWays) * uint64(d.BlockSize)
}

// GetSet returns the set that an address maps to.
func (d *tagArrayImpl) GetSet(addr uint64) (set *Set, setID int) {
	setID = int(addr / uint64(d.BlockSize) % uint64(d.NumSets))
	set = &d.Sets[setID]

	return
}

// Lookup finds the valid block that holds the line.
func (d *tagArrayImpl) Lookup(lineAddr uint64) (Block, bool) {
	set, _ := d.GetSet(lineAddr)
	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == lineAddr {
			return block, true
		}
	}

	return Block{}, false
}

// Update overwrites the block at the block's set and way.
func (d *tagArrayImpl) Update(block Block) {
	d.Sets[block.SetID].Blocks[block.WayID] = block
}

// Visit marks the block as the most recently used of its set.
func (d *tagArrayImpl) Visit(block Block) {
	set := &d.Sets[block.SetID]

	queue := set.LRUQueue[:0]
	for _, way := range set.LRUQueue {
		if way != block.WayID {
			queue = append(queue, way)
		}
	}

	set.LRUQueue = append(queue, block.WayID)
}

// Reset invalidates every block.
func (d *tagArrayImpl) Reset() {
	d.Sets = make([]Set, d.NumSets)
	for i := 0; i < d.NumSets; i++ {
		d.Sets[i].Blocks = make([]Block, d.NumWays)
		d.Sets[i].LRUQueue = make([]int, d.NumWays)

		for j := 0; j < d.NumWays; j++ {
			d.Sets[i].Blocks[j] = Block{SetID: i, WayID: j}
			d.Sets[i].LRUQueue[j] = j
		}
	}
}
