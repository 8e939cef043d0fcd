package catalog

import "fmt"

// Fixed properties of the private cache hierarchy.
const (
	CacheBlockSize = 64
	L1Assoc        = 8
	L2Assoc        = 16

	// Hit latencies in core cycles, tag and data lookup combined.
	L1HitLatency = 2
	L2HitLatency = 20
)

// CacheSpec describes a two-level private cache hierarchy with split L1
// instruction and data caches.
type CacheSpec struct {
	L1ISize Size
	L1DSize Size
	L2Size  Size

	L1Assoc   int
	L2Assoc   int
	BlockSize int

	L1HitLatency int
	L2HitLatency int
}

// NewCacheSpec parses the L1 and L2 sizes and fills in the fixed parameters.
// The L1 size applies to both the instruction and the data cache.
func NewCacheSpec(l1Size, l2Size string) (CacheSpec, error) {
	l1, err := ParseSize(l1Size)
	if err != nil {
		return CacheSpec{}, fmt.Errorf("l1 size: %w", err)
	}

	l2, err := ParseSize(l2Size)
	if err != nil {
		return CacheSpec{}, fmt.Errorf("l2 size: %w", err)
	}

	spec := CacheSpec{
		L1ISize:      l1,
		L1DSize:      l1,
		L2Size:       l2,
		L1Assoc:      L1Assoc,
		L2Assoc:      L2Assoc,
		BlockSize:    CacheBlockSize,
		L1HitLatency: L1HitLatency,
		L2HitLatency: L2HitLatency,
	}

	if err := spec.Validate(); err != nil {
		return CacheSpec{}, err
	}

	return spec, nil
}

// NumSets returns the number of sets of a cache with the given capacity and
// associativity.
func (s CacheSpec) NumSets(size Size, assoc int) int {
	return int(uint64(size) / uint64(s.BlockSize*assoc))
}

// Validate checks that every cache level holds a whole number of sets.
func (s CacheSpec) Validate() error {
	if s.BlockSize <= 0 || s.L1Assoc <= 0 || s.L2Assoc <= 0 {
		return fmt.Errorf("%w: block size and associativity must be > 0",
			ErrInvalidParameter)
	}

	if s.L1HitLatency <= 0 || s.L2HitLatency <= 0 {
		return fmt.Errorf("%w: hit latencies must be > 0", ErrInvalidParameter)
	}

	levels := []struct {
		name  string
		size  Size
		assoc int
	}{
		{"l1i", s.L1ISize, s.L1Assoc},
		{"l1d", s.L1DSize, s.L1Assoc},
		{"l2", s.L2Size, s.L2Assoc},
	}

	for _, l := range levels {
		setBytes := Size(s.BlockSize * l.assoc)
		if l.size < setBytes || l.size%setBytes != 0 {
			return fmt.Errorf(
				"%w: %s size %s is not a multiple of %d-way sets of %dB blocks",
				ErrInvalidParameter, l.name, l.size, l.assoc, s.BlockSize)
		}
	}

	return nil
}
