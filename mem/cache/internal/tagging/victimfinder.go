package tagging

import (
	"log"
	"math/bits"
)

// A VictimFinder keeps the replacement state of one set and decides which way
// should be evicted.
type VictimFinder interface {
	Visit(way int)
	FindVictim() int
}

// PLRU is a tree-based pseudo least-recently-used victim finder. An n-way set
// uses n-1 bits. Each bit is an internal node of a binary tree whose leaves are
// the ways, and points to the subtree that holds the next victim (0 for left,
// 1 for right).
//
//	       bit 0
//	     /       \
//	  bit 1     bit 2
//	  /   \     /   \
//	way0 way1 way2 way3
type PLRU struct {
	numWays   int
	numLevels int
	bits      []uint8
}

// NewPLRU creates the replacement state of a set with numWays ways. The number
// of ways must be a power of two.
func NewPLRU(numWays int) *PLRU {
	if numWays <= 0 || numWays&(numWays-1) != 0 {
		log.Panicf("PLRU requires a power-of-two number of ways, got %d",
			numWays)
	}

	return &PLRU{
		numWays:   numWays,
		numLevels: bits.Len(uint(numWays)) - 1,
		bits:      make([]uint8, numWays-1),
	}
}

// Visit marks the way as the most recently used one. Every node on the path
// from the root to the way is flipped to point away from it.
func (p *PLRU) Visit(way int) {
	if way < 0 || way >= p.numWays {
		log.Panicf("way %d out of range [0, %d)", way, p.numWays)
	}

	idx := 0
	for level := 0; level < p.numLevels; level++ {
		direction := (way >> (p.numLevels - 1 - level)) & 1
		p.bits[idx] = uint8(1 - direction)
		idx = 2*idx + 1 + direction
	}
}

// FindVictim follows the bits from the root and returns the way it reaches.
func (p *PLRU) FindVictim() int {
	idx := 0
	way := 0

	for level := 0; level < p.numLevels; level++ {
		direction := int(p.bits[idx])
		way = way<<1 | direction
		idx = 2*idx + 1 + direction
	}

	return way
}

// Bits returns a copy of the tree bits, root first.
func (p *PLRU) Bits() []uint8 {
	return append([]uint8(nil), p.bits...)
}

// Reset points every node to the left.
func (p *PLRU) Reset() {
	for i := range p.bits {
		p.bits[i] = 0
	}
}
