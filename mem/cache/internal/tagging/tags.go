package tagging

import "log"

// A Block of a cache is the information that is associated with a cache line.
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
	IsDirty bool
}

// A Set is a list of blocks where a certain piece of memory can be stored,
// together with the replacement state of the set.
type Set struct {
	Blocks []Block
	PLRU   *PLRU
}

// TagArray holds the tags of a set-associative cache.
//
// An address is split as [ tag ][ set ][ offset ], where
// set = (addr / BlockSize) % NumSets and tag = addr / (BlockSize * NumSets).
type TagArray struct {
	NumSets   int
	NumWays   int
	BlockSize int
	Sets      []Set
}

// NewTagArray creates a tag array with all the blocks invalid.
func NewTagArray(numSets, numWays, blockSize int) *TagArray {
	t := &TagArray{
		NumSets:   numSets,
		NumWays:   numWays,
		BlockSize: blockSize,
	}

	t.Reset()

	return t
}

// TotalSize returns the maximum number of bytes can be stored in the cache.
func (t *TagArray) TotalSize() uint64 {
	return uint64(t.NumSets) * uint64(t.NumWays) * uint64(t.BlockSize)
}

// Decompose splits an address into its tag, set index and offset.
func (t *TagArray) Decompose(addr uint64) (tag uint64, setID int, offset uint64) {
	blockSize := uint64(t.BlockSize)
	numSets := uint64(t.NumSets)

	tag = addr / (blockSize * numSets)
	setID = int(addr / blockSize % numSets)
	offset = addr % blockSize

	return tag, setID, offset
}

// Reconstruct returns the address of the first byte of the line identified by
// the tag and the set index.
func (t *TagArray) Reconstruct(tag uint64, setID int) uint64 {
	return (tag*uint64(t.NumSets) + uint64(setID)) * uint64(t.BlockSize)
}

// GetSet returns the set that an address maps to.
func (t *TagArray) GetSet(addr uint64) (set *Set, setID int) {
	_, setID, _ = t.Decompose(addr)

	return &t.Sets[setID], setID
}

// Lookup finds the valid block that holds the address.
func (t *TagArray) Lookup(addr uint64) (Block, bool) {
	tag, _, _ := t.Decompose(addr)
	set, _ := t.GetSet(addr)

	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

// Update writes the block information back to the array. A set never holds two
// valid blocks with the same tag.
func (t *TagArray) Update(block Block) {
	set := &t.Sets[block.SetID]

	if block.IsValid {
		for _, other := range set.Blocks {
			if other.WayID != block.WayID && other.IsValid &&
				other.Tag == block.Tag {
				log.Panicf("set %d already holds tag %d in way %d",
					block.SetID, block.Tag, other.WayID)
			}
		}
	}

	set.Blocks[block.WayID] = block
}

// Visit marks the block as the most recently used one of its set.
func (t *TagArray) Visit(block Block) {
	t.Sets[block.SetID].PLRU.Visit(block.WayID)
}

// FindVictim returns the block that the set of the address would evict next.
func (t *TagArray) FindVictim(addr uint64) Block {
	set, _ := t.GetSet(addr)

	return set.Blocks[set.PLRU.FindVictim()]
}

// Reset marks all the blocks in the array invalid.
func (t *TagArray) Reset() {
	t.Sets = make([]Set, t.NumSets)
	for i := 0; i < t.NumSets; i++ {
		t.Sets[i].PLRU = NewPLRU(t.NumWays)

		for j := 0; j < t.NumWays; j++ {
			t.Sets[i].Blocks = append(t.Sets[i].Blocks, Block{
				SetID: i,
				WayID: j,
			})
		}
	}
}
