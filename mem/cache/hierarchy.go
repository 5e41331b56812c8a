package cache

import "github.com/sarchlab/memcontention/mem"

// A Hierarchy is the cache hierarchy seen by one core: a private L1 backed by
// the shared L2. Both the hierarchies of a platform point to the same L2.
type Hierarchy struct {
	coreID int
	l1     *Level
	l2     *Level
}

// NewHierarchy creates the hierarchy of a core. The L1 must have been built
// with the L2 as its lower level.
func NewHierarchy(coreID int, l1, l2 *Level) *Hierarchy {
	if l1.lower != l2 {
		panic("L1 must be backed by the shared L2")
	}

	return &Hierarchy{
		coreID: coreID,
		l1:     l1,
		l2:     l2,
	}
}

// CoreID returns the core that owns the hierarchy.
func (h *Hierarchy) CoreID() int {
	return h.coreID
}

// L1 returns the private level.
func (h *Hierarchy) L1() *Level {
	return h.l1
}

// L2 returns the shared level.
func (h *Hierarchy) L2() *Level {
	return h.l2
}

// Read starts a read at the L1.
func (h *Hierarchy) Read(req *mem.Request) (done bool) {
	return h.l1.Read(req)
}

// Write starts a write at the L1.
func (h *Hierarchy) Write(req *mem.Request) (done bool) {
	return h.l1.Write(req)
}

// Complete delivers the completion of a request that the L1 sent to the L2.
// It returns the core requests that are now served.
func (h *Hierarchy) Complete(reqID string) []mem.Completion {
	return h.l1.Complete(reqID)
}

// HierarchyStats are the statistics of the levels seen by a core.
type HierarchyStats struct {
	CoreID int   `json:"core"`
	L1     Stats `json:"l1"`
	L2     Stats `json:"l2"`
}

// Stats returns the statistics of both levels. The L2 figures include the
// accesses of every core.
func (h *Hierarchy) Stats() HierarchyStats {
	return HierarchyStats{
		CoreID: h.coreID,
		L1:     h.l1.Stats(),
		L2:     h.l2.Stats(),
	}
}
