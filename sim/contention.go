package sim

import (
	"fmt"

	"github.com/sarchlab/memcontention/mem"
)

// An L2Access records one access to the shared cache.
type L2Access struct {
	Cycle    uint64
	CoreID   int
	Address  uint64
	Op       mem.AccessKind
	SetIndex int

	// Way is the way that hits, or -1 on a miss.
	Way int
	Hit bool
}

// DDRStatus tells how the DDR controller handled a request in a cycle.
type DDRStatus int

// DDR access statuses.
const (
	RowHit DDRStatus = iota
	RowMiss
	Waiting
)

func (s DDRStatus) String() string {
	switch s {
	case RowHit:
		return "ROW HIT"
	case RowMiss:
		return "ROW MISS"
	case Waiting:
		return "waiting"
	default:
		return fmt.Sprintf("DDRStatus(%d)", int(s))
	}
}

// MarshalText encodes the status with its display name.
func (s DDRStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// A DDRAccess records a request that was scheduled, or that was a candidate
// but had to wait, in one controller cycle.
type DDRAccess struct {
	Cycle   uint64
	CoreID  int
	Address uint64
	Op      mem.AccessKind
	Bank    int
	Row     uint64
	Status  DDRStatus
}

// EventKind identifies the shared resource that is contended.
type EventKind int

// Contention event kinds.
const (
	L2CacheContention EventKind = iota
	DDRMemoryContention
)

func (k EventKind) String() string {
	switch k {
	case L2CacheContention:
		return "L2_CACHE_CONTENTION"
	case DDRMemoryContention:
		return "DDR_MEMORY_CONTENTION"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// MarshalText encodes the kind with its display name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Resource returns the name of the contended resource.
func (k EventKind) Resource() string {
	switch k {
	case L2CacheContention:
		return "L2_CACHE"
	case DDRMemoryContention:
		return "DDR_MEMORY"
	default:
		return "UNKNOWN"
	}
}

// L2ContentionDetails lists the accesses that met in the shared cache.
type L2ContentionDetails struct {
	SetIndices []int            `json:"set_indices"`
	Operations []mem.AccessKind `json:"operations"`
	Addresses  []uint64         `json:"addresses"`
	Ways       []int            `json:"ways"`
}

// DDRContentionDetails lists the accesses that met at the DDR controller.
type DDRContentionDetails struct {
	Banks         []int            `json:"banks"`
	Rows          []uint64         `json:"rows"`
	Operations    []mem.AccessKind `json:"operations"`
	Statuses      []DDRStatus      `json:"statuses"`
	BankConflicts bool             `json:"bank_conflicts"`
	RowConflicts  bool             `json:"row_conflicts"`
}

// A ContentionEvent reports that several cores used a shared resource in the
// same cycle. Exactly one of L2 and DDR is set, matching Kind.
type ContentionEvent struct {
	Cycle      uint64                `json:"cycle"`
	Kind       EventKind             `json:"type"`
	Initiators []int                 `json:"initiators"`
	L2         *L2ContentionDetails  `json:"l2,omitempty"`
	DDR        *DDRContentionDetails `json:"ddr,omitempty"`
}
