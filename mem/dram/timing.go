package dram

import "github.com/sarchlab/memcontention/mem"

// Timing holds the DDR timing parameters, in cycles.
type Timing struct {
	TRCD uint64 // activate to column command
	TRP  uint64 // precharge
	TCAS uint64 // column access
	TRC  uint64 // row cycle
	TWR  uint64 // write recovery
	TRTP uint64 // read to precharge
	TCCD uint64 // column to column

	RowHitLatency uint64
}

// DefaultTiming returns the timing of the reference DDR configuration.
func DefaultTiming() Timing {
	return Timing{
		TRCD: 15,
		TRP:  15,
		TCAS: 15,
		TRC:  30,
		TWR:  15,
		TRTP: 8,
		TCCD: 4,
	}
}

// RowMissLatency is the cost of closing the open row, activating the new one,
// and accessing the column.
func (t Timing) RowMissLatency() uint64 {
	return t.TRP + t.TRCD + t.TCAS
}

// TurnaroundPenalty is the extra delay of an access whose direction differs
// from the previous access to the same bank.
func (t Timing) TurnaroundPenalty(last, next mem.AccessKind) uint64 {
	switch {
	case last == mem.Write && next == mem.Read:
		return t.TWR
	case last == mem.Read && next == mem.Write:
		return t.TWR + 2
	default:
		return 0
	}
}

// recovery is the time a bank needs after an access before it can be
// precharged.
func (t Timing) recovery(last mem.AccessKind) uint64 {
	if last == mem.Write {
		return t.TWR
	}

	return t.TRTP
}
