// Package cache models set-associative cache levels with tree-PLRU
// replacement, and the two-level hierarchy private to a core.
package cache

import (
	"log"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/cache/internal/mshr"
	"github.com/sarchlab/memcontention/mem/cache/internal/tagging"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
)

// LowerLevel is the memory below a cache level. Read and Write return true if
// the access is served before they return. Otherwise, the lower level reports
// the completion later, through the Complete method of its owner.
type LowerLevel interface {
	Read(req *mem.Request) (done bool)
	Write(req *mem.Request) (done bool)
}

// A Level is one level of set-associative cache.
//
// A Level only knows the memory below it: either another Level or a request
// sink such as the interconnect. Completions of the requests it sent down are
// handed to Complete, which returns the requests of the upper level that are
// now served.
type Level struct {
	naming.NamedBase
	hooking.HookableBase

	ctx   *sim.Context
	tags  *tagging.TagArray
	mshr  *mshr.MSHR
	lower LowerLevel
	sink  mem.RequestSink

	writeBack     bool
	writeAllocate bool
	logAccesses   bool

	hits, misses uint64
	hitTable     [][]uint64
	missTable    [][]uint64
}

// Read looks up the address. A hit is served immediately. A miss sends a fill
// request down, and the line is installed when the fill completes.
func (l *Level) Read(req *mem.Request) (done bool) {
	l.traceReqStart(req)

	block, hit := l.tags.Lookup(req.Address)
	if hit {
		l.handleReadHit(req, block)
		return true
	}

	return l.handleReadMiss(req)
}

// Write looks up the address and applies the write policy of the level.
func (l *Level) Write(req *mem.Request) (done bool) {
	l.traceReqStart(req)

	block, hit := l.tags.Lookup(req.Address)
	if hit {
		l.handleWriteHit(req, block)
		return true
	}

	return l.handleWriteMiss(req)
}

// Complete finalizes a request that the level sent down. It returns the
// upper-level request that waited on it, if any. Completing a request that the
// level is not waiting on is a fatal error.
func (l *Level) Complete(reqID string) []mem.Completion {
	entry, err := l.mshr.Remove(reqID)
	if err != nil {
		log.Panic(sim.NewError(sim.ErrQueueInvariantViolation, l.Name(),
			"%s", err.Error()).AtCycle(l.ctx.Now()))
	}

	l.traceReqToBottomEnd(entry.ReqToBottom)

	switch entry.Kind {
	case mshr.Fill:
		l.finalizeFill(entry.ReqToBottom, entry.Parent)
	case mshr.ForwardedWrite:
	case mshr.WriteBack:
		return nil
	}

	l.traceReqEnd(entry.Parent)

	return []mem.Completion{{
		ReqID:  entry.Parent.ID,
		CoreID: entry.Parent.CoreID,
	}}
}

// NumPending returns the number of requests the level is waiting on.
func (l *Level) NumPending() int {
	return l.mshr.Len()
}

// pendingRequests returns the requests sent down and not yet completed, in the
// order they were sent.
func (l *Level) pendingRequests() []*mem.Request {
	entries := l.mshr.Entries()

	reqs := make([]*mem.Request, 0, len(entries))
	for _, e := range entries {
		reqs = append(reqs, e.ReqToBottom)
	}

	return reqs
}

// Contains returns true if the line of the address is valid in the level.
func (l *Level) Contains(addr uint64) bool {
	_, found := l.tags.Lookup(addr)
	return found
}

// IsDirty returns true if the line of the address is valid and dirty.
func (l *Level) IsDirty(addr uint64) bool {
	block, found := l.tags.Lookup(addr)
	return found && block.IsDirty
}

// NumSets returns the number of sets.
func (l *Level) NumSets() int {
	return l.tags.NumSets
}

// NumWays returns the associativity.
func (l *Level) NumWays() int {
	return l.tags.NumWays
}

// Reset invalidates all the lines and clears the statistics. Requests in
// flight are dropped.
func (l *Level) Reset() {
	l.tags.Reset()
	l.mshr.Reset()
	l.hits = 0
	l.misses = 0
	l.hitTable = makeTable(l.tags.NumSets, l.tags.NumWays)
	l.missTable = makeTable(l.tags.NumSets, l.tags.NumWays)
}

func (l *Level) logAccess(req *mem.Request, setID, wayID int, hit bool) {
	if !l.logAccesses {
		return
	}

	if !hit {
		wayID = -1
	}

	l.ctx.LogL2Access(sim.L2Access{
		CoreID:   req.CoreID,
		Address:  req.Address,
		Op:       req.Kind,
		SetIndex: setID,
		Way:      wayID,
		Hit:      hit,
	})
}

func makeTable(numSets, numWays int) [][]uint64 {
	t := make([][]uint64, numSets)
	for i := range t {
		t[i] = make([]uint64, numWays)
	}

	return t
}
