package cache

import (
	"log"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/cache/internal/mshr"
	"github.com/sarchlab/memcontention/mem/cache/internal/tagging"
	"github.com/sarchlab/memcontention/sim"
)

func (l *Level) newReqToBottom(
	cause *mem.Request,
	kind mem.AccessKind,
	addr uint64,
) *mem.Request {
	return mem.RequestBuilder{}.
		WithID(l.ctx.NewID()).
		WithParentID(cause.ID).
		WithCoreID(cause.CoreID).
		WithKind(kind).
		WithAddress(addr).
		WithIssueTime(l.ctx.Now()).
		Build()
}

// sendDown hands the request to the memory below and returns true if it is
// served right away.
func (l *Level) sendDown(req, cause *mem.Request) (done bool) {
	l.traceReqToBottomStart(req, cause)

	if l.lower != nil {
		if req.IsRead() {
			return l.lower.Read(req)
		}

		return l.lower.Write(req)
	}

	l.sink.Request(req)

	return false
}

func (l *Level) mustAddEntry(e *mshr.Entry) {
	err := l.mshr.Add(e)
	if err != nil {
		log.Panic(sim.NewError(sim.ErrQueueInvariantViolation, l.Name(),
			"%s", err.Error()).AtCycle(l.ctx.Now()))
	}
}

// postWrite sends a write that no one waits on, such as a write-back of an
// evicted line or a write-through copy.
func (l *Level) postWrite(addr uint64, cause *mem.Request) {
	wb := l.newReqToBottom(cause, mem.Write, addr)
	if l.sendDown(wb, cause) {
		l.traceReqToBottomEnd(wb)
		return
	}

	l.mustAddEntry(&mshr.Entry{
		Kind:        mshr.WriteBack,
		ReqToBottom: wb,
	})
}

func (l *Level) finalizeFill(fill, parent *mem.Request) {
	l.install(fill.Address, false, parent)
}

// install places the line of the address in its set. If the line is already
// there, for example because another fill of the same line completed first,
// the line is only visited. Otherwise the PLRU victim is evicted.
func (l *Level) install(addr uint64, dirty bool, cause *mem.Request) {
	if block, found := l.tags.Lookup(addr); found {
		block.IsDirty = block.IsDirty || dirty
		l.tags.Update(block)
		l.tags.Visit(block)

		return
	}

	victim := l.tags.FindVictim(addr)
	l.evict(victim, cause)

	tag, _, _ := l.tags.Decompose(addr)
	victim.Tag = tag
	victim.IsValid = true
	victim.IsDirty = dirty
	l.tags.Update(victim)
	l.tags.Visit(victim)
}

func (l *Level) evict(victim tagging.Block, cause *mem.Request) {
	if !victim.IsValid || !victim.IsDirty || !l.writeBack {
		return
	}

	l.postWrite(l.tags.Reconstruct(victim.Tag, victim.SetID), cause)
}
