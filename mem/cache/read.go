package cache

import (
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/cache/internal/mshr"
	"github.com/sarchlab/memcontention/mem/cache/internal/tagging"
)

func (l *Level) handleReadHit(req *mem.Request, block tagging.Block) {
	l.countHit(block.SetID, block.WayID)
	l.logAccess(req, block.SetID, block.WayID, true)
	l.tags.Visit(block)
	l.tagCacheHit(req)
	l.traceReqEnd(req)
}

func (l *Level) handleReadMiss(req *mem.Request) (done bool) {
	victim := l.tags.FindVictim(req.Address)

	l.countMiss(victim.SetID, victim.WayID)
	l.logAccess(req, victim.SetID, victim.WayID, false)
	l.tagCacheMiss(req)

	fill := l.newReqToBottom(req, mem.Read, req.Address)
	if l.sendDown(fill, req) {
		l.traceReqToBottomEnd(fill)
		l.finalizeFill(fill, req)
		l.traceReqEnd(req)

		return true
	}

	l.mustAddEntry(&mshr.Entry{
		Kind:        mshr.Fill,
		ReqToBottom: fill,
		Parent:      req,
	})

	return false
}
