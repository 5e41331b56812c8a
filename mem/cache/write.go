package cache

import (
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/cache/internal/mshr"
	"github.com/sarchlab/memcontention/mem/cache/internal/tagging"
)

func (l *Level) handleWriteHit(req *mem.Request, block tagging.Block) {
	l.countHit(block.SetID, block.WayID)
	l.logAccess(req, block.SetID, block.WayID, true)
	l.tagCacheHit(req)

	block.IsDirty = l.writeBack
	l.tags.Update(block)
	l.tags.Visit(block)

	if !l.writeBack {
		l.postWrite(req.Address, req)
	}

	l.traceReqEnd(req)
}

func (l *Level) handleWriteMiss(req *mem.Request) (done bool) {
	victim := l.tags.FindVictim(req.Address)

	l.countMiss(victim.SetID, victim.WayID)
	l.logAccess(req, victim.SetID, victim.WayID, false)
	l.tagCacheMiss(req)

	if l.writeAllocate {
		l.install(req.Address, l.writeBack, req)

		if !l.writeBack {
			l.postWrite(req.Address, req)
		}

		l.traceReqEnd(req)

		return true
	}

	forward := l.newReqToBottom(req, mem.Write, req.Address)
	if l.sendDown(forward, req) {
		l.traceReqToBottomEnd(forward)
		l.traceReqEnd(req)

		return true
	}

	l.mustAddEntry(&mshr.Entry{
		Kind:        mshr.ForwardedWrite,
		ReqToBottom: forward,
		Parent:      req,
	})

	return false
}
