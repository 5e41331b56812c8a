package cache

import (
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/tracing"
)

func (l *Level) traceReqStart(req *mem.Request) {
	tracing.TraceReqReceive(req, l)
}

func (l *Level) traceReqEnd(req *mem.Request) {
	tracing.TraceReqComplete(req, l)
}

func (l *Level) traceReqToBottomStart(req, cause *mem.Request) {
	tracing.TraceReqInitiate(req, l, tracing.ReqInTaskID(cause, l))
}

func (l *Level) traceReqToBottomEnd(req *mem.Request) {
	tracing.TraceReqFinalize(req, l)
}

func (l *Level) tagCacheHit(req *mem.Request) {
	tracing.AddTaskStep(tracing.ReqInTaskID(req, l), l, "cache_hit")
}

func (l *Level) tagCacheMiss(req *mem.Request) {
	tracing.AddTaskStep(tracing.ReqInTaskID(req, l), l, "cache_miss")
}
