package tracing

import (
	"log"

	"github.com/sarchlab/memcontention/sim/hooking"
)

// CollectTrace attaches a tracer to a component. A tracer can be attached to
// a component only once.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, h := range domain.Hooks() {
		if th, ok := h.(*traceHook); ok && th.t == tracer {
			log.Panicf("%s already reports to tracer %T", domain.Name(), tracer)
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// traceHook forwards the task hooks of a component to a tracer.
type traceHook struct {
	t Tracer
}

func (h *traceHook) Func(ctx hooking.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosTaskStart:
		h.t.StartTask(task)
	case HookPosTaskStep:
		h.t.StepTask(task)
	case HookPosTaskEnd:
		h.t.EndTask(task)
	}
}
