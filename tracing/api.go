// Package tracing lets components report the tasks they work on, and lets
// tracers collect those tasks.
package tracing

import (
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	naming.Named
	hooking.Hookable
	InvokeHook(hooking.HookCtx)
}

// A list of hook poses for the hooks to apply to
var (
	HookPosTaskStart = &hooking.HookPos{Name: "HookPosTaskStart"}
	HookPosTaskStep  = &hooking.HookPos{Name: "HookPosTaskStep"}
	HookPosTaskEnd   = &hooking.HookPos{Name: "HookPosTaskEnd"}
)

// StartTask notifies the hooks that hook to the domain about the start of a
// task.
func StartTask(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail any,
) {
	if domain.NumHooks() == 0 {
		return
	}

	allRequiredFieldsMustBeNotEmpty(id, kind, what)
	domainMustHaveName(domain)

	task := Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Location: domain.Name(),
		Detail:   detail,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   task,
		Pos:    HookPosTaskStart,
	}
	domain.InvokeHook(ctx)
}

func allRequiredFieldsMustBeNotEmpty(id, kind, what string) {
	if id == "" {
		panic("id must not be empty")
	}

	if kind == "" {
		panic("kind must not be empty")
	}

	if what == "" {
		panic("what must not be empty")
	}
}

func domainMustHaveName(domain NamedHookable) {
	if domain.Name() == "" {
		panic("domain must have a name")
	}
}

// AddTaskStep marks that a milestone has been reached when processing a task.
func AddTaskStep(
	id string,
	domain NamedHookable,
	what string,
) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID:    id,
		Steps: []TaskStep{{What: what}},
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   task,
		Pos:    HookPosTaskStep,
	}
	domain.InvokeHook(ctx)
}

// EndTask notifies the hooks about the end of a task.
func EndTask(
	id string,
	domain NamedHookable,
) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID: id,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   task,
		Pos:    HookPosTaskEnd,
	}
	domain.InvokeHook(ctx)
}

// ReqInTaskID is the ID of the task of serving a request at the domain that
// receives it.
func ReqInTaskID(req *mem.Request, domain NamedHookable) string {
	return req.ID + "@" + domain.Name()
}

// ReqOutTaskID is the ID of the task of waiting for a request at the domain
// that sends it.
func ReqOutTaskID(req *mem.Request) string {
	return req.ID + "_req_out"
}

// TraceReqInitiate starts the task of a request that the domain sends. The
// parent task is usually the request that caused it.
func TraceReqInitiate(
	req *mem.Request,
	domain NamedHookable,
	taskParentID string,
) {
	StartTask(
		ReqOutTaskID(req),
		taskParentID,
		domain,
		"req_out",
		req.Kind.String(),
		req,
	)
}

// TraceReqReceive starts the task of serving a request. The kind of the task
// is always "req_in".
func TraceReqReceive(
	req *mem.Request,
	domain NamedHookable,
) {
	StartTask(
		ReqInTaskID(req, domain),
		ReqOutTaskID(req),
		domain,
		"req_in",
		req.Kind.String(),
		req,
	)
}

// TraceReqComplete ends the task of serving a request.
func TraceReqComplete(
	req *mem.Request,
	domain NamedHookable,
) {
	EndTask(ReqInTaskID(req, domain), domain)
}

// TraceReqFinalize ends the task of a request that the domain sent. It is
// called when the sender learns that the request is served.
func TraceReqFinalize(
	req *mem.Request,
	domain NamedHookable,
) {
	EndTask(ReqOutTaskID(req), domain)
}
