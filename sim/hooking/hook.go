// Package hooking lets observers such as tracers and monitors watch the
// components of a platform. A component invokes its hooks at named positions
// and does not know what the hooks do.
package hooking

import "log"

// A HookPos names a place in a component where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx describes one invocation of the hooks.
type HookCtx struct {
	// Domain is the component that invokes the hooks.
	Domain Hookable
	Pos    *HookPos

	// Item is what the invocation is about, such as a task or a contention
	// event. Detail carries optional extra information.
	Item   any
	Detail any
}

// Hookable is a component that hooks can be attached to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// A Hook is invoked by the components it is attached to.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase implements Hookable. Components embed it and call InvokeHook.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook attaches a hook. Attaching the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, existing := range h.hooks {
		if existing == hook {
			log.Panicf("hook %v is already attached", hook)
		}
	}

	h.hooks = append(h.hooks, hook)
}

// NumHooks returns the number of hooks attached.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns the hooks attached, in the order they were attached.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// InvokeHook calls every hook attached, in the order they were attached.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

type posHook struct {
	pos *HookPos
	fn  func(ctx HookCtx)
}

func (h *posHook) Func(ctx HookCtx) {
	if ctx.Pos == h.pos {
		h.fn(ctx)
	}
}

// At returns a hook that calls fn only for the invocations at pos.
func At(pos *HookPos, fn func(ctx HookCtx)) Hook {
	return &posHook{pos: pos, fn: fn}
}
