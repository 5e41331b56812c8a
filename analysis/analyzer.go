package analysis

import (
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
)

// HookPosContention marks that the analyzer found a contention event. The
// item of the hook context is the sim.ContentionEvent.
var HookPosContention = &hooking.HookPos{Name: "Contention"}

// An Analyzer inspects the accesses of the current cycle when it ticks. It
// must tick after every component that logs accesses, and before the clock
// advances.
type Analyzer struct {
	naming.NamedBase
	hooking.HookableBase

	ctx *sim.Context
}

// NewAnalyzer creates an analyzer that appends its events to the context.
func NewAnalyzer(name string, ctx *sim.Context) *Analyzer {
	return &Analyzer{
		NamedBase: naming.MakeNamedBase(name),
		ctx:       ctx,
	}
}

// Tick analyzes the current cycle. It returns true if contention was found.
func (a *Analyzer) Tick() (madeProgress bool) {
	events := AnalyzeCycle(
		a.ctx.Now(),
		a.ctx.CycleL2Accesses(),
		a.ctx.CycleDDRAccesses(),
	)
	if len(events) == 0 {
		return false
	}

	a.ctx.AddEvents(events...)

	for _, e := range events {
		a.InvokeHook(hooking.HookCtx{
			Domain: a,
			Pos:    HookPosContention,
			Item:   e,
		})
	}

	return true
}
