// Package platform assembles two cores, their caches, the interconnect, and
// the DDR memory, and runs them cycle by cycle.
package platform

import (
	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/core"
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/cache"
	"github.com/sarchlab/memcontention/mem/dram"
	"github.com/sarchlab/memcontention/noc/interconnect"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/tracing"
)

// NumCores is the number of cores of a platform.
const NumCores = 2

// Platform is one fresh instance of the simulated hardware. All the
// components share the context of the run.
type Platform struct {
	ctx *sim.Context

	Cores        []*core.Core
	Hierarchies  []*cache.Hierarchy
	L2           *cache.Level
	Interconnect *interconnect.Interconnect
	Controller   *dram.Controller
	Analyzer     *analysis.Analyzer

	ddr *ddrCollector
}

// Tick advances the platform by one cycle. The cores issue first, then the
// interconnect forwards, the DDR controller completes and schedules, the
// device updates its banks, and the analyzer inspects the cycle. The clock
// moves last.
func (p *Platform) Tick() {
	for _, c := range p.Cores {
		c.Tick()
	}

	p.Interconnect.Tick()

	result := p.Controller.Tick()
	p.routeCompletions(result.Completed)

	if d := result.Decision; d != nil {
		p.ddr.add(p.ctx.Now(), d)
		p.Cores[d.CoreID].ObserveCompletionTime(d.CompletionTime)
	}

	p.Controller.Device().Tick()
	p.Analyzer.Tick()
	p.ctx.Advance()
}

// routeCompletions hands the requests that the DDR controller finished to the
// shared cache, and the requests that the shared cache serves in turn to the
// private cache and the core that wait on them.
func (p *Platform) routeCompletions(completed []*mem.Request) {
	for _, req := range completed {
		for _, l2Done := range p.L2.Complete(req.ID) {
			h := p.Hierarchies[l2Done.CoreID]

			for _, l1Done := range h.Complete(l2Done.ReqID) {
				p.Cores[l1Done.CoreID].Complete(l1Done.ReqID)
			}
		}
	}
}

// Components returns every component that has a name, in tick order.
func (p *Platform) Components() []tracing.NamedHookable {
	var comps []tracing.NamedHookable

	for _, c := range p.Cores {
		comps = append(comps, c)
	}

	for _, h := range p.Hierarchies {
		comps = append(comps, h.L1())
	}

	comps = append(comps,
		p.L2,
		p.Interconnect,
		p.Controller,
		p.Controller.Device(),
		p.Analyzer,
	)

	return comps
}
