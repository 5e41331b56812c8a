package analysis_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
)

type eventCollector struct {
	events []sim.ContentionEvent
}

func (c *eventCollector) collect(ctx hooking.HookCtx) {
	c.events = append(c.events, ctx.Item.(sim.ContentionEvent))
}

var _ = Describe("Analyzer", func() {
	var (
		ctx       *sim.Context
		analyzer  *analysis.Analyzer
		collector *eventCollector
	)

	BeforeEach(func() {
		ctx = sim.NewContext()
		analyzer = analysis.NewAnalyzer("Analyzer", ctx)
		collector = &eventCollector{}
		analyzer.AcceptHook(
			hooking.At(analysis.HookPosContention, collector.collect))
	})

	It("should only look at the current cycle", func() {
		ctx.LogL2Access(sim.L2Access{CoreID: 0})
		ctx.Advance()
		ctx.LogL2Access(sim.L2Access{CoreID: 1})

		Expect(analyzer.Tick()).To(BeFalse())
		Expect(ctx.Events()).To(BeEmpty())
	})

	It("should record and announce the events", func() {
		ctx.Advance()
		ctx.LogL2Access(sim.L2Access{CoreID: 0})
		ctx.LogL2Access(sim.L2Access{CoreID: 1})

		Expect(analyzer.Tick()).To(BeTrue())

		Expect(ctx.Events()).To(HaveLen(1))
		Expect(ctx.Events()[0].Cycle).To(Equal(uint64(1)))
		Expect(collector.events).To(Equal(ctx.Events()))
	})
})

var _ = Describe("Report", func() {
	It("should be empty without events", func() {
		r := analysis.Summarize(nil)

		Expect(r.TotalEvents).To(Equal(0))
		Expect(r.L2ContentionCycles).To(BeEmpty())
		Expect(r.DDRContentionCycles).To(BeEmpty())
	})

	It("should sort the contention cycles by resource", func() {
		events := []sim.ContentionEvent{
			{Cycle: 9, Kind: sim.DDRMemoryContention},
			{Cycle: 4, Kind: sim.L2CacheContention},
			{Cycle: 2, Kind: sim.DDRMemoryContention},
			{Cycle: 4, Kind: sim.DDRMemoryContention},
		}

		r := analysis.Summarize(events)

		Expect(r.TotalEvents).To(Equal(4))
		Expect(r.L2ContentionCycles).To(Equal([]uint64{4}))
		Expect(r.DDRContentionCycles).To(Equal([]uint64{2, 4, 9}))
	})

	It("should find the same events over whole-run logs", func() {
		l2 := []sim.L2Access{
			{Cycle: 5, CoreID: 0},
			{Cycle: 1, CoreID: 0},
			{Cycle: 5, CoreID: 1},
			{Cycle: 1, CoreID: 1},
		}
		ddr := []sim.DDRAccess{
			{Cycle: 3, CoreID: 0, Bank: 2, Row: 0},
			{Cycle: 3, CoreID: 1, Bank: 2, Row: 1},
		}

		events := analysis.Analyze(l2, ddr)

		Expect(events).To(HaveLen(3))
		Expect(events[0].Cycle).To(Equal(uint64(1)))
		Expect(events[1].Cycle).To(Equal(uint64(5)))
		Expect(events[2].Kind).To(Equal(sim.DDRMemoryContention))
		Expect(events[2].DDR.RowConflicts).To(BeTrue())
	})

	It("should agree with the analyzer over a whole run", func() {
		ctx := sim.NewContext()
		analyzer := analysis.NewAnalyzer("Analyzer", ctx)

		for cycle := 0; cycle < 8; cycle++ {
			ctx.LogL2Access(sim.L2Access{CoreID: cycle % 2})
			if cycle%3 == 0 {
				ctx.LogL2Access(sim.L2Access{CoreID: 1})
				ctx.LogDDRAccess(sim.DDRAccess{CoreID: 0, Bank: 1, Row: 0})
				ctx.LogDDRAccess(sim.DDRAccess{CoreID: 1, Bank: 1, Row: 1})
			}

			analyzer.Tick()
			ctx.Advance()
		}

		r := analysis.AnalyzeContext(ctx)

		Expect(r).To(Equal(analysis.Summarize(ctx.Events())))
		Expect(r.TotalEvents).To(Equal(5))
		Expect(r.L2ContentionCycles).To(Equal([]uint64{0, 6}))
		Expect(r.DDRContentionCycles).To(Equal([]uint64{0, 3, 6}))
	})
})
