package sim_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
)

var _ = Describe("Context", func() {
	var (
		ctx *sim.Context
	)

	BeforeEach(func() {
		ctx = sim.NewContext()
	})

	It("should start at cycle 0 and advance", func() {
		Expect(ctx.Now()).To(Equal(uint64(0)))

		ctx.Advance()
		ctx.Advance()

		Expect(ctx.Now()).To(Equal(uint64(2)))
	})

	It("should generate sequential ids", func() {
		Expect(ctx.NewID()).To(Equal("1"))
		Expect(ctx.NewID()).To(Equal("2"))
	})

	It("should stamp accesses with the current cycle", func() {
		ctx.Advance()
		ctx.LogL2Access(sim.L2Access{CoreID: 1, Address: 4, Op: mem.Read, Way: -1})
		ctx.LogDDRAccess(sim.DDRAccess{CoreID: 0, Bank: 2, Status: sim.RowMiss})

		Expect(ctx.L2Accesses()).To(HaveLen(1))
		Expect(ctx.L2Accesses()[0].Cycle).To(Equal(uint64(1)))
		Expect(ctx.DDRAccesses()[0].Cycle).To(Equal(uint64(1)))
	})

	It("should only return the accesses of the current cycle", func() {
		ctx.LogL2Access(sim.L2Access{CoreID: 0})
		ctx.LogDDRAccess(sim.DDRAccess{CoreID: 0})
		ctx.Advance()
		ctx.LogL2Access(sim.L2Access{CoreID: 1})

		Expect(ctx.CycleL2Accesses()).To(HaveLen(1))
		Expect(ctx.CycleL2Accesses()[0].CoreID).To(Equal(1))
		Expect(ctx.CycleDDRAccesses()).To(BeEmpty())
		Expect(ctx.L2Accesses()).To(HaveLen(2))
	})

	It("should clear everything on reset", func() {
		ctx.Advance()
		ctx.LogL2Access(sim.L2Access{})
		ctx.AddEvents(sim.ContentionEvent{Kind: sim.L2CacheContention})

		ctx.Reset()

		Expect(ctx.Now()).To(BeZero())
		Expect(ctx.L2Accesses()).To(BeEmpty())
		Expect(ctx.Events()).To(BeEmpty())
	})
})

var _ = Describe("Error", func() {
	It("should match its kind", func() {
		err := sim.NewError(sim.ErrConfiguration, "L1",
			"associativity %d is not a power of two", 3)

		Expect(errors.Is(err, sim.ErrConfiguration)).To(BeTrue())
		Expect(errors.Is(err, sim.ErrInvalidAddress)).To(BeFalse())
		Expect(err.Error()).To(Equal(
			"configuration error: L1: associativity 3 is not a power of two"))
	})

	It("should report the cycle", func() {
		err := sim.NewError(sim.ErrQueueInvariantViolation, "L2",
			"unknown request %s", "9").
			AtCycle(12)

		Expect(err.Error()).To(Equal(
			"queue invariant violation: L2 at cycle 12: unknown request 9"))
	})
})

var _ = Describe("Display names", func() {
	It("should name statuses and events like the analysis reports", func() {
		Expect(sim.RowHit.String()).To(Equal("ROW HIT"))
		Expect(sim.RowMiss.String()).To(Equal("ROW MISS"))
		Expect(sim.Waiting.String()).To(Equal("waiting"))
		Expect(sim.L2CacheContention.String()).To(Equal("L2_CACHE_CONTENTION"))
		Expect(sim.DDRMemoryContention.Resource()).To(Equal("DDR_MEMORY"))
	})
})
