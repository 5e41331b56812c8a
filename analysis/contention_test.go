package analysis_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
)

func ddrAccess(core, bank int, row uint64, status sim.DDRStatus) sim.DDRAccess {
	return sim.DDRAccess{
		Cycle:  7,
		CoreID: core,
		Op:     mem.Read,
		Bank:   bank,
		Row:    row,
		Status: status,
	}
}

var _ = Describe("AnalyzeCycle", func() {
	It("should find nothing in an empty cycle", func() {
		Expect(analysis.AnalyzeCycle(3, nil, nil)).To(BeEmpty())
	})

	Context("shared cache", func() {
		It("should ignore a single access", func() {
			l2 := []sim.L2Access{{CoreID: 0, Address: 4}}

			Expect(analysis.AnalyzeCycle(3, l2, nil)).To(BeEmpty())
		})

		It("should ignore accesses of one core", func() {
			l2 := []sim.L2Access{
				{CoreID: 1, Address: 4},
				{CoreID: 1, Address: 8},
			}

			Expect(analysis.AnalyzeCycle(3, l2, nil)).To(BeEmpty())
		})

		It("should report accesses of two cores", func() {
			l2 := []sim.L2Access{
				{CoreID: 1, Address: 4, Op: mem.Write, SetIndex: 1, Way: 3, Hit: true},
				{CoreID: 0, Address: 8, Op: mem.Read, SetIndex: 2, Way: -1},
			}

			events := analysis.AnalyzeCycle(3, l2, nil)

			Expect(events).To(Equal([]sim.ContentionEvent{{
				Cycle:      3,
				Kind:       sim.L2CacheContention,
				Initiators: []int{0, 1},
				L2: &sim.L2ContentionDetails{
					SetIndices: []int{1, 2},
					Operations: []mem.AccessKind{mem.Write, mem.Read},
					Addresses:  []uint64{4, 8},
					Ways:       []int{3, -1},
				},
			}}))
		})
	})

	Context("DDR", func() {
		It("should report two cores on the same bank and row", func() {
			ddr := []sim.DDRAccess{
				ddrAccess(0, 1, 0, sim.RowHit),
				ddrAccess(1, 1, 0, sim.Waiting),
			}

			events := analysis.AnalyzeCycle(7, nil, ddr)

			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(sim.DDRMemoryContention))
			Expect(events[0].Initiators).To(Equal([]int{0, 1}))
			Expect(events[0].DDR.BankConflicts).To(BeTrue())
			Expect(events[0].DDR.RowConflicts).To(BeFalse())
			Expect(events[0].DDR.Statuses).To(Equal(
				[]sim.DDRStatus{sim.RowHit, sim.Waiting}))
		})

		It("should flag different rows of one bank", func() {
			ddr := []sim.DDRAccess{
				ddrAccess(0, 0, 0, sim.RowMiss),
				ddrAccess(1, 0, 1, sim.Waiting),
			}

			events := analysis.AnalyzeCycle(7, nil, ddr)

			Expect(events).To(HaveLen(1))
			Expect(events[0].DDR.RowConflicts).To(BeTrue())
			Expect(events[0].DDR.Rows).To(Equal([]uint64{0, 1}))
		})

		It("should ignore two cores on different banks", func() {
			ddr := []sim.DDRAccess{
				ddrAccess(0, 0, 0, sim.RowMiss),
				ddrAccess(1, 1, 0, sim.Waiting),
			}

			Expect(analysis.AnalyzeCycle(7, nil, ddr)).To(BeEmpty())
		})

		It("should ignore conflicts of a single core", func() {
			ddr := []sim.DDRAccess{
				ddrAccess(1, 0, 0, sim.RowMiss),
				ddrAccess(1, 0, 1, sim.Waiting),
			}

			Expect(analysis.AnalyzeCycle(7, nil, ddr)).To(BeEmpty())
		})

		It("should list one initiator per access", func() {
			ddr := []sim.DDRAccess{
				ddrAccess(1, 0, 0, sim.RowMiss),
				ddrAccess(0, 0, 0, sim.Waiting),
				ddrAccess(1, 2, 0, sim.Waiting),
			}

			events := analysis.AnalyzeCycle(7, nil, ddr)

			Expect(events[0].Initiators).To(Equal([]int{1, 0, 1}))
		})
	})

	It("should put the cache event before the DDR event", func() {
		l2 := []sim.L2Access{{CoreID: 0}, {CoreID: 1}}
		ddr := []sim.DDRAccess{
			ddrAccess(0, 0, 0, sim.RowMiss),
			ddrAccess(1, 0, 0, sim.Waiting),
		}

		events := analysis.AnalyzeCycle(7, l2, ddr)

		Expect(events).To(HaveLen(2))
		Expect(events[0].Kind).To(Equal(sim.L2CacheContention))
		Expect(events[1].Kind).To(Equal(sim.DDRMemoryContention))
	})
})
