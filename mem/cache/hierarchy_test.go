package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Hierarchy", func() {
	var (
		mockCtrl *gomock.Controller
		ctx      *sim.Context
		sink     *MockRequestSink
		sent     []*mem.Request
		l2       *Level
		h0, h1   *Hierarchy
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ctx = sim.NewContext()
		sink = NewMockRequestSink(mockCtrl)
		sent = nil
		sink.EXPECT().Request(gomock.Any()).
			Do(func(req *mem.Request) { sent = append(sent, req) }).
			AnyTimes()

		l2 = MakeBuilder().
			WithContext(ctx).
			WithTotalByteSize(512).
			WithWayAssociativity(16).
			WithAccessLogging().
			WithSink(sink).
			Build("L2")

		l1Builder := MakeBuilder().WithContext(ctx).WithLowerLevel(l2)
		h0 = NewHierarchy(0, l1Builder.Build("Core[0].L1"), l2)
		h1 = NewHierarchy(1, l1Builder.Build("Core[1].L1"), l2)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should refuse an L1 that is not backed by the L2", func() {
		other := MakeBuilder().WithContext(ctx).WithSink(sink).Build("L1")

		Expect(func() { NewHierarchy(0, other, l2) }).To(Panic())
	})

	It("should share the L2 between cores", func() {
		Expect(h0.L2()).To(BeIdenticalTo(h1.L2()))
		Expect(h0.L1()).NotTo(BeIdenticalTo(h1.L1()))
	})

	It("should route a completion from the L2 back to the core", func() {
		req := newReq(ctx, 0, mem.Read, 20)

		Expect(h0.Read(req)).To(BeFalse())
		Expect(sent).To(HaveLen(1))

		fromL2 := l2.Complete(sent[0].ID)
		Expect(fromL2).To(HaveLen(1))
		Expect(fromL2[0].CoreID).To(Equal(0))

		fromL1 := h0.Complete(fromL2[0].ReqID)
		Expect(fromL1).To(Equal([]mem.Completion{{ReqID: req.ID, CoreID: 0}}))
	})

	It("should let a core hit on a line that the other core brought in", func() {
		h0.Read(newReq(ctx, 0, mem.Read, 20))
		fromL2 := l2.Complete(sent[0].ID)
		h0.Complete(fromL2[0].ReqID)

		Expect(h1.Read(newReq(ctx, 1, mem.Read, 20))).To(BeTrue())

		stats := h1.Stats()
		Expect(stats.CoreID).To(Equal(1))
		Expect(stats.L1.Misses).To(Equal(uint64(1)))
		Expect(stats.L2.Hits).To(Equal(uint64(1)))
		Expect(stats.L2.Misses).To(Equal(uint64(1)))

		log := ctx.L2Accesses()
		Expect(log).To(HaveLen(2))
		Expect(log[0].CoreID).To(Equal(0))
		Expect(log[1].CoreID).To(Equal(1))
		Expect(log[1].Hit).To(BeTrue())
	})

	It("should write back a dirty L1 line into the L2", func() {
		h0.Write(newReq(ctx, 0, mem.Write, 0))
		Expect(h0.L1().IsDirty(0)).To(BeTrue())

		// Lines 0, 16 and 32 share set 0 of the 2-way L1.
		for _, addr := range []uint64{16, 32} {
			h0.Read(newReq(ctx, 0, mem.Read, addr))
			fromL2 := l2.Complete(sent[len(sent)-1].ID)
			h0.Complete(fromL2[0].ReqID)
		}

		Expect(h0.L1().Contains(0)).To(BeFalse())
		Expect(l2.IsDirty(0)).To(BeTrue())
	})
})
