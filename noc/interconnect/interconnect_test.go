package interconnect

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
	"go.uber.org/mock/gomock"
)

func newRead(ctx *sim.Context, addr uint64) *mem.Request {
	return mem.RequestBuilder{}.
		WithID(ctx.NewID()).
		WithKind(mem.Read).
		WithAddress(addr).
		WithIssueTime(ctx.Now()).
		Build()
}

var _ = Describe("Interconnect", func() {
	var (
		mockCtrl  *gomock.Controller
		ctx       *sim.Context
		dst       *MockRequestSink
		forwarded []*mem.Request
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ctx = sim.NewContext()
		dst = NewMockRequestSink(mockCtrl)
		forwarded = nil
		dst.EXPECT().Request(gomock.Any()).
			Do(func(req *mem.Request) { forwarded = append(forwarded, req) }).
			AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("without jitter", func() {
		var ic *Interconnect

		BeforeEach(func() {
			ic = MakeBuilder().
				WithContext(ctx).
				WithDestination(dst).
				WithDelay(2).
				WithJitter(0).
				WithBandwidth(2).
				Build("Interconnect")
		})

		It("should hold a request for the base delay", func() {
			req := newRead(ctx, 0)
			ic.Request(req)

			Expect(ic.Tick()).To(BeFalse())
			ctx.Advance()
			Expect(ic.Tick()).To(BeFalse())
			ctx.Advance()
			Expect(ic.Tick()).To(BeTrue())

			Expect(forwarded).To(Equal([]*mem.Request{req}))
			Expect(ic.NumPending()).To(Equal(0))
		})

		It("should forward no more than the bandwidth per cycle", func() {
			reqs := make([]*mem.Request, 5)
			for i := range reqs {
				reqs[i] = newRead(ctx, uint64(i))
				ic.Request(reqs[i])
			}

			ctx.Advance()
			ctx.Advance()

			ic.Tick()
			Expect(forwarded).To(Equal(reqs[:2]))

			ctx.Advance()
			ic.Tick()
			Expect(forwarded).To(Equal(reqs[:4]))

			ctx.Advance()
			ic.Tick()
			Expect(forwarded).To(Equal(reqs))
		})

		It("should forward earlier ready requests first", func() {
			early := newRead(ctx, 0)
			ic.Request(early)
			ctx.Advance()
			late := newRead(ctx, 4)
			ic.Request(late)

			next, ok := ic.nextReadyTime()
			Expect(ok).To(BeTrue())
			Expect(next).To(Equal(uint64(2)))

			ctx.Advance()
			ctx.Advance()
			ic.Tick()

			Expect(forwarded).To(Equal([]*mem.Request{early, late}))
		})

		It("should report an empty queue", func() {
			_, ok := ic.nextReadyTime()

			Expect(ok).To(BeFalse())
		})
	})

	Context("with jitter", func() {
		readyTimes := func(seed int64) []uint64 {
			c := sim.NewContext()
			ic := MakeBuilder().
				WithContext(c).
				WithDestination(dst).
				WithSeed(seed).
				WithJitter(2).
				Build("Interconnect")

			var times []uint64
			for i := 0; i < 20; i++ {
				ic.Request(newRead(c, uint64(i)))
				t, _ := ic.nextReadyTime()
				times = append(times, t)
				for ic.NumPending() > 0 {
					c.Advance()
					ic.Tick()
				}
			}

			return times
		}

		It("should bound the extra delay", func() {
			c := sim.NewContext()
			ic := MakeBuilder().
				WithContext(c).
				WithDestination(dst).
				WithDelay(5).
				WithJitter(2).
				WithBandwidth(100).
				Build("Interconnect")

			for i := 0; i < 50; i++ {
				ic.Request(newRead(c, 0))
			}

			for cycle := uint64(0); cycle < 5; cycle++ {
				ic.Tick()
				c.Advance()
			}
			Expect(forwarded).To(BeEmpty())

			for cycle := 5; cycle <= 7; cycle++ {
				ic.Tick()
				c.Advance()
			}
			Expect(forwarded).To(HaveLen(50))
		})

		It("should be reproducible with the same seed", func() {
			Expect(readyTimes(7)).To(Equal(readyTimes(7)))
		})
	})

	DescribeTable("rejecting invalid configurations",
		func(b Builder) {
			err := b.Validate("Interconnect")

			Expect(errors.Is(err, sim.ErrConfiguration)).To(BeTrue())
			Expect(func() { b.Build("Interconnect") }).To(Panic())
		},
		Entry("no context", MakeBuilder().WithDestination(nil)),
		Entry("zero bandwidth",
			MakeBuilder().WithContext(sim.NewContext()).WithBandwidth(0)),
	)
})
