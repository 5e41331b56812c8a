package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
)

type sampleComponent struct {
	naming.NamedBase

	Pending int
}

func (c *sampleComponent) NumPending() int {
	return c.Pending
}

type fixedTime uint64

func (t fixedTime) Now() uint64 {
	return uint64(t)
}

var _ = Describe("Monitor", func() {
	var (
		m       *Monitor
		handler http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	BeforeEach(func() {
		m = NewMonitor()
		m.RegisterRun(fixedTime(42))
		m.RegisterComponent(&sampleComponent{
			NamedBase: naming.MakeNamedBase("L2"),
			Pending:   1,
		})
		m.RegisterComponent(&sampleComponent{
			NamedBase: naming.MakeNamedBase("DRAM"),
			Pending:   3,
		})
		handler = m.Handler()
	})

	It("should fall back to a random port below 1000", func() {
		Expect(m.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(m.WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should report the current cycle", func() {
		var rsp nowRsp

		decode(get("/api/now"), &rsp)

		Expect(rsp).To(Equal(nowRsp{Now: 42}))
	})

	It("should list the components", func() {
		var names []string

		decode(get("/api/list_components"), &names)

		Expect(names).To(Equal([]string{"L2", "DRAM"}))
	})

	It("should forget the components of a previous run", func() {
		m.RegisterRun(fixedTime(0))

		var names []string
		decode(get("/api/list_components"), &names)

		Expect(names).To(BeEmpty())
	})

	It("should list the pending requests, the fullest first", func() {
		var rsp []pendingRsp

		decode(get("/api/pending"), &rsp)

		Expect(rsp).To(Equal([]pendingRsp{
			{Component: "DRAM", Pending: 3},
			{Component: "L2", Pending: 1},
		}))
	})

	It("should answer 404 for an unknown component", func() {
		Expect(get("/api/component/L3").Code).To(Equal(http.StatusNotFound))
	})

	It("should serialize a component", func() {
		rec := get("/api/component/DRAM")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should reject a malformed field request", func() {
		Expect(get("/api/field/notjson").Code).To(Equal(http.StatusBadRequest))
	})

	Context("contention events", func() {
		BeforeEach(func() {
			for cycle := uint64(1); cycle <= 3; cycle++ {
				m.Func(hooking.HookCtx{
					Pos: analysis.HookPosContention,
					Item: sim.ContentionEvent{
						Cycle: cycle,
						Kind:  sim.L2CacheContention,
					},
				})
			}

			m.Func(hooking.HookCtx{Pos: &hooking.HookPos{Name: "Other"}})
		})

		It("should list the collected events", func() {
			var events []map[string]any

			decode(get("/api/events"), &events)

			Expect(events).To(HaveLen(3))
		})

		It("should keep the latest events within the limit", func() {
			var events []map[string]any

			decode(get("/api/events?limit=2"), &events)

			Expect(events).To(HaveLen(2))
			Expect(events[0]["cycle"]).To(BeEquivalentTo(2))
			Expect(events[1]["type"]).To(Equal("L2_CACHE_CONTENTION"))
		})

		It("should reject an invalid limit", func() {
			Expect(get("/api/events?limit=-1").Code).
				To(Equal(http.StatusBadRequest))
		})
	})

	It("should block the simulation while paused", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))

		released := make(chan struct{})
		go func() {
			m.WaitIfPaused()
			close(released)
		}()

		Consistently(released, 50*time.Millisecond).ShouldNot(BeClosed())

		get("/api/continue")

		Eventually(released).Should(BeClosed())
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("run", 10)
		bar.Advance(3)

		var bars []map[string]any
		decode(get("/api/progress"), &bars)

		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("run"))
		Expect(bars[0]["simulated"]).To(BeEquivalentTo(3))
		Expect(bars[0]["total"]).To(BeEquivalentTo(10))
		Expect(bars[0]["remaining"]).To(BeNumerically(">=", 0))

		bar.Advance(20)
		Expect(bar.Simulated()).To(Equal(uint64(10)))

		m.CompleteProgressBar(bar)
		decode(get("/api/progress"), &bars)

		Expect(bars).To(BeEmpty())
	})

	It("should not open a browser before the server starts", func() {
		Expect(m.OpenBrowser()).NotTo(Succeed())
	})
})
