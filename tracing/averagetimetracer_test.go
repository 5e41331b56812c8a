package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AverageTimeTracer", func() {
	var (
		timeTeller *fakeTimeTeller
		tracer     *AverageTimeTracer
	)

	BeforeEach(func() {
		timeTeller = &fakeTimeTeller{}
		tracer = NewAverageTimeTracer(timeTeller, KindFilter("req_in"))
	})

	It("should average the duration of completed tasks", func() {
		tracer.StartTask(Task{ID: "1", Kind: "req_in", Location: "L2"})
		timeTeller.now = 2
		tracer.StartTask(Task{ID: "2", Kind: "req_in", Location: "DRAM"})
		timeTeller.now = 10
		tracer.EndTask(Task{ID: "1"})
		timeTeller.now = 22
		tracer.EndTask(Task{ID: "2"})

		Expect(tracer.TotalCount()).To(Equal(uint64(2)))
		Expect(tracer.AverageTime()).To(Equal(15.0))
		Expect(tracer.InflightCount()).To(Equal(0))

		Expect(tracer.Locations()).To(Equal([]string{"DRAM", "L2"}))
		mean, count := tracer.AverageTimeAt("DRAM")
		Expect(mean).To(Equal(20.0))
		Expect(count).To(Equal(uint64(1)))
		mean, count = tracer.AverageTimeAt("Core[0]")
		Expect(mean).To(Equal(0.0))
		Expect(count).To(Equal(uint64(0)))
	})

	It("should keep a running mean per component", func() {
		for i, d := range []uint64{3, 5, 10} {
			id := string(rune('a' + i))
			tracer.StartTask(Task{ID: id, Kind: "req_in", Location: "L2"})
			timeTeller.now += d
			tracer.EndTask(Task{ID: id})
		}

		mean, count := tracer.AverageTimeAt("L2")
		Expect(mean).To(BeNumerically("~", 6.0, 1e-9))
		Expect(count).To(Equal(uint64(3)))
	})

	It("should ignore filtered tasks", func() {
		tracer.StartTask(Task{ID: "1", Kind: "req_out"})
		timeTeller.now = 10
		tracer.EndTask(Task{ID: "1"})

		Expect(tracer.TotalCount()).To(Equal(uint64(0)))
		Expect(tracer.AverageTime()).To(Equal(0.0))
	})

	It("should keep unfinished tasks in flight", func() {
		tracer.StartTask(Task{ID: "1", Kind: "req_in"})

		Expect(tracer.InflightCount()).To(Equal(1))
		Expect(tracer.TotalCount()).To(Equal(uint64(0)))
	})
})
