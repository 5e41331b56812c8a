package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var _ = Describe("LogTracer", func() {
	var (
		timeTeller *fakeTimeTeller
		logger     *logrus.Logger
		hook       *test.Hook
		tracer     *LogTracer
	)

	BeforeEach(func() {
		timeTeller = &fakeTimeTeller{}
		logger, hook = test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		tracer = NewLogTracer(timeTeller, logger, AllTasks)
	})

	It("should log the start and the end of a task", func() {
		timeTeller.now = 3
		tracer.StartTask(Task{
			ID:       "1@L2",
			Kind:     "req_in",
			What:     "read",
			Location: "L2",
		})
		timeTeller.now = 48
		tracer.EndTask(Task{ID: "1@L2"})

		entries := hook.AllEntries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Message).To(Equal("task start"))
		Expect(entries[0].Data["cycle"]).To(Equal(uint64(3)))
		Expect(entries[0].Data["where"]).To(Equal("L2"))
		Expect(entries[1].Message).To(Equal("task end"))
		Expect(entries[1].Data["latency"]).To(Equal(uint64(45)))
	})

	It("should log steps of traced tasks only", func() {
		tracer.StartTask(Task{ID: "1", Kind: "req_in", What: "read"})
		tracer.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "hit"}}})
		tracer.StepTask(Task{ID: "2", Steps: []TaskStep{{What: "hit"}}})

		entries := hook.AllEntries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[1].Data["step"]).To(Equal("hit"))
	})

	It("should not log the end of an unknown task", func() {
		tracer.EndTask(Task{ID: "9"})

		Expect(hook.AllEntries()).To(BeEmpty())
	})
})
