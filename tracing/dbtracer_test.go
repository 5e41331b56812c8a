package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *fakeTimeTeller
		backend    *MockDataRecorder
		tracer     *DBTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = &fakeTimeTeller{}
		backend = NewMockDataRecorder(mockCtrl)
		backend.EXPECT().CreateTable(TraceTableName, taskTableEntry{})
		tracer = NewDBTracer(timeTeller, backend)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	task := func(id string) Task {
		return Task{ID: id, Kind: "req_in", What: "read", Location: "L2"}
	}

	It("should panic if the task misses fields", func() {
		Expect(func() { tracer.StartTask(Task{ID: "1"}) }).To(Panic())
	})

	It("should write a task when it ends", func() {
		timeTeller.now = 5
		tracer.StartTask(task("1"))
		timeTeller.now = 9

		backend.EXPECT().InsertData(TraceTableName, taskTableEntry{
			ID:        "1",
			Kind:      "req_in",
			What:      "read",
			Location:  "L2",
			StartTime: 5,
			EndTime:   9,
			Completed: true,
		})

		tracer.EndTask(Task{ID: "1"})
	})

	It("should skip tasks that start after the time range", func() {
		tracer.SetTimeRange(0, 10)
		timeTeller.now = 11
		tracer.StartTask(task("1"))
		tracer.EndTask(Task{ID: "1"})
	})

	It("should skip tasks that end before the time range", func() {
		tracer.SetTimeRange(20, 0)
		tracer.StartTask(task("1"))
		timeTeller.now = 5
		tracer.EndTask(Task{ID: "1"})
	})

	It("should write unfinished tasks at termination", func() {
		tracer.StartTask(task("1"))
		timeTeller.now = 30

		backend.EXPECT().InsertData(TraceTableName, taskTableEntry{
			ID:        "1",
			Kind:      "req_in",
			What:      "read",
			Location:  "L2",
			StartTime: 0,
			EndTime:   30,
			Completed: false,
		})
		backend.EXPECT().Flush()

		tracer.Terminate()
		tracer.Terminate()
	})
})
