package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memcontention/sim/hooking"
	"go.uber.org/mock/gomock"
)

var _ = Describe("TraceHook", func() {
	var (
		mockCtrl *gomock.Controller
		tracer   *MockTracer
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
		domain = NewMockNamedHookable(mockCtrl)
		domain.EXPECT().Name().Return("domain").AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should register a hook", func() {
		domain.EXPECT().Hooks().Return(nil)
		domain.EXPECT().AcceptHook(gomock.Any())

		CollectTrace(domain, tracer)
	})

	It("should not register the same tracer twice", func() {
		existing := &traceHook{t: tracer}
		domain.EXPECT().Hooks().Return([]hooking.Hook{existing})

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})

	It("should dispatch tasks by position", func() {
		h := &traceHook{t: tracer}
		task := Task{ID: "1"}

		tracer.EXPECT().StartTask(task)
		tracer.EXPECT().StepTask(task)
		tracer.EXPECT().EndTask(task)

		h.Func(hooking.HookCtx{Pos: HookPosTaskStart, Item: task})
		h.Func(hooking.HookCtx{Pos: HookPosTaskStep, Item: task})
		h.Func(hooking.HookCtx{Pos: HookPosTaskEnd, Item: task})
	})

	It("should ignore items that are not tasks", func() {
		h := &traceHook{t: tracer}

		h.Func(hooking.HookCtx{Pos: HookPosTaskStart, Item: "not a task"})
	})
})
