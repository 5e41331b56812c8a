package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingHook struct {
	name  string
	order *[]string
	ctxs  []HookCtx
}

func (h *countingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)

	if h.order != nil {
		*h.order = append(*h.order, h.name)
	}
}

var (
	posA = &HookPos{Name: "A"}
	posB = &HookPos{Name: "B"}
)

var _ = Describe("HookableBase", func() {
	var (
		base *HookableBase
	)

	BeforeEach(func() {
		base = &HookableBase{}
	})

	It("should invoke all hooks in registration order", func() {
		order := []string{}
		base.AcceptHook(&countingHook{name: "a", order: &order})
		base.AcceptHook(&countingHook{name: "b", order: &order})

		base.InvokeHook(HookCtx{Pos: posA})

		Expect(order).To(Equal([]string{"a", "b"}))
		Expect(base.NumHooks()).To(Equal(2))
	})

	It("should pass the context through", func() {
		h := &countingHook{}
		base.AcceptHook(h)

		base.InvokeHook(HookCtx{Pos: posB, Item: "item", Detail: 42})

		Expect(h.ctxs).To(HaveLen(1))
		Expect(h.ctxs[0].Pos).To(BeIdenticalTo(posB))
		Expect(h.ctxs[0].Item).To(Equal("item"))
		Expect(h.ctxs[0].Detail).To(Equal(42))
	})

	It("should panic on duplicated hooks", func() {
		h := &countingHook{}
		base.AcceptHook(h)

		Expect(func() { base.AcceptHook(h) }).To(Panic())
	})

	It("should filter invocations by position", func() {
		var items []any
		base.AcceptHook(At(posA, func(ctx HookCtx) {
			items = append(items, ctx.Item)
		}))

		base.InvokeHook(HookCtx{Pos: posA, Item: 1})
		base.InvokeHook(HookCtx{Pos: posB, Item: 2})
		base.InvokeHook(HookCtx{Pos: &HookPos{Name: "A"}, Item: 3})

		Expect(items).To(Equal([]any{1}))
	})
})
