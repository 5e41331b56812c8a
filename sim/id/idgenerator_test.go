package id

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("should generate sequential ids per generator", func() {
		g1 := NewIDGenerator()
		g2 := NewIDGenerator()

		Expect(g1.Generate()).To(Equal("1"))
		Expect(g1.Generate()).To(Equal("2"))
		Expect(g2.Generate()).To(Equal("1"))
	})

	It("should generate unique parallel ids", func() {
		g := NewParallelIDGenerator()
		seen := map[string]bool{}

		for i := 0; i < 100; i++ {
			id := g.Generate()
			Expect(seen).NotTo(HaveKey(id))
			seen[id] = true
		}
	})
})
