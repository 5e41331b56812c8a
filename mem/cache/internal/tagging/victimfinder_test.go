package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PLRU", func() {
	It("should panic if the number of ways is not a power of two", func() {
		Expect(func() { NewPLRU(3) }).To(Panic())
		Expect(func() { NewPLRU(0) }).To(Panic())
	})

	It("should always pick way 0 in a direct-mapped set", func() {
		p := NewPLRU(1)
		p.Visit(0)
		Expect(p.FindVictim()).To(Equal(0))
	})

	It("should point away from the visited way", func() {
		p := NewPLRU(4)

		p.Visit(0)

		Expect(p.Bits()).To(Equal([]uint8{1, 1, 0}))
		Expect(p.FindVictim()).To(Equal(2))
	})

	It("should return the way left out after visiting the other three", func() {
		p := NewPLRU(4)

		p.Visit(0)
		p.Visit(2)
		p.Visit(1)

		Expect(p.FindVictim()).To(Equal(3))
	})

	It("should evict the least recent way of a 2-way set", func() {
		p := NewPLRU(2)

		p.Visit(1)
		Expect(p.FindVictim()).To(Equal(0))

		p.Visit(0)
		Expect(p.FindVictim()).To(Equal(1))
	})

	DescribeTable("never picking the way that was just visited",
		func(numWays int) {
			p := NewPLRU(numWays)
			for way := 0; way < numWays; way++ {
				p.Visit(way)
				Expect(p.FindVictim()).NotTo(Equal(way))
			}
		},
		Entry("2 ways", 2),
		Entry("4 ways", 4),
		Entry("8 ways", 8),
		Entry("16 ways", 16),
	)

	DescribeTable("cycling through all the ways when each victim is refilled",
		func(numWays int) {
			p := NewPLRU(numWays)
			seen := map[int]bool{}

			for i := 0; i < numWays; i++ {
				victim := p.FindVictim()
				Expect(seen).NotTo(HaveKey(victim))
				seen[victim] = true
				p.Visit(victim)
			}

			Expect(seen).To(HaveLen(numWays))
		},
		Entry("2 ways", 2),
		Entry("4 ways", 4),
		Entry("8 ways", 8),
		Entry("16 ways", 16),
	)

	It("should reset all the bits", func() {
		p := NewPLRU(8)
		p.Visit(5)

		p.Reset()

		Expect(p.Bits()).To(Equal(make([]uint8, 7)))
		Expect(p.FindVictim()).To(Equal(0))
	})
})
