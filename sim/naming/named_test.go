package naming

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Name", func() {
	DescribeTable("valid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).NotTo(Panic())
		},
		Entry("simple", "L2"),
		Entry("indexed", "Core[1]"),
		Entry("hierarchical", "Core[0].L1"),
		Entry("underscored", "DDR.Bank_3"),
	)

	DescribeTable("invalid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).To(Panic())
		},
		Entry("empty", ""),
		Entry("leading dot", ".L1"),
		Entry("unmatched bracket", "Core[0"),
		Entry("space", "Core 0"),
	)

	It("should keep the name", func() {
		b := MakeNamedBase("Core[0].L1")
		Expect(b.Name()).To(Equal("Core[0].L1"))
	})
})
