package org

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bank", func() {
	var b *Bank

	BeforeEach(func() {
		b = NewBank()
	})

	It("should start idle with no open row", func() {
		_, open := b.OpenRow()

		Expect(b.State()).To(Equal(Idle))
		Expect(open).To(BeFalse())
	})

	It("should read and leave the row open", func() {
		Expect(b.StartAccess(false, 3, 45)).To(Succeed())

		Expect(b.State()).To(Equal(Reading))
		Expect(b.BusyUntil()).To(Equal(uint64(45)))

		Expect(b.CompleteAccess()).To(Succeed())

		row, open := b.OpenRow()
		Expect(b.State()).To(Equal(ActivateRow))
		Expect(open).To(BeTrue())
		Expect(row).To(Equal(uint64(3)))
	})

	It("should wait for the last access before activating", func() {
		Expect(b.StartAccess(false, 1, 10)).To(Succeed())
		Expect(b.StartAccess(true, 1, 20)).To(Succeed())

		Expect(b.State()).To(Equal(Writing))
		Expect(b.NumInflight()).To(Equal(2))

		Expect(b.CompleteAccess()).To(Succeed())
		Expect(b.State()).To(Equal(Writing))

		Expect(b.CompleteAccess()).To(Succeed())
		Expect(b.State()).To(Equal(ActivateRow))
	})

	It("should refuse to complete an access it does not serve", func() {
		Expect(b.CompleteAccess()).To(MatchError(ContainSubstring("no access")))
	})

	It("should precharge to idle", func() {
		Expect(b.StartAccess(false, 2, 5)).To(Succeed())
		Expect(b.CompleteAccess()).To(Succeed())
		Expect(b.StartPrecharge(20)).To(Succeed())

		Expect(b.State()).To(Equal(Precharging))
		Expect(b.Tick(19)).To(BeFalse())
		Expect(b.Tick(20)).To(BeTrue())

		_, open := b.OpenRow()
		Expect(b.State()).To(Equal(Idle))
		Expect(open).To(BeFalse())
	})

	It("should refuse accesses while precharging", func() {
		Expect(b.StartPrecharge(20)).To(Succeed())

		Expect(b.StartAccess(false, 0, 30)).
			To(MatchError(ContainSubstring("precharging")))
	})

	It("should refuse to precharge while busy", func() {
		Expect(b.StartAccess(true, 0, 30)).To(Succeed())

		Expect(b.StartPrecharge(20)).
			To(MatchError(ContainSubstring("in flight")))
	})
})
