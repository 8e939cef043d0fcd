package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	var tags *tagArrayImpl

	BeforeEach(func() {
		tags = NewTagArray(1024, 4, 64).(*tagArrayImpl)
	})

	It("should be able to get total size", func() {
		Expect(tags.TotalSize()).To(Equal(uint64(262144)))
	})

	It("should map addresses to sets", func() {
		_, setID := tags.GetSet(0x40)
		Expect(setID).To(Equal(1))

		_, setID = tags.GetSet(0x40 + 1024*64)
		Expect(setID).To(Equal(1))
	})

	It("should lookup", func() {
		set, _ := tags.GetSet(0x100)
		set.Blocks[2].Tag = 0x100
		set.Blocks[2].IsValid = true

		block, ok := tags.Lookup(0x100)
		Expect(ok).To(BeTrue())
		Expect(block.WayID).To(Equal(2))
	})

	It("should not find invalid blocks", func() {
		set, _ := tags.GetSet(0x100)
		set.Blocks[0].Tag = 0x100

		_, ok := tags.Lookup(0x100)
		Expect(ok).To(BeFalse())
	})

	It("should update", func() {
		tags.Update(Block{Tag: 0x200, SetID: 8, WayID: 3, IsValid: true})

		block, ok := tags.Lookup(0x200)
		Expect(ok).To(BeTrue())
		Expect(block.WayID).To(Equal(3))
	})

	It("should visit", func() {
		set, _ := tags.GetSet(0)
		tags.Visit(set.Blocks[1])

		Expect(set.LRUQueue).To(Equal([]int{0, 2, 3, 1}))
	})

	It("should reset", func() {
		tags.Update(Block{Tag: 0x200, SetID: 8, WayID: 3, IsValid: true})
		tags.Reset()

		_, ok := tags.Lookup(0x200)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("LRUVictimFinder", func() {
	var (
		tags   TagArray
		finder *LRUVictimFinder
	)

	BeforeEach(func() {
		tags = NewTagArray(1, 4, 64)
		finder = NewLRUVictimFinder()
	})

	It("should prefer invalid blocks", func() {
		tags.Update(Block{Tag: 0, SetID: 0, WayID: 0, IsValid: true})

		Expect(finder.FindVictim(tags, 0).WayID).To(Equal(1))
	})

	It("should evict the least recently used block", func() {
		for way := 0; way < 4; way++ {
			b := Block{Tag: uint64(way * 64), SetID: 0, WayID: way, IsValid: true}
			tags.Update(b)
			tags.Visit(b)
		}

		set, _ := tags.GetSet(0)
		tags.Visit(set.Blocks[0])

		Expect(finder.FindVictim(tags, 0).WayID).To(Equal(1))
	})
})
