package catalog

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/roisim/timing"
)

var _ = Describe("Sizes and frequencies", func() {
	DescribeTable("valid sizes",
		func(s string, expected Size) {
			size, err := ParseSize(s)
			Expect(err).NotTo(HaveOccurred())
			Expect(size).To(Equal(expected))
		},
		Entry("KiB", "32KiB", 32*KiB),
		Entry("with space", "256 KiB", 256*KiB),
		Entry("MiB", "1MiB", MiB),
		Entry("plain bytes", "4096", 4096*B),
	)

	DescribeTable("invalid sizes",
		func(s string) {
			_, err := ParseSize(s)
			Expect(err).To(MatchError(ErrInvalidParameter))
		},
		Entry("garbage", "big"),
		Entry("empty", ""),
		Entry("zero", "0KiB"),
	)

	It("should print sizes with binary units", func() {
		Expect((32 * KiB).String()).To(Equal("32KiB"))
		Expect((256 * KiB).String()).To(Equal("256KiB"))
	})

	DescribeTable("rejected frequencies",
		func(s string) {
			_, err := ParseFrequency(s)
			Expect(err).To(MatchError(ErrInvalidParameter))
		},
		Entry("not a number", "fast"),
		Entry("zero", "0GHz"),
		Entry("period below one tick", "5000GHz"),
	)

	It("should accept the highest frequency with a one tick period", func() {
		f, err := ParseFrequency("1000GHz")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Period()).To(Equal(timing.VTimeInTick(1)))
	})

	It("should parse frequencies", func() {
		f, err := ParseFrequency("3GHz")
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(Equal(3 * timing.GHz))

		_, err = ParseFrequency("fast")
		Expect(err).To(MatchError(ErrInvalidParameter))

		_, err = ParseFrequency("0GHz")
		Expect(err).To(MatchError(ErrInvalidParameter))
	})
})

var _ = Describe("CacheSpec", func() {
	It("should use the l1 size for both l1 caches", func() {
		c, err := NewCacheSpec("32KiB", "256KiB")
		Expect(err).NotTo(HaveOccurred())

		Expect(c.L1ISize).To(Equal(32 * KiB))
		Expect(c.L1DSize).To(Equal(32 * KiB))
		Expect(c.L2Size).To(Equal(256 * KiB))
		Expect(c.BlockSize).To(Equal(64))
		Expect(c.NumSets(c.L1DSize, c.L1Assoc)).To(Equal(64))
		Expect(c.NumSets(c.L2Size, c.L2Assoc)).To(Equal(256))
	})

	It("should reject unparsable sizes", func() {
		_, err := NewCacheSpec("lots", "256KiB")
		Expect(err).To(MatchError(ErrInvalidParameter))

		_, err = NewCacheSpec("32KiB", "0")
		Expect(err).To(MatchError(ErrInvalidParameter))
	})

	It("should reject sizes that do not hold whole sets", func() {
		_, err := NewCacheSpec("1000", "256KiB")
		Expect(err).To(MatchError(ErrInvalidParameter))
	})
})

var _ = Describe("MemorySpec", func() {
	It("should describe single channel DDR4-2400", func() {
		m := SingleChannelDDR4_2400()

		Expect(m.Type).To(Equal(MemoryTypeDDR4))
		Expect(m.NumChannels).To(Equal(1))
		Expect(m.Capacity).To(Equal(32 * GiB))
		Expect(m.BusFreq).To(Equal(1200 * timing.MHz))
		Expect(m).To(Equal(SingleChannelDDR4_2400()))
	})
})
