package board

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/timing"
)

var _ = Describe("Assemble", func() {
	var cache catalog.CacheSpec

	BeforeEach(func() {
		var err error
		cache, err = catalog.NewCacheSpec("32KiB", "256KiB")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should attach the DDR4 memory", func() {
		m := Assemble(3*timing.GHz, catalog.NewInOrder(), cache)

		Expect(m.ClockFreq).To(Equal(3 * timing.GHz))
		Expect(m.Processor).To(Equal(catalog.NewInOrder()))
		Expect(m.Cache).To(Equal(cache))
		Expect(m.Memory).To(Equal(catalog.SingleChannelDDR4_2400()))
	})

	It("should be deterministic", func() {
		p, err := catalog.NewOutOfOrder(catalog.DefaultOutOfOrderParams())
		Expect(err).NotTo(HaveOccurred())

		a := Assemble(2*timing.GHz, p, cache)
		b := Assemble(2*timing.GHz, p, cache)

		Expect(a == b).To(BeTrue())
	})

	It("should list fields in a stable order", func() {
		m := Assemble(3*timing.GHz, catalog.NewInOrder(), cache)

		fields := m.Fields()

		Expect(fields[0]).To(Equal(Field{"clock", "3GHz"}))
		Expect(fields[1]).To(Equal(Field{"processor", "simple"}))
		Expect(fields).To(ContainElement(Field{"cache.l1d_size", "32KiB"}))
		Expect(fields).To(ContainElement(
			Field{"memory", "SingleChannelDDR4_2400"}))
		Expect(m.Fields()).To(Equal(fields))
	})

	It("should list out-of-order queue sizes", func() {
		p, err := catalog.NewOutOfOrder(catalog.OutOfOrderParams{
			Width: 4, LSQDepth: 64, ROBEntries: 128,
		})
		Expect(err).NotTo(HaveOccurred())

		fields := Assemble(3*timing.GHz, p, cache).Fields()

		Expect(fields).To(ContainElement(Field{"processor.lq_entries", "32"}))
		Expect(fields).To(ContainElement(Field{"processor.sq_entries", "32"}))
		Expect(fields).To(ContainElement(Field{"processor.rob_entries", "128"}))
	})
})

var _ = Describe("Builder", func() {
	It("should build the default machine", func() {
		m, err := MakeBuilder().Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(m.ClockFreq).To(Equal(3 * timing.GHz))
		Expect(m.Processor.Kind()).To(Equal(catalog.KindSimple))
		Expect(m.Cache.L2Size).To(Equal(256 * catalog.KiB))
	})

	It("should apply options", func() {
		p, err := catalog.NewOutOfOrder(catalog.DefaultOutOfOrderParams())
		Expect(err).NotTo(HaveOccurred())

		m, err := MakeBuilder().
			WithFreq(1 * timing.GHz).
			WithProcessor(p).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(m.ClockFreq).To(Equal(1 * timing.GHz))
		Expect(m.Processor).To(Equal(p))
	})

	It("should reject a missing processor", func() {
		_, err := MakeBuilder().WithProcessor(nil).Build()

		Expect(err).To(MatchError(catalog.ErrInvalidParameter))
	})

	It("should reject an invalid cache", func() {
		_, err := MakeBuilder().WithCache(catalog.CacheSpec{}).Build()

		Expect(err).To(MatchError(catalog.ErrInvalidParameter))
	})

	It("should reject a zero clock", func() {
		_, err := MakeBuilder().WithFreq(0).Build()

		Expect(err).To(MatchError(catalog.ErrInvalidParameter))
	})
})
