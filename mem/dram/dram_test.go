package dram

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/timing"
)

var _ = Describe("Controller", func() {
	var (
		registry *stats.Registry
		ctrl     *Controller
	)

	BeforeEach(func() {
		registry = stats.NewRegistry()
		ctrl = MakeBuilder().
			WithCoreFreq(3*timing.GHz).
			WithStats(registry, "board", "memory").
			Build("DRAM")
	})

	lookup := func(stat string) float64 {
		v, err := registry.Snapshot().Lookup("board", "memory", stat)
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	It("should charge activate and read on a closed bank", func() {
		// (tRCD + tCL + burst) = 38 bus cycles of 833ps.
		Expect(ctrl.Access(0x0, false)).To(Equal(96))
		Expect(lookup("rowMisses")).To(Equal(1.0))
		Expect(lookup("readReqs")).To(Equal(1.0))
	})

	It("should charge only the column access on a row hit", func() {
		ctrl.Access(0x0, false)

		Expect(ctrl.Access(0x40, true)).To(Equal(53))
		Expect(lookup("rowHits")).To(Equal(1.0))
		Expect(lookup("writeReqs")).To(Equal(1.0))
	})

	It("should precharge on a row conflict", func() {
		ctrl.Access(0x0, false)

		rowsPerSweep := uint64(16 * 8192)
		Expect(ctrl.Access(rowsPerSweep, false)).To(Equal(138))
		Expect(lookup("rowConflicts")).To(Equal(1.0))
	})

	It("should spread consecutive rows over banks", func() {
		ctrl.Access(0x0, false)
		ctrl.Access(8192, false)

		Expect(lookup("rowMisses")).To(Equal(2.0))
		Expect(lookup("rowConflicts")).To(Equal(0.0))
	})

	It("should always miss with a close page policy", func() {
		closed := MakeBuilder().
			WithCoreFreq(3 * timing.GHz).
			WithPagePolicy(ClosePage).
			Build("Closed")

		Expect(closed.Access(0x0, false)).To(Equal(96))
		Expect(closed.Access(0x0, false)).To(Equal(96))
	})

	It("should close every row on reset", func() {
		ctrl.Access(0x0, false)
		ctrl.Reset()

		Expect(ctrl.Access(0x0, false)).To(Equal(96))
		Expect(lookup("rowMisses")).To(Equal(2.0))
	})

	It("should panic on invalid parameters", func() {
		Expect(func() { MakeBuilder().WithNumBanks(0).Build("Bad") }).To(Panic())
		Expect(func() { MakeBuilder().WithRowSize(0).Build("Bad") }).To(Panic())
	})
})
