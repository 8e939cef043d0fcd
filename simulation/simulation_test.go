package simulation

import (
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/roisim/board"
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/datarecording"
	"github.com/sarchlab/roisim/monitoring"
	"github.com/sarchlab/roisim/roi"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/workload"
)

type namedWorkload string

func (w namedWorkload) Name() string { return string(w) }

const kernelInsts = 440

var _ = Describe("Engine", func() {
	var (
		engine *Engine
		trace  *workload.Trace
	)

	BeforeEach(func() {
		engine = MakeBuilder().Build()

		var err error
		trace, err = workload.MatrixMultiply(4)
		Expect(err).NotTo(HaveOccurred())
	})

	inOrder := func() board.MachineDescription {
		desc, err := board.MakeBuilder().Build()
		Expect(err).NotTo(HaveOccurred())

		return desc
	}

	outOfOrder := func() board.MachineDescription {
		p, err := catalog.NewOutOfOrder(catalog.DefaultOutOfOrderParams())
		Expect(err).NotTo(HaveOccurred())

		desc, err := board.MakeBuilder().WithProcessor(p).Build()
		Expect(err).NotTo(HaveOccurred())

		return desc
	}

	lookup := func(s stats.Snapshot, path string) float64 {
		v, err := s.LookupPath(path)
		Expect(err).NotTo(HaveOccurred())

		return v
	}

	It("should reject workloads that are not traces", func() {
		_, err := engine.Run(inOrder(), namedWorkload("hello"), nil)

		Expect(errors.Is(err, ErrUnsupportedWorkload)).To(BeTrue())
	})

	It("should return an empty snapshot before running", func() {
		Expect(engine.Snapshot()).To(BeEmpty())
		Expect(engine.Now()).To(BeZero())
	})

	Context("in-order", func() {
		It("should measure only the region of interest when bounded", func() {
			machine := roi.NewMachine(roi.Bounded)

			result, err := engine.Run(inOrder(), trace, machine.Handlers())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ExitCause).To(Equal(stats.ExitCauseWorkEnd))
			Expect(result.SimulatedBeginTime).To(BeNumerically(">", 0))
			Expect(result.SimulatedEndTime).
				To(BeNumerically(">", result.SimulatedBeginTime))
			Expect(machine.Resets()).To(Equal(1))
			Expect(machine.Exits()).To(Equal(1))
			Expect(machine.State()).To(Equal(roi.Stopped))

			Expect(lookup(result.Stats, stats.PathInOrderExecuted)).
				To(Equal(float64(kernelInsts)))
			Expect(lookup(result.Stats, stats.PathCycles)).
				To(BeNumerically(">=", kernelInsts))
		})

		It("should run to completion when unbounded", func() {
			machine := roi.NewMachine(roi.Unbounded)

			result, err := engine.Run(inOrder(), trace, machine.Handlers())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ExitCause).To(Equal(stats.ExitCauseCompleted))
			Expect(result.SimulatedBeginTime).To(BeZero())
			Expect(machine.Resets()).To(BeZero())
			Expect(machine.Exits()).To(BeZero())
			Expect(lookup(result.Stats, stats.PathInOrderExecuted)).
				To(Equal(float64(trace.Len() - 2)))
		})

		It("should ignore exit events without handlers", func() {
			result, err := engine.Run(inOrder(), trace, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ExitCause).To(Equal(stats.ExitCauseCompleted))
		})

		It("should count memory system activity", func() {
			result, err := engine.Run(inOrder(), trace, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(lookup(result.Stats, "board.memory.readReqs")).
				To(BeNumerically(">", 0))
			Expect(lookup(result.Stats,
				"board.cache_hierarchy.l1d-cache-0.overallHits")).
				To(BeNumerically(">", 0))
		})

		It("should fail the run when a handler fails", func() {
			boom := errors.New("boom")
			handlers := map[roi.ExitEvent]roi.ExitHandler{
				roi.WorkBegin: func(roi.Controller) error { return boom },
			}

			_, err := engine.Run(inOrder(), trace, handlers)

			Expect(errors.Is(err, boom)).To(BeTrue())
		})
	})

	Context("out-of-order", func() {
		It("should commit no more than it executes", func() {
			machine := roi.NewMachine(roi.Bounded)

			result, err := engine.Run(outOfOrder(), trace, machine.Handlers())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ExitCause).To(Equal(stats.ExitCauseWorkEnd))

			committed := lookup(result.Stats, stats.PathOutOfOrderCommitted)
			executed := lookup(result.Stats, stats.PathOutOfOrderExecuted)
			squashed := lookup(result.Stats,
				"board.processor.cores.core.squashedInsts")

			Expect(committed).To(Equal(float64(kernelInsts)))
			Expect(squashed).To(BeNumerically(">", 0))
			Expect(executed).To(Equal(committed + squashed))
		})

		It("should run faster than the in-order core", func() {
			inOrderResult, err := engine.Run(inOrder(), trace, nil)
			Expect(err).NotTo(HaveOccurred())

			oooResult, err := engine.Run(outOfOrder(), trace, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(lookup(oooResult.Stats, stats.PathCycles)).
				To(BeNumerically("<", lookup(inOrderResult.Stats, stats.PathCycles)))
		})
	})

	It("should record statistics and exit events", func() {
		recorder := datarecording.New(
			filepath.Join(GinkgoT().TempDir(), "roisim_test"))
		defer recorder.Close()

		engine = MakeBuilder().WithRecorder(recorder).Build()

		_, err := engine.Run(inOrder(), trace,
			roi.NewMachine(roi.Bounded).Handlers())
		Expect(err).NotTo(HaveOccurred())

		Expect(recorder.ListTables()).
			To(ContainElements(StatsTable, ExitTable))
		Expect(engine.Close()).To(Succeed())
	})

	It("should report progress to the monitor", func() {
		monitor := monitoring.NewMonitor()
		engine = MakeBuilder().WithMonitor(monitor).Build()

		_, err := engine.Run(inOrder(), trace, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(engine.Snapshot()).NotTo(BeEmpty())
		Expect(engine.Close()).To(Succeed())
		Expect(engine.Snapshot()).NotTo(BeEmpty())
	})
})
