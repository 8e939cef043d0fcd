package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/roisim/roi"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/timing"
)

var _ = Describe("Monitor", func() {
	var (
		mockCtrl    *gomock.Controller
		engine      *MockEngine
		statsSource *MockStatsSource
		m           *Monitor
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		statsSource = NewMockStatsSource(mockCtrl)
		m = NewMonitor()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	serve := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		m.Router().ServeHTTP(rec, req)

		return rec
	}

	It("should fall back to a random port for reserved ports", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(32776)
		Expect(m.portNumber).To(Equal(32776))
	})

	It("should report unavailable without an engine", func() {
		rec := serve("/api/pause")
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("should pause and continue the engine", func() {
		m.RegisterEngine(engine)

		engine.EXPECT().Pause()
		Expect(serve("/api/pause").Code).To(Equal(http.StatusOK))

		engine.EXPECT().Continue()
		Expect(serve("/api/continue").Code).To(Equal(http.StatusOK))
	})

	It("should report the current time", func() {
		m.RegisterEngine(engine)
		engine.EXPECT().Now().Return(timing.VTimeInTick(2_000_000))

		rec := serve("/api/now")

		var rsp nowRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Now).To(BeEquivalentTo(2_000_000))
		Expect(rsp.NowSec).To(BeNumerically("~", 2e-6, 1e-12))
	})

	It("should report the roi state", func() {
		machine := roi.NewMachine(roi.Bounded)
		m.RegisterROI(machine)

		rec := serve("/api/roi")

		var rsp roiRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.State).To(Equal(roi.AwaitingStart.String()))
		Expect(rsp.Policy).To(Equal(roi.Bounded.String()))
		Expect(rsp.Resets).To(Equal(0))
	})

	Context("with statistics", func() {
		BeforeEach(func() {
			m.RegisterStats(statsSource)
			statsSource.EXPECT().Snapshot().Return(stats.Snapshot{
				"board": map[string]any{
					"processor": map[string]any{
						"cores0": map[string]any{"numInsts": 42.0},
					},
					"memory": map[string]any{"readReqs": 7.0},
				},
			})
		})

		It("should list statistics under a prefix", func() {
			rec := serve("/api/stats?prefix=board.processor")

			var entries []statEntry
			Expect(json.Unmarshal(rec.Body.Bytes(), &entries)).To(Succeed())
			Expect(entries).To(ConsistOf(
				statEntry{"board.processor.cores0.numInsts", 42},
			))
		})

		It("should return a single statistic", func() {
			rec := serve("/api/stats/board.memory.readReqs")

			var entry statEntry
			Expect(json.Unmarshal(rec.Body.Bytes(), &entry)).To(Succeed())
			Expect(entry.Value).To(Equal(7.0))
		})

		It("should report missing statistics", func() {
			rec := serve("/api/stats/board.memory.writeReqs")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("instructions", 100)
		bar.IncrementInProgress(10)
		bar.MoveInProgressToFinished(4)

		rec := serve("/api/progress")

		var bars []ProgressBarStatus
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].ID).To(Equal(bar.ID))
		Expect(bars[0].Finished).To(Equal(uint64(4)))
		Expect(bars[0].InProgress).To(Equal(uint64(6)))

		m.CompleteProgressBar(bar)
		rec = serve("/api/progress")
		Expect(rec.Body.String()).To(Equal("[]"))
	})

	It("should start and stop the server", func() {
		url, err := m.StartServer()
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(HavePrefix("http://localhost:"))

		Expect(m.StopServer()).To(Succeed())
	})
})
