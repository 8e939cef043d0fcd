// Package monitoring turns a running simulation into a small HTTP service
// that can pause the engine and report its progress.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	log "github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/sarchlab/roisim/roi"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/timing"
)

// Engine is the part of the simulation engine the monitor controls.
type Engine interface {
	Pause()
	Continue()
	Now() timing.VTimeInTick
}

// StatsSource provides the live statistics of the simulation.
type StatsSource interface {
	Snapshot() stats.Snapshot
}

// ROIStatus reports the progress through the region of interest.
type ROIStatus interface {
	State() roi.State
	Policy() roi.Policy
	Resets() int
	Exits() int
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	lock        sync.RWMutex
	engine      Engine
	statsSource StatsSource
	roiStatus   ROIStatus
	machine     any
	portNumber  int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
	url    string
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		log.Warnf("Port number %d is not allowed for the monitoring server, "+
			"using a random port instead.", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e Engine) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.engine = e
}

// RegisterStats registers the source of live statistics.
func (m *Monitor) RegisterStats(s StatsSource) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.statsSource = s
}

// RegisterROI registers the ROI state machine.
func (m *Monitor) RegisterROI(r ROIStatus) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.roiStatus = r
}

// RegisterMachine registers the description of the simulated machine. It is
// served field by field, so a pointer is preferred.
func (m *Monitor) RegisterMachine(machine any) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.machine = machine
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/roi", m.roiState)
	r.HandleFunc("/api/stats", m.listStats)
	r.HandleFunc("/api/stats/{path}", m.statValue)
	r.HandleFunc("/api/machine", m.machineDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 0 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("monitoring: %w", err)
	}

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("monitoring server stopped: %v", err)
		}
	}()

	return m.url, nil
}

// OpenInBrowser opens the monitor address with the default browser.
func (m *Monitor) OpenInBrowser() error {
	if m.url == "" {
		return errors.New("monitoring: server not started")
	}

	return browser.OpenURL(m.url + "/api/progress")
}

// StopServer shuts the server down.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) currentEngine(w http.ResponseWriter) Engine {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.engine == nil {
		http.Error(w, "no engine registered", http.StatusServiceUnavailable)
	}

	return m.engine
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	engine := m.currentEngine(w)
	if engine == nil {
		return
	}

	engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	engine := m.currentEngine(w)
	if engine == nil {
		return
	}

	engine.Continue()
	w.WriteHeader(http.StatusOK)
}

type nowRsp struct {
	Now    timing.VTimeInTick `json:"now"`
	NowSec float64            `json:"now_sec"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	engine := m.currentEngine(w)
	if engine == nil {
		return
	}

	now := engine.Now()
	writeJSON(w, nowRsp{
		Now:    now,
		NowSec: float64(now) / timing.TicksPerSecond,
	})
}

type roiRsp struct {
	Policy string `json:"policy"`
	State  string `json:"state"`
	Resets int    `json:"resets"`
	Exits  int    `json:"exits"`
}

func (m *Monitor) roiState(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	r := m.roiStatus
	m.lock.RUnlock()

	if r == nil {
		http.Error(w, "no roi state machine registered", http.StatusNotFound)
		return
	}

	writeJSON(w, roiRsp{
		Policy: r.Policy().String(),
		State:  r.State().String(),
		Resets: r.Resets(),
		Exits:  r.Exits(),
	})
}

func (m *Monitor) snapshot(w http.ResponseWriter) (stats.Snapshot, bool) {
	m.lock.RLock()
	s := m.statsSource
	m.lock.RUnlock()

	if s == nil {
		http.Error(w, "no statistics registered", http.StatusNotFound)
		return nil, false
	}

	return s.Snapshot(), true
}

type statEntry struct {
	Path  string  `json:"path"`
	Value float64 `json:"value"`
}

func (m *Monitor) listStats(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := m.snapshot(w)
	if !ok {
		return
	}

	prefix := r.URL.Query().Get("prefix")

	flat := snapshot.Flatten()
	entries := make([]statEntry, 0, len(flat))
	for p, v := range flat {
		if strings.HasPrefix(p, prefix) {
			entries = append(entries, statEntry{p, v})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	writeJSON(w, entries)
}

func (m *Monitor) statValue(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := m.snapshot(w)
	if !ok {
		return
	}

	path := mux.Vars(r)["path"]

	v, err := snapshot.LookupPath(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, statEntry{path, v})
}

func (m *Monitor) machineDetails(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	machine := m.machine
	m.lock.RUnlock()

	if machine == nil {
		http.Error(w, "no machine registered", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(machine)
	serializer.SetMaxDepth(2)

	if err := serializer.Serialize(w); err != nil {
		log.Errorf("monitoring: serializing machine: %v", err)
	}
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]ProgressBarStatus, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.Status())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(data); err != nil {
		log.Warnf("monitoring: writing response: %v", err)
	}
}
