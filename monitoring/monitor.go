// Package monitoring turns a running simulation into a web server that can
// be inspected and paused.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
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
	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/monitoring/web"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// TimeTeller can tell the current cycle.
type TimeTeller interface {
	Now() uint64
}

// A pendingReporter is a component that can tell how many requests it holds.
type pendingReporter interface {
	naming.Named
	NumPending() int
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	lock       sync.Mutex
	timeTeller TimeTeller
	components []naming.Named
	events     []sim.ContentionEvent
	portNumber int
	url        string

	pauseLock sync.Mutex
	pauseCond *sync.Cond
	paused    bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	m := &Monitor{}
	m.pauseCond = sync.NewCond(&m.pauseLock)

	return m
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 get a
// random port instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterRun forgets the components of the previous run and starts watching
// the clock of a new one.
func (m *Monitor) RegisterRun(timeTeller TimeTeller) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.timeTeller = timeTeller
	m.components = nil
	m.events = nil
}

// RegisterComponent register a component to be monitored.
func (m *Monitor) RegisterComponent(c naming.Named) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.components = append(m.components, c)
}

// Func collects the contention events reported by an analyzer.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	if ctx.Pos != analysis.HookPosContention {
		return
	}

	e, ok := ctx.Item.(sim.ContentionEvent)
	if !ok {
		return
	}

	m.lock.Lock()
	m.events = append(m.events, e)
	m.lock.Unlock()
}

// Pause makes the next WaitIfPaused block.
func (m *Monitor) Pause() {
	m.pauseLock.Lock()
	m.paused = true
	m.pauseLock.Unlock()
}

// Continue releases the simulation.
func (m *Monitor) Continue() {
	m.pauseLock.Lock()
	m.paused = false
	m.pauseLock.Unlock()

	m.pauseCond.Broadcast()
}

// WaitIfPaused blocks the caller while the monitor is paused. The simulator
// calls it between cycles.
func (m *Monitor) WaitIfPaused() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	for m.paused {
		m.pauseCond.Wait()
	}
}

func (m *Monitor) isPaused() bool {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	return m.paused
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		id:        xid.New().String(),
		name:      name,
		startTime: time.Now(),
		total:     total,
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

// Handler returns the router that serves the monitoring API and the web
// page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.continueRun)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/pending", m.listPending)
	r.HandleFunc("/api/events", m.listEvents)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	handler := m.Handler()
	go func() {
		err := http.Serve(listener, handler)
		dieOnErr(err)
	}()

	return m.url
}

// OpenBrowser opens the page of a started server.
func (m *Monitor) OpenBrowser() error {
	if m.url == "" {
		return fmt.Errorf("monitoring server is not started")
	}

	return browser.OpenURL(m.url)
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueRun(w http.ResponseWriter, _ *http.Request) {
	m.Continue()
	w.WriteHeader(http.StatusOK)
}

type nowRsp struct {
	Now    uint64 `json:"now"`
	Paused bool   `json:"paused"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	tt := m.timeTeller
	m.lock.Unlock()

	rsp := nowRsp{Paused: m.isPaused()}
	if tt != nil {
		rsp.Now = tt.Now()
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}
	m.lock.Unlock()

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type pendingRsp struct {
	Component string `json:"component"`
	Pending   int    `json:"pending"`
}

// listPending lists the components that hold requests, the fullest first.
func (m *Monitor) listPending(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := []pendingRsp{}
	for _, c := range m.components {
		if p, ok := c.(pendingReporter); ok {
			rsp = append(rsp, pendingRsp{Component: p.Name(), Pending: p.NumPending()})
		}
	}
	m.lock.Unlock()

	sort.SliceStable(rsp, func(i, j int) bool {
		return rsp[i].Pending > rsp[j].Pending
	})

	writeJSON(w, rsp)
}

// listEvents returns the latest contention events. The limit query parameter
// caps the number of events, 0 meaning all of them.
func (m *Monitor) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Error: invalid limit %q", s)

			return
		}

		limit = n
	}

	m.lock.Lock()
	events := append([]sim.ContentionEvent{}, m.events...)
	m.lock.Unlock()

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	writeJSON(w, events)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) naming.Named {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Component not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	now := time.Now()
	bars := make([]progressSnapshot, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot(now))
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	process, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(v)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
