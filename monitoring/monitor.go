// Package monitoring turns a simulation into a web server so the
// datapath can be inspected and stepped from outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/mipsim/sim"
)

// Monitor exposes a running simulation over HTTP.
type Monitor struct {
	engine     *sim.Engine
	portNumber int
	url        string
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e *sim.Engine) {
	m.engine = e
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/cycle", m.cycle)
	r.HandleFunc("/api/components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.componentDetails)
	r.HandleFunc("/api/registers", m.listRegisters)
	r.HandleFunc("/api/timing", m.listTiming)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/step", m.step).Methods(http.MethodPost)
	r.HandleFunc("/api/step-back", m.stepBack).Methods(http.MethodPost)
	r.HandleFunc("/api/reset", m.reset).Methods(http.MethodPost)
	r.HandleFunc("/api/run", m.run).Methods(http.MethodPost)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()
}

// OpenDashboard opens the monitor in the default browser. StartServer
// must have been called.
func (m *Monitor) OpenDashboard() error {
	return browser.OpenURL(m.url)
}

type cycleRsp struct {
	Cycle    int    `json:"cycle"`
	State    string `json:"state"`
	Finished bool   `json:"finished"`
}

func (m *Monitor) cycle(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, cycleRsp{
		Cycle:    m.engine.CurrentCycle(),
		State:    m.engine.State().String(),
		Finished: m.engine.ProgramFinished(),
	})
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	for _, c := range m.engine.Datapath().Components() {
		names = append(names, c.Name())
	}
	m.writeJSON(w, names)
}

type portRsp struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Value uint32 `json:"value"`
}

type componentRsp struct {
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	Latency            int       `json:"latency"`
	AccumulatedLatency int       `json:"accumulated_latency"`
	CriticalPath       bool      `json:"critical_path"`
	ControlPath        bool      `json:"control_path"`
	Inputs             []portRsp `json:"inputs"`
	Outputs            []portRsp `json:"outputs"`
}

func (m *Monitor) componentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	c, ok := m.engine.Datapath().Component(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rsp := componentRsp{
		Name:               c.Name(),
		Role:               c.Role().String(),
		Latency:            c.Latency(),
		AccumulatedLatency: c.AccumulatedLatency(),
		CriticalPath:       c.InCriticalPath(),
		ControlPath:        c.InControlPath(),
		Inputs:             []portRsp{},
		Outputs:            []portRsp{},
	}
	for _, in := range c.Inputs() {
		rsp.Inputs = append(rsp.Inputs,
			portRsp{Name: in.Name(), Size: in.Size(), Value: in.Uint()})
	}
	for _, out := range c.Outputs() {
		rsp.Outputs = append(rsp.Outputs,
			portRsp{Name: out.Name(), Size: out.Size(), Value: out.Uint()})
	}

	m.writeJSON(w, rsp)
}

type registerReader interface {
	RegisterCount() int
	Register(index int) uint32
}

type registerRsp struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}

func (m *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	dp := m.engine.Datapath()

	holder, ok := dp.RoleHolder(sim.RoleRegisterFile)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	bank, ok := holder.(registerReader)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rsp := []registerRsp{}
	for i := 0; i < bank.RegisterCount(); i++ {
		name, _ := dp.RegisterName(i)
		rsp = append(rsp, registerRsp{Index: i, Name: name, Value: bank.Register(i)})
	}

	m.writeJSON(w, rsp)
}

type timingRsp struct {
	Component          string `json:"component"`
	Latency            int    `json:"latency"`
	AccumulatedLatency int    `json:"accumulated_latency"`
	CriticalPath       bool   `json:"critical_path"`
}

func (m *Monitor) listTiming(w http.ResponseWriter, _ *http.Request) {
	rsp := []timingRsp{}
	for _, c := range m.engine.Datapath().Components() {
		rsp = append(rsp, timingRsp{
			Component:          c.Name(),
			Latency:            c.Latency(),
			AccumulatedLatency: c.AccumulatedLatency(),
			CriticalPath:       c.InCriticalPath(),
		})
	}
	m.writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	if m.engine.ProgramFinished() {
		w.WriteHeader(http.StatusConflict)
		return
	}
	m.engine.ExecuteCycle()
	m.cycle(w, nil)
}

func (m *Monitor) stepBack(w http.ResponseWriter, _ *http.Request) {
	if !m.engine.HasPreviousCycle() {
		w.WriteHeader(http.StatusConflict)
		return
	}
	m.engine.RestorePreviousCycle()
	m.cycle(w, nil)
}

func (m *Monitor) reset(w http.ResponseWriter, _ *http.Request) {
	m.engine.ResetToFirstCycle()
	m.cycle(w, nil)
}

type runRsp struct {
	Cycle int    `json:"cycle"`
	Error string `json:"error,omitempty"`
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	rsp := runRsp{}
	if err := m.engine.ExecuteAll(); err != nil {
		rsp.Error = err.Error()
	}
	rsp.Cycle = m.engine.CurrentCycle()
	m.writeJSON(w, rsp)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
