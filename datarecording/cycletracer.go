package datarecording

import "github.com/sarchlab/mipsim/sim"

// CycleEntry is one recorded clock cycle.
type CycleEntry struct {
	Cycle      int
	Address    uint32
	FetchIndex int
	IfId       int
	IdEx       int
	ExMem      int
	MemWb      int
}

// TimingEntry is one component's settled timing analysis.
type TimingEntry struct {
	Component          string
	Latency            int
	AccumulatedLatency int
	CriticalPath       bool
	ControlPath        bool
}

// Table names written by the CycleTracer.
const (
	CycleTableName  = "cycles"
	TimingTableName = "timing"
)

// A CycleTracer is an engine hook that records one row per executed
// cycle, with the program counter and the in-flight instruction index
// of every stage.
type CycleTracer struct {
	recorder DataRecorder
}

// NewCycleTracer creates a CycleTracer writing to the given recorder.
func NewCycleTracer(recorder DataRecorder) *CycleTracer {
	recorder.CreateTable(CycleTableName, CycleEntry{})
	return &CycleTracer{recorder: recorder}
}

// Func records a row after every executed cycle.
func (t *CycleTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterCycle {
		return
	}
	engine, ok := ctx.Domain.(*sim.Engine)
	if !ok {
		return
	}

	dp := engine.Datapath()
	entry := CycleEntry{
		Cycle:      engine.CurrentCycle(),
		FetchIndex: -1,
		IfId:       -1,
		IdEx:       -1,
		ExMem:      -1,
		MemWb:      -1,
	}

	if pc, ok := dp.RoleHolder(sim.RoleProgramCounter); ok {
		counter := pc.(sim.ProgramCounter)
		entry.Address = counter.Address()
		entry.FetchIndex = counter.InstructionIndex()
	}
	if dp.Pipelined() {
		stages := []*int{&entry.IfId, &entry.IdEx, &entry.ExMem, &entry.MemWb}
		for stage := sim.StageIFID; stage <= sim.StageMEMWB; stage++ {
			if reg, ok := dp.PipelineRegister(stage); ok {
				*stages[stage] = reg.InstructionIndex()
			}
		}
	}

	t.recorder.InsertData(CycleTableName, entry)
}

// RecordTiming dumps the current timing analysis of every component,
// one row each.
func RecordTiming(recorder DataRecorder, dp *sim.Datapath) {
	recorder.CreateTable(TimingTableName, TimingEntry{})
	for _, c := range dp.Components() {
		recorder.InsertData(TimingTableName, TimingEntry{
			Component:          c.Name(),
			Latency:            c.Latency(),
			AccumulatedLatency: c.AccumulatedLatency(),
			CriticalPath:       c.InCriticalPath(),
			ControlPath:        c.InControlPath(),
		})
	}
}
