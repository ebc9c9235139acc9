package sim

import "github.com/pkg/errors"

// ExecuteAllCycleCeiling is the number of clock cycles after which
// ExecuteAll gives up and reports a possible infinite loop.
const ExecuteAllCycleCeiling = 1000

// RunState describes where a simulation run stands.
type RunState int

// Run states. Running is re-entrant per cycle.
const (
	StateIdle RunState = iota
	StateRunning
	StateFinished
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "finished"
	}
}

// An Engine advances a validated datapath through clock cycles and
// maintains the execution history that enables stepping backwards.
//
// The engine is single-threaded: no operation may be invoked
// reentrantly, and a hosting application that shares an engine across
// goroutines must serialize all access externally.
type Engine struct {
	HookableBase

	dp      *Datapath
	history *historyArena
	cycle   int

	pc   ProgramCounter
	imem InstructionSource
}

// NewEngine creates an engine for the given datapath, validating it
// first if needed.
func NewEngine(dp *Datapath) (*Engine, error) {
	if !dp.validated {
		if err := dp.Validate(); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		dp:      dp,
		history: newHistoryArena(),
	}

	c, _ := dp.RoleHolder(RoleProgramCounter)
	pc, ok := c.(ProgramCounter)
	if !ok {
		panic("program counter component does not implement ProgramCounter")
	}
	e.pc = pc

	c, _ = dp.RoleHolder(RoleInstructionMemory)
	imem, ok := c.(InstructionSource)
	if !ok {
		panic("instruction memory component does not implement InstructionSource")
	}
	e.imem = imem

	return e, nil
}

// Name returns the name of the engine, for hook contexts.
func (e *Engine) Name() string { return "engine" }

// Datapath returns the datapath driven by the engine.
func (e *Engine) Datapath() *Datapath { return e.dp }

// CurrentCycle returns the number of the last completed cycle.
func (e *Engine) CurrentCycle() int { return e.cycle }

// State returns the run state of the engine.
func (e *Engine) State() RunState {
	if e.ProgramFinished() {
		return StateFinished
	}
	if e.cycle == 0 {
		return StateIdle
	}
	return StateRunning
}

// fetchIndex derives the in-flight instruction index for an address.
// Out-of-range addresses yield -1.
func (e *Engine) fetchIndex(address uint32) int {
	index := int(address) / WordBytes
	if index < 0 || index >= e.imem.InstructionCount() {
		return -1
	}
	return index
}

// ProgramFinished reports whether the loaded program has finished:
// the fetch index is -1 and, if pipelined, every pipeline stage has
// drained.
func (e *Engine) ProgramFinished() bool {
	if e.pc.InstructionIndex() != -1 {
		return false
	}
	if !e.dp.Pipelined() {
		return true
	}
	for stage := StageIFID; stage <= StageMEMWB; stage++ {
		reg, _ := e.dp.PipelineRegister(stage)
		if reg.InstructionIndex() != -1 {
			return false
		}
	}
	return true
}

// ExecuteCycle advances the simulation by one clock edge: the current
// synchronous state is saved, every register latches its pending
// value, the in-flight instruction bookkeeping shifts down the
// pipeline, and the combinational network re-settles.
func (e *Engine) ExecuteCycle() {
	e.InvokeHook(HookCtx{Domain: e, Pos: HookPosBeforeCycle, Item: e.cycle})

	e.SaveCycleState()

	for _, s := range e.dp.syncs {
		s.Commit()
	}

	index := e.fetchIndex(e.pc.Address())
	if e.dp.Pipelined() {
		e.shiftPipelineIndexes()
	}
	e.pc.SetInstructionIndex(index)

	e.dp.Settle()
	e.cycle++

	e.InvokeHook(HookCtx{Domain: e, Pos: HookPosAfterCycle, Item: e.cycle})
}

// shiftPipelineIndexes moves each stage's instruction index from its
// upstream neighbor, strictly downstream-to-upstream so that no
// register reads another's already-updated value. Flush clears a
// register to -1 regardless of write; without write the register
// stalls, keeping its index.
func (e *Engine) shiftPipelineIndexes() {
	upstream := e.pc.InstructionIndex()
	indexes := make([]int, 4)
	for stage := StageIFID; stage <= StageMEMWB; stage++ {
		reg, _ := e.dp.PipelineRegister(stage)
		indexes[stage] = reg.InstructionIndex()
	}

	for stage := StageMEMWB; stage >= StageIFID; stage-- {
		reg, _ := e.dp.PipelineRegister(stage)

		prev := upstream
		if stage > StageIFID {
			prev = indexes[stage-1]
		}

		switch {
		case reg.FlushAsserted():
			reg.SetInstructionIndex(-1)
		case reg.WriteAsserted():
			reg.SetInstructionIndex(prev)
		}
	}
}

// ExecuteAll runs the loaded program to completion. It returns
// ErrInfiniteLoop once the cycle ceiling has elapsed without the
// program finishing; the engine is left exactly as of the last
// completed cycle, so the caller may keep stepping manually.
func (e *Engine) ExecuteAll() error {
	cycles := 0
	for !e.ProgramFinished() {
		if cycles > ExecuteAllCycleCeiling {
			return errors.Wrapf(ErrInfiniteLoop,
				"no termination after %d cycles", cycles)
		}
		cycles++
		e.ExecuteCycle()
	}
	return nil
}

// SetProgramCounterAddress moves the program counter and keeps the
// fetch-stage instruction index in sync. This is the only sanctioned
// way to move the program counter.
func (e *Engine) SetProgramCounterAddress(address uint32) {
	e.pc.SetAddress(address)
	e.pc.SetInstructionIndex(e.fetchIndex(address))
}

// SaveCycleState pushes a snapshot of every synchronous component.
func (e *Engine) SaveCycleState() {
	for _, s := range e.dp.syncs {
		e.history.push(s.Name(), s.Snapshot())
	}
}

// HasPreviousCycle reports whether a step back is possible.
func (e *Engine) HasPreviousCycle() bool {
	return e.history.depth(e.pc.Name()) > 0
}

// RestorePreviousCycle steps the simulation back by one cycle. It is a
// no-op if no history exists.
func (e *Engine) RestorePreviousCycle() {
	if !e.HasPreviousCycle() {
		return
	}

	for _, s := range e.dp.syncs {
		if state, ok := e.history.pop(s.Name()); ok {
			s.Restore(state)
		}
	}
	e.dp.Settle()

	if e.cycle > 0 {
		e.cycle--
	}

	e.InvokeHook(HookCtx{Domain: e, Pos: HookPosRewind, Item: e.cycle})
}

// ResetToFirstCycle restores the oldest retained snapshot without
// discarding it, rewinding to the start while keeping the ability to
// step forward through a re-executed sequence.
func (e *Engine) ResetToFirstCycle() {
	if !e.HasPreviousCycle() {
		return
	}

	for _, s := range e.dp.syncs {
		if state, ok := e.history.resetToOldest(s.Name()); ok {
			s.Restore(state)
		}
	}
	e.dp.Settle()

	e.cycle = 0

	e.InvokeHook(HookCtx{Domain: e, Pos: HookPosRewind, Item: e.cycle})
}

// ClearHistory discards all snapshots, for when a new program is
// loaded.
func (e *Engine) ClearHistory() {
	e.history.clear()
	e.cycle = 0
}

// ResetStoredData zeroes the architectural contents (register file,
// data memory, extended-ALU accumulators). It does not move the
// execution position; use the history operations for that.
func (e *Engine) ResetStoredData() {
	for _, c := range e.dp.components {
		if r, ok := c.(Resettable); ok {
			r.ResetStoredData()
		}
	}
}
