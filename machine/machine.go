// Package machine assembles the stock MIPS datapaths out of the comps
// library and wraps them with program loading and register access
// helpers.
package machine

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/mipsim/comps"
	"github.com/sarchlab/mipsim/sim"
)

// DefaultRegisterNames holds the conventional MIPS names of the 32
// general-purpose registers, in index order.
var DefaultRegisterNames = []string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// Default propagation delays, in picoseconds, assigned to the stock
// datapath components.
const (
	LatencyInstructionMemory = 20
	LatencyRegisterBank      = 10
	LatencyALU               = 20
	LatencyDataMemory        = 25
	LatencyControlUnit       = 5
	LatencyALUControl        = 2
	LatencyAdder             = 2
	LatencyMultiplexer       = 1
	LatencyGate              = 1
	LatencySignExtend        = 1
	LatencyForwardingUnit    = 1
	LatencyHazardUnit        = 1
)

// regIndexBits is the width of a register index for the 32-register
// bank.
const regIndexBits = 5

// A Machine is a fully wired datapath with its cycle engine and the
// handles needed to load programs and inspect architectural state.
type Machine struct {
	dp     *sim.Datapath
	engine *sim.Engine

	imem *comps.InstructionMemory
	regs *comps.RegBank
	dmem *comps.DataMemory
}

// Datapath returns the underlying component graph.
func (m *Machine) Datapath() *sim.Datapath { return m.dp }

// Engine returns the cycle engine.
func (m *Machine) Engine() *sim.Engine { return m.engine }

// InstructionMemory returns the instruction memory.
func (m *Machine) InstructionMemory() *comps.InstructionMemory { return m.imem }

// Registers returns the register bank.
func (m *Machine) Registers() *comps.RegBank { return m.regs }

// DataMemory returns the data memory.
func (m *Machine) DataMemory() *comps.DataMemory { return m.dmem }

// LoadProgram replaces the loaded program, discards the execution
// history and restarts fetching at address zero. Stored register and
// memory contents are kept; call ResetStoredData first for a cold
// start.
func (m *Machine) LoadProgram(words []uint32) {
	m.imem.LoadProgram(words)
	m.engine.ClearHistory()
	m.engine.SetProgramCounterAddress(0)
	m.dp.Settle()
}

// ResetStoredData zeroes the stored contents of every stateful
// component, keeping constant registers.
func (m *Machine) ResetStoredData() {
	m.engine.ResetStoredData()
	m.dp.Settle()
}

// ReadRegister resolves a register reference, with or without the $
// prefix, by name or by index, and returns its current value.
func (m *Machine) ReadRegister(ref string) (uint32, error) {
	index := m.dp.RegisterIndex(ref)
	if index < 0 {
		return 0, errors.Errorf("unknown register %q", ref)
	}
	return m.regs.Register(index), nil
}

// WriteRegister resolves a register reference and overwrites its
// value. Writes to constant registers are ignored.
func (m *Machine) WriteRegister(ref string, value uint32) error {
	index := m.dp.RegisterIndex(ref)
	if index < 0 {
		return errors.Errorf("unknown register %q", ref)
	}
	m.regs.SetRegister(index, value)
	m.dp.Settle()
	return nil
}
