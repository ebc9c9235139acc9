package comps

import "github.com/sarchlab/mipsim/sim"

// Port names of the instruction memory.
const (
	IMemAddress     = "Address"
	IMemInstruction = "Instruction"
)

// An InstructionMemory is a combinational read-only memory holding the
// loaded program, one word per instruction.
type InstructionMemory struct {
	*sim.ComponentBase

	address     *sim.Input
	instruction *sim.Output

	program []uint32
}

var _ sim.InstructionSource = (*InstructionMemory)(nil)

// NewInstructionMemory creates an empty instruction memory.
func NewInstructionMemory(name string, latency int) *InstructionMemory {
	m := &InstructionMemory{ComponentBase: sim.NewComponentBase(name, latency)}
	m.address = m.AddInput(m, IMemAddress, sim.WordBits)
	m.instruction = m.AddOutput(m, IMemInstruction, sim.WordBits)
	return m
}

// Role returns RoleInstructionMemory.
func (m *InstructionMemory) Role() sim.Role { return sim.RoleInstructionMemory }

// LoadProgram replaces the memory contents with the given machine
// words.
func (m *InstructionMemory) LoadProgram(words []uint32) {
	m.program = append([]uint32(nil), words...)
}

// InstructionCount returns the number of loaded instructions.
func (m *InstructionMemory) InstructionCount() int { return len(m.program) }

// Instruction returns the machine word at the given index.
func (m *InstructionMemory) Instruction(index int) uint32 {
	return m.program[index]
}

// Compute drives the word addressed by the input; out-of-range
// addresses read as zero.
func (m *InstructionMemory) Compute() {
	index := int(m.address.Uint()) / sim.WordBytes
	if index < 0 || index >= len(m.program) {
		m.instruction.SetValue(0)
		return
	}
	m.instruction.SetValue(m.program[index])
}

// Port names of the data memory.
const (
	DMemAddress   = "Address"
	DMemWriteData = "WriteData"
	DMemMemRead   = "MemRead"
	DMemMemWrite  = "MemWrite"
	DMemOut       = "Out"
)

// A DataMemory is a word-addressed synchronous memory: reads are
// combinational (gated by MemRead), writes latch at the clock edge.
type DataMemory struct {
	*sim.ComponentBase

	address   *sim.Input
	writeData *sim.Input
	memRead   *sim.Input
	memWrite  *sim.Input
	out       *sim.Output

	mem []uint32
}

var _ sim.Synchronous = (*DataMemory)(nil)
var _ sim.Resettable = (*DataMemory)(nil)

// NewDataMemory creates a data memory with the given size, in words.
func NewDataMemory(name string, latency, words int) *DataMemory {
	m := &DataMemory{
		ComponentBase: sim.NewComponentBase(name, latency),
		mem:           make([]uint32, words),
	}

	m.address = m.AddInput(m, DMemAddress, sim.WordBits)
	m.writeData = m.AddInput(m, DMemWriteData, sim.WordBits)
	m.writeData.MarkLatched()
	m.memRead = m.AddInput(m, DMemMemRead, 1)
	m.memRead.SetAffectsLatency(false)
	m.memWrite = m.AddInput(m, DMemMemWrite, 1)
	m.memWrite.MarkLatched()
	m.memWrite.SetAffectsLatency(false)
	m.out = m.AddOutput(m, DMemOut, sim.WordBits)

	return m
}

// Role returns RoleDataMemory.
func (m *DataMemory) Role() sim.Role { return sim.RoleDataMemory }

// Size returns the memory size, in words.
func (m *DataMemory) Size() int { return len(m.mem) }

// Word returns the memory contents at the given word index.
func (m *DataMemory) Word(index int) uint32 { return m.mem[index] }

// SetWord overwrites the memory contents at the given word index.
func (m *DataMemory) SetWord(index int, value uint32) { m.mem[index] = value }

func (m *DataMemory) index() int {
	return int(m.address.Uint()) / sim.WordBytes
}

// Compute drives the addressed word when MemRead is asserted, zero
// otherwise.
func (m *DataMemory) Compute() {
	if m.memRead.Uint() != 1 {
		m.out.SetValue(0)
		return
	}
	index := m.index()
	if index < 0 || index >= len(m.mem) {
		m.out.SetValue(0)
		return
	}
	m.out.SetValue(m.mem[index])
}

// Commit performs the pending write at the clock edge.
func (m *DataMemory) Commit() {
	if m.memWrite.Uint() != 1 {
		return
	}
	index := m.index()
	if index >= 0 && index < len(m.mem) {
		m.mem[index] = m.writeData.Uint()
	}
}

// Snapshot copies the memory contents.
func (m *DataMemory) Snapshot() sim.State {
	return append([]uint32(nil), m.mem...)
}

// Restore replaces the memory contents.
func (m *DataMemory) Restore(s sim.State) {
	copy(m.mem, s.([]uint32))
}

// ResetStoredData zeroes the memory.
func (m *DataMemory) ResetStoredData() {
	for i := range m.mem {
		m.mem[i] = 0
	}
}
