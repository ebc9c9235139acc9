package comps

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/mipsim/sim"
)

// Port names of the register bank.
const (
	RegBankReadReg1  = "ReadReg1"
	RegBankReadReg2  = "ReadReg2"
	RegBankReadData1 = "ReadData1"
	RegBankReadData2 = "ReadData2"
	RegBankWriteReg  = "WriteReg"
	RegBankWriteData = "WriteData"
	RegBankRegWrite  = "RegWrite"
)

// A RegBank is the register file: two combinational read ports and one
// synchronous write port. With internal forwarding enabled, a value
// being written is visible to a same-cycle read of the same register.
type RegBank struct {
	*sim.ComponentBase

	readReg1, readReg2            *sim.Input
	writeReg, writeData, regWrite *sim.Input
	readData1, readData2          *sim.Output

	regs       []uint32
	constant   []bool
	forwarding bool
}

var _ sim.RegisterFile = (*RegBank)(nil)

// NewRegBank creates a register bank. The register count must be a
// power of two of at least 2.
func NewRegBank(name string, latency, numRegs int, forwarding bool) (*RegBank, error) {
	if numRegs < 2 || numRegs&(numRegs-1) != 0 {
		return nil, errors.Errorf(
			"register bank %q: register count %d is not a power of two",
			name, numRegs)
	}

	r := &RegBank{
		ComponentBase: sim.NewComponentBase(name, latency),
		regs:          make([]uint32, numRegs),
		constant:      make([]bool, numRegs),
		forwarding:    forwarding,
	}

	indexBits := selBits(numRegs)
	r.readReg1 = r.AddInput(r, RegBankReadReg1, indexBits)
	r.readReg2 = r.AddInput(r, RegBankReadReg2, indexBits)
	r.writeReg = r.AddInput(r, RegBankWriteReg, indexBits)
	r.writeData = r.AddInput(r, RegBankWriteData, sim.WordBits)
	r.regWrite = r.AddInput(r, RegBankRegWrite, 1)
	r.regWrite.SetAffectsLatency(false)

	// Without forwarding the write port is consumed only at the clock
	// edge; with it, reads depend on the write port combinationally.
	if !forwarding {
		r.writeReg.MarkLatched()
		r.writeData.MarkLatched()
		r.regWrite.MarkLatched()
	}

	r.readData1 = r.AddOutput(r, RegBankReadData1, sim.WordBits)
	r.readData2 = r.AddOutput(r, RegBankReadData2, sim.WordBits)

	return r, nil
}

// Role returns RoleRegisterFile.
func (r *RegBank) Role() sim.Role { return sim.RoleRegisterFile }

// RegisterCount returns the number of registers.
func (r *RegBank) RegisterCount() int { return len(r.regs) }

// Register returns the current contents of a register.
func (r *RegBank) Register(index int) uint32 { return r.regs[index] }

// SetRegister overwrites a register, unless it is constant.
func (r *RegBank) SetRegister(index int, value uint32) {
	if !r.constant[index] {
		r.regs[index] = value
	}
}

// SetRegisterConstant pins a register to a fixed value; writes to it
// are silently discarded.
func (r *RegBank) SetRegisterConstant(index int, value uint32) {
	r.regs[index] = value
	r.constant[index] = true
}

func (r *RegBank) read(addr uint32) uint32 {
	data := r.regs[addr]
	if r.forwarding && r.regWrite.Uint() == 1 &&
		r.writeReg.Uint() == addr && !r.constant[addr] {
		data = r.writeData.Uint()
	}
	return data
}

// Compute drives both read ports.
func (r *RegBank) Compute() {
	r.readData1.SetValue(r.read(r.readReg1.Uint()))
	r.readData2.SetValue(r.read(r.readReg2.Uint()))
}

// Commit performs the pending write at the clock edge.
func (r *RegBank) Commit() {
	if r.regWrite.Uint() == 1 {
		r.SetRegister(int(r.writeReg.Uint()), r.writeData.Uint())
	}
}

// Snapshot copies the register contents.
func (r *RegBank) Snapshot() sim.State {
	return append([]uint32(nil), r.regs...)
}

// Restore replaces the register contents.
func (r *RegBank) Restore(s sim.State) {
	copy(r.regs, s.([]uint32))
}

// ResetStoredData zeroes every non-constant register.
func (r *RegBank) ResetStoredData() {
	for i := range r.regs {
		if !r.constant[i] {
			r.regs[i] = 0
		}
	}
}
