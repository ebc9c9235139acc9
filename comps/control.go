package comps

import (
	"github.com/sarchlab/mipsim/isa"
	"github.com/sarchlab/mipsim/sim"
)

// ControlOpcode is the input port name of the control unit.
const ControlOpcode = "Opcode"

// A ControlUnit decodes the opcode field into the control signals
// described by its table. It exposes one output per table signal, in
// table order.
type ControlUnit struct {
	*sim.ComponentBase

	opcode *sim.Input
	outs   map[string]*sim.Output

	table isa.ControlTable
}

// NewControlUnit creates a control unit driven by the given table.
func NewControlUnit(name string, latency int, table isa.ControlTable) *ControlUnit {
	c := &ControlUnit{
		ComponentBase: sim.NewComponentBase(name, latency),
		outs:          make(map[string]*sim.Output),
		table:         table,
	}

	c.opcode = c.AddInput(c, ControlOpcode, table.OpcodeSize)
	for _, sig := range table.Signals {
		c.outs[sig.Name] = c.AddOutput(c, sig.Name, sig.Size)
	}

	return c
}

// Role returns RoleControlUnit.
func (c *ControlUnit) Role() sim.Role { return sim.RoleControlUnit }

// Compute drives every control signal from the opcode row.
func (c *ControlUnit) Compute() {
	opcode := c.opcode.Uint()
	for _, sig := range c.table.Signals {
		c.outs[sig.Name].SetValue(c.table.Value(opcode, sig.Name))
	}
}

// Port names of the ALU controller.
const (
	ALUControlALUOp     = "ALUOp"
	ALUControlFunct     = "Funct"
	ALUControlOperation = "Operation"
)

// An ALUControl resolves the two-level ALU control: the ALUOp signal
// from the control unit plus the funct field select the control code
// driven into the ALU.
type ALUControl struct {
	*sim.ComponentBase

	aluOp     *sim.Input
	funct     *sim.Input
	operation *sim.Output

	table isa.ALUControlTable
}

// NewALUControl creates an ALU controller driven by the given truth
// table.
func NewALUControl(name string, latency int, table isa.ALUControlTable) *ALUControl {
	c := &ALUControl{
		ComponentBase: sim.NewComponentBase(name, latency),
		table:         table,
	}

	c.aluOp = c.AddInput(c, ALUControlALUOp, table.ALUOpSize)
	c.funct = c.AddInput(c, ALUControlFunct, table.FunctSize)
	c.operation = c.AddOutput(c, ALUControlOperation, table.ControlSize)

	return c
}

// Role returns RoleALUControl.
func (c *ALUControl) Role() sim.Role { return sim.RoleALUControl }

// Compute drives the control code for the current ALUOp/funct pair.
func (c *ALUControl) Compute() {
	c.operation.SetValue(c.table.Control(c.aluOp.Uint(), c.funct.Uint()))
}
