package comps

import (
	"github.com/sarchlab/mipsim/isa"
	"github.com/sarchlab/mipsim/sim"
)

// Port names of the ALU.
const (
	ALUIn1       = "In1"
	ALUIn2       = "In2"
	ALUControlIn = "Control"
	ALUOut       = "Out"
	ALUZero      = "Zero"
)

// An ALU performs the operation selected by its control code, as
// interpreted by the table fed in at load time.
type ALU struct {
	*sim.ComponentBase

	in1, in2 *sim.Input
	control  *sim.Input
	out      *sim.Output
	zero     *sim.Output

	table isa.ALUControlTable
}

// NewALU creates an ALU interpreting control codes per the given
// table.
func NewALU(name string, latency int, table isa.ALUControlTable) *ALU {
	a := &ALU{
		ComponentBase: sim.NewComponentBase(name, latency),
		table:         table,
	}

	a.in1 = a.AddInput(a, ALUIn1, sim.WordBits)
	a.in2 = a.AddInput(a, ALUIn2, sim.WordBits)
	a.control = a.AddInput(a, ALUControlIn, table.ControlSize)
	a.control.SetAffectsLatency(false)
	a.out = a.AddOutput(a, ALUOut, sim.WordBits)
	a.zero = a.AddOutput(a, ALUZero, 1)

	return a
}

// Role returns RoleALU.
func (a *ALU) Role() sim.Role { return sim.RoleALU }

// Zero returns the zero-flag output.
func (a *ALU) Zero() *sim.Output { return a.zero }

// Operation returns the operation currently selected by the control
// input.
func (a *ALU) Operation() isa.Operation {
	return a.table.Operation(a.control.Uint())
}

func (a *ALU) result(op isa.Operation) uint32 {
	x, y := a.in1.Uint(), a.in2.Uint()

	switch op {
	case isa.OpAdd:
		return x + y
	case isa.OpSub:
		return x - y
	case isa.OpAnd:
		return x & y
	case isa.OpOr:
		return x | y
	case isa.OpXor:
		return x ^ y
	case isa.OpNor:
		return ^(x | y)
	case isa.OpSetLessThan:
		if int32(x) < int32(y) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (a *ALU) drive(result uint32) {
	a.out.SetValue(result)
	if result == 0 {
		a.zero.SetValue(1)
	} else {
		a.zero.SetValue(0)
	}
}

// Compute drives the result and the zero flag.
func (a *ALU) Compute() {
	a.drive(a.result(a.Operation()))
}

// An ExtendedALU adds multiply/divide with hi/lo accumulator
// registers. The accumulators update at the clock edge, making the
// component synchronous.
type ExtendedALU struct {
	*ALU

	hi, lo uint32
}

var _ sim.Synchronous = (*ExtendedALU)(nil)
var _ sim.Resettable = (*ExtendedALU)(nil)

// NewExtendedALU creates an ALU with hi/lo accumulators.
func NewExtendedALU(name string, latency int, table isa.ALUControlTable) *ExtendedALU {
	return &ExtendedALU{ALU: NewALU(name, latency, table)}
}

// Compute drives the result, reading the accumulators for the
// move-from operations.
func (a *ExtendedALU) Compute() {
	switch op := a.Operation(); op {
	case isa.OpMoveFromHi:
		a.drive(a.hi)
	case isa.OpMoveFromLo:
		a.drive(a.lo)
	default:
		a.drive(a.result(op))
	}
}

// Commit updates the accumulators at the clock edge.
func (a *ExtendedALU) Commit() {
	x, y := a.in1.Uint(), a.in2.Uint()

	switch a.Operation() {
	case isa.OpMultiply:
		product := int64(int32(x)) * int64(int32(y))
		a.lo = uint32(product)
		a.hi = uint32(product >> 32)
	case isa.OpDivide:
		if y != 0 {
			a.lo = uint32(int32(x) / int32(y))
			a.hi = uint32(int32(x) % int32(y))
		}
	}
}

type extALUState struct {
	hi, lo uint32
}

// Snapshot captures the accumulators.
func (a *ExtendedALU) Snapshot() sim.State { return extALUState{a.hi, a.lo} }

// Restore replaces the accumulators.
func (a *ExtendedALU) Restore(s sim.State) {
	st := s.(extALUState)
	a.hi = st.hi
	a.lo = st.lo
}

// Hi returns the hi accumulator.
func (a *ExtendedALU) Hi() uint32 { return a.hi }

// Lo returns the lo accumulator.
func (a *ExtendedALU) Lo() uint32 { return a.lo }

// ResetStoredData zeroes the accumulators.
func (a *ExtendedALU) ResetStoredData() {
	a.hi = 0
	a.lo = 0
}
