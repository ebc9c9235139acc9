package comps

import "github.com/sarchlab/mipsim/sim"

// Port names shared by the two-operand combinational components.
const (
	GateIn1 = "In1"
	GateIn2 = "In2"
	GateIn  = "In"
	GateOut = "Out"
)

// An Add sums two words.
type Add struct {
	*sim.ComponentBase

	in1, in2 *sim.Input
	out      *sim.Output
}

// NewAdd creates a word adder.
func NewAdd(name string, latency int) *Add {
	a := &Add{ComponentBase: sim.NewComponentBase(name, latency)}
	a.in1 = a.AddInput(a, GateIn1, sim.WordBits)
	a.in2 = a.AddInput(a, GateIn2, sim.WordBits)
	a.out = a.AddOutput(a, GateOut, sim.WordBits)
	return a
}

// Compute drives the sum of the two inputs.
func (a *Add) Compute() { a.out.SetValue(a.in1.Uint() + a.in2.Uint()) }

// An And is a 1-bit AND gate.
type And struct {
	*sim.ComponentBase

	in1, in2 *sim.Input
	out      *sim.Output
}

// NewAnd creates a 1-bit AND gate.
func NewAnd(name string, latency int) *And {
	g := &And{ComponentBase: sim.NewComponentBase(name, latency)}
	g.in1 = g.AddInput(g, GateIn1, 1)
	g.in2 = g.AddInput(g, GateIn2, 1)
	g.out = g.AddOutput(g, GateOut, 1)
	return g
}

// Compute drives the conjunction of the two inputs.
func (g *And) Compute() { g.out.SetValue(g.in1.Uint() & g.in2.Uint()) }

// An Or is a 1-bit OR gate.
type Or struct {
	*sim.ComponentBase

	in1, in2 *sim.Input
	out      *sim.Output
}

// NewOr creates a 1-bit OR gate.
func NewOr(name string, latency int) *Or {
	g := &Or{ComponentBase: sim.NewComponentBase(name, latency)}
	g.in1 = g.AddInput(g, GateIn1, 1)
	g.in2 = g.AddInput(g, GateIn2, 1)
	g.out = g.AddOutput(g, GateOut, 1)
	return g
}

// Compute drives the disjunction of the two inputs.
func (g *Or) Compute() { g.out.SetValue(g.in1.Uint() | g.in2.Uint()) }

// A Xor is a 1-bit XOR gate.
type Xor struct {
	*sim.ComponentBase

	in1, in2 *sim.Input
	out      *sim.Output
}

// NewXor creates a 1-bit XOR gate.
func NewXor(name string, latency int) *Xor {
	g := &Xor{ComponentBase: sim.NewComponentBase(name, latency)}
	g.in1 = g.AddInput(g, GateIn1, 1)
	g.in2 = g.AddInput(g, GateIn2, 1)
	g.out = g.AddOutput(g, GateOut, 1)
	return g
}

// Compute drives the exclusive-or of the two inputs.
func (g *Xor) Compute() { g.out.SetValue(g.in1.Uint() ^ g.in2.Uint()) }

// A Not is a 1-bit inverter.
type Not struct {
	*sim.ComponentBase

	in  *sim.Input
	out *sim.Output
}

// NewNot creates a 1-bit inverter.
func NewNot(name string, latency int) *Not {
	g := &Not{ComponentBase: sim.NewComponentBase(name, latency)}
	g.in = g.AddInput(g, GateIn, 1)
	g.out = g.AddOutput(g, GateOut, 1)
	return g
}

// Compute drives the negation of the input.
func (g *Not) Compute() { g.out.SetValue(^g.in.Uint()) }
