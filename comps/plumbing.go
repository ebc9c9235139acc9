package comps

import (
	"fmt"

	"github.com/sarchlab/mipsim/sim"
)

// selBits returns the width of a selector addressing n inputs.
func selBits(n int) int {
	bits := 1
	for 1<<uint(bits) < n {
		bits++
	}
	return bits
}

// A Fork replicates its input onto several outputs. Fan-out is always
// explicit: an output drives exactly one input.
type Fork struct {
	*sim.ComponentBase

	in   *sim.Input
	outs []*sim.Output
}

// NewFork creates a fork with the given bus width and output count.
// Outputs are named Out0..Out<n-1>.
func NewFork(name string, latency, size, n int) *Fork {
	f := &Fork{ComponentBase: sim.NewComponentBase(name, latency)}
	f.in = f.AddInput(f, GateIn, size)
	for i := 0; i < n; i++ {
		f.outs = append(f.outs, f.AddOutput(f, fmt.Sprintf("Out%d", i), size))
	}
	return f
}

// Compute copies the input to every output.
func (f *Fork) Compute() {
	for _, out := range f.outs {
		out.SetValue(f.in.Uint())
	}
}

// A Multiplexer selects one of its inputs. Inputs are named
// In0..In<n-1>; the selector is Sel.
type Multiplexer struct {
	*sim.ComponentBase

	ins []*sim.Input
	sel *sim.Input
	out *sim.Output
}

// MuxSel is the selector port name of a multiplexer.
const MuxSel = "Sel"

// NewMultiplexer creates a multiplexer with n inputs of the given bus
// width.
func NewMultiplexer(name string, latency, size, n int) *Multiplexer {
	m := &Multiplexer{ComponentBase: sim.NewComponentBase(name, latency)}
	for i := 0; i < n; i++ {
		m.ins = append(m.ins, m.AddInput(m, fmt.Sprintf("In%d", i), size))
	}
	m.sel = m.AddInput(m, MuxSel, selBits(n))
	m.out = m.AddOutput(m, GateOut, size)
	return m
}

// Compute drives the selected input; an out-of-range selector drives
// zero.
func (m *Multiplexer) Compute() {
	sel := int(m.sel.Uint())
	if sel >= len(m.ins) {
		m.out.SetValue(0)
		return
	}
	m.out.SetValue(m.ins[sel].Uint())
}

// A Distributor splits its input bus into named bit slices.
type Distributor struct {
	*sim.ComponentBase

	in     *sim.Input
	slices []distSlice
}

type distSlice struct {
	out      *sim.Output
	msb, lsb int
}

// NewDistributor creates a distributor over a bus of the given width.
func NewDistributor(name string, latency, size int) *Distributor {
	d := &Distributor{ComponentBase: sim.NewComponentBase(name, latency)}
	d.in = d.AddInput(d, GateIn, size)
	return d
}

// AddSlice declares an output carrying bits msb..lsb of the input,
// named "<msb>-<lsb>".
func (d *Distributor) AddSlice(msb, lsb int) *sim.Output {
	out := d.AddOutput(d, fmt.Sprintf("%d-%d", msb, lsb), msb-lsb+1)
	d.slices = append(d.slices, distSlice{out: out, msb: msb, lsb: lsb})
	return out
}

// Compute drives every declared slice.
func (d *Distributor) Compute() {
	v := d.in.Value()
	for _, s := range d.slices {
		s.out.SetValue(v.Slice(s.msb, s.lsb).Uint())
	}
}

// A Constant drives a fixed value.
type Constant struct {
	*sim.ComponentBase

	out   *sim.Output
	value uint32
}

// NewConstant creates a constant of the given width and value.
func NewConstant(name string, latency, size int, value uint32) *Constant {
	c := &Constant{
		ComponentBase: sim.NewComponentBase(name, latency),
		value:         value,
	}
	c.out = c.AddOutput(c, GateOut, size)
	return c
}

// Compute drives the constant value.
func (c *Constant) Compute() { c.out.SetValue(c.value) }

// A SignExtend widens its input, replicating the sign bit.
type SignExtend struct {
	*sim.ComponentBase

	in  *sim.Input
	out *sim.Output
}

// NewSignExtend creates a sign extender from inSize to outSize bits.
func NewSignExtend(name string, latency, inSize, outSize int) *SignExtend {
	s := &SignExtend{ComponentBase: sim.NewComponentBase(name, latency)}
	s.in = s.AddInput(s, GateIn, inSize)
	s.out = s.AddOutput(s, GateOut, outSize)
	return s
}

// Compute drives the sign-extended input.
func (s *SignExtend) Compute() {
	s.out.SetValue(uint32(s.in.Value().Int()))
}

// A ZeroExtend widens its input with zero bits.
type ZeroExtend struct {
	*sim.ComponentBase

	in  *sim.Input
	out *sim.Output
}

// NewZeroExtend creates a zero extender from inSize to outSize bits.
func NewZeroExtend(name string, latency, inSize, outSize int) *ZeroExtend {
	z := &ZeroExtend{ComponentBase: sim.NewComponentBase(name, latency)}
	z.in = z.AddInput(z, GateIn, inSize)
	z.out = z.AddOutput(z, GateOut, outSize)
	return z
}

// Compute drives the zero-extended input.
func (z *ZeroExtend) Compute() { z.out.SetValue(z.in.Uint()) }

// A ShiftLeft shifts its input left by a fixed amount.
type ShiftLeft struct {
	*sim.ComponentBase

	in     *sim.Input
	out    *sim.Output
	amount int
}

// NewShiftLeft creates a fixed left shifter.
func NewShiftLeft(name string, latency, inSize, outSize, amount int) *ShiftLeft {
	s := &ShiftLeft{
		ComponentBase: sim.NewComponentBase(name, latency),
		amount:        amount,
	}
	s.in = s.AddInput(s, GateIn, inSize)
	s.out = s.AddOutput(s, GateOut, outSize)
	return s
}

// Compute drives the shifted input.
func (s *ShiftLeft) Compute() {
	s.out.SetValue(s.in.Uint() << uint(s.amount))
}

// A Concatenator joins two buses; In1 becomes the high bits.
type Concatenator struct {
	*sim.ComponentBase

	in1, in2 *sim.Input
	out      *sim.Output
}

// NewConcatenator creates a concatenator of two buses of the given
// widths.
func NewConcatenator(name string, latency, size1, size2 int) *Concatenator {
	c := &Concatenator{ComponentBase: sim.NewComponentBase(name, latency)}
	c.in1 = c.AddInput(c, GateIn1, size1)
	c.in2 = c.AddInput(c, GateIn2, size2)
	c.out = c.AddOutput(c, GateOut, size1+size2)
	return c
}

// Compute drives the concatenation of the two inputs.
func (c *Concatenator) Compute() {
	c.out.SetValue(c.in1.Uint()<<uint(c.in2.Size()) | c.in2.Uint())
}
