package sim

import "fmt"

// fakeComp is a combinational component that drives every output with
// the sum of its inputs plus a fixed bias. A shared trace slice
// records evaluation order.
type fakeComp struct {
	*ComponentBase

	bias  uint32
	trace *[]string
}

func newFakeComp(name string, latency, numIn, numOut int) *fakeComp {
	c := &fakeComp{ComponentBase: NewComponentBase(name, latency)}
	for i := 0; i < numIn; i++ {
		c.AddInput(c, fmt.Sprintf("In%d", i), WordBits)
	}
	for i := 0; i < numOut; i++ {
		c.AddOutput(c, fmt.Sprintf("Out%d", i), WordBits)
	}
	return c
}

func (c *fakeComp) Compute() {
	if c.trace != nil {
		*c.trace = append(*c.trace, c.Name())
	}

	sum := c.bias
	for _, in := range c.Inputs() {
		sum += in.Uint()
	}
	for _, out := range c.Outputs() {
		out.SetValue(sum)
	}
}

// fakePC is the smallest component that satisfies the program counter
// contract.
type fakePC struct {
	*ComponentBase

	in  *Input
	out *Output

	address uint32
	index   int
}

func newFakePC(name string) *fakePC {
	p := &fakePC{
		ComponentBase: NewComponentBase(name, 0),
		index:         -1,
	}
	p.in = p.AddInput(p, "In", WordBits)
	p.in.MarkLatched()
	p.out = p.AddOutput(p, "Out", WordBits)
	return p
}

func (p *fakePC) Role() Role { return RoleProgramCounter }

func (p *fakePC) Compute() { p.out.SetValue(p.address) }

func (p *fakePC) Commit() { p.address = p.in.Uint() }

type fakePCState struct {
	address uint32
	index   int
}

func (p *fakePC) Snapshot() State { return fakePCState{p.address, p.index} }
func (p *fakePC) Restore(s State) {
	st := s.(fakePCState)
	p.address = st.address
	p.index = st.index
}

func (p *fakePC) Address() uint32 { return p.address }

func (p *fakePC) SetAddress(address uint32) { p.address = address }

func (p *fakePC) InstructionIndex() int { return p.index }

func (p *fakePC) SetInstructionIndex(i int) { p.index = i }

// fakeIMem reports a fixed instruction count.
type fakeIMem struct {
	*ComponentBase

	count int
}

func newFakeIMem(name string, count int) *fakeIMem {
	m := &fakeIMem{
		ComponentBase: NewComponentBase(name, 0),
		count:         count,
	}
	m.AddInput(m, "Address", WordBits)
	return m
}

func (m *fakeIMem) Role() Role { return RoleInstructionMemory }

func (m *fakeIMem) Compute() {}

func (m *fakeIMem) InstructionCount() int { return m.count }

// fakeRegs is a register file with no ports.
type fakeRegs struct {
	*ComponentBase

	regs []uint32
}

func newFakeRegs(name string, count int) *fakeRegs {
	return &fakeRegs{
		ComponentBase: NewComponentBase(name, 0),
		regs:          make([]uint32, count),
	}
}

func (r *fakeRegs) Role() Role { return RoleRegisterFile }

func (r *fakeRegs) Compute() {}

func (r *fakeRegs) Commit() {}

func (r *fakeRegs) RegisterCount() int { return len(r.regs) }

func (r *fakeRegs) Snapshot() State { return append([]uint32(nil), r.regs...) }
func (r *fakeRegs) Restore(s State) { copy(r.regs, s.([]uint32)) }
func (r *fakeRegs) ResetStoredData() {
	for i := range r.regs {
		r.regs[i] = 0
	}
}

// fakeControl fills the control unit role and does nothing.
type fakeControl struct {
	*ComponentBase
}

func newFakeControl(name string) *fakeControl {
	return &fakeControl{ComponentBase: NewComponentBase(name, 0)}
}

func (c *fakeControl) Role() Role { return RoleControlUnit }

func (c *fakeControl) Compute() {}

// fakePipeReg satisfies the pipeline register contract with directly
// settable write and flush controls.
type fakePipeReg struct {
	*ComponentBase

	stage Stage
	index int
	write bool
	flush bool

	in    *Input
	out   *Output
	value uint32
}

func newFakePipeReg(name string) *fakePipeReg {
	stage, ok := ParseStage(name)
	if !ok {
		panic("fake pipeline register must carry a canonical stage name")
	}

	r := &fakePipeReg{
		ComponentBase: NewComponentBase(name, 0),
		stage:         stage,
		index:         -1,
		write:         true,
	}
	r.in = r.AddInput(r, "In", WordBits)
	r.in.MarkLatched()
	r.out = r.AddOutput(r, "Out", WordBits)
	return r
}

func (r *fakePipeReg) Role() Role { return RolePipelineRegister }

func (r *fakePipeReg) Stage() Stage { return r.stage }

func (r *fakePipeReg) Compute() { r.out.SetValue(r.value) }

func (r *fakePipeReg) Commit() {
	switch {
	case r.flush:
		r.value = 0
	case r.write:
		r.value = r.in.Uint()
	}
}

type fakePipeRegState struct {
	value uint32
	index int
}

func (r *fakePipeReg) Snapshot() State { return fakePipeRegState{r.value, r.index} }
func (r *fakePipeReg) Restore(s State) {
	st := s.(fakePipeRegState)
	r.value = st.value
	r.index = st.index
}

func (r *fakePipeReg) InstructionIndex() int { return r.index }

func (r *fakePipeReg) SetInstructionIndex(i int) { r.index = i }

func (r *fakePipeReg) WriteAsserted() bool { return r.write }

func (r *fakePipeReg) FlushAsserted() bool { return r.flush }

// minimalDatapath builds the smallest valid datapath: a program
// counter that advances by four each cycle.
func minimalDatapath(instructionCount int, step uint32) (*Datapath, *fakePC) {
	dp := NewDatapath()
	pc := newFakePC("pc")

	fork := newFakeComp("fork", 0, 1, 2)
	next := newFakeComp("next", 0, 1, 1)
	next.bias = step

	mustAdd(dp, pc)
	mustAdd(dp, fork)
	mustAdd(dp, next)
	mustAdd(dp, newFakeIMem("imem", instructionCount))
	mustAdd(dp, newFakeRegs("regbank", 4))
	mustAdd(dp, newFakeControl("control"))

	mustConnect(dp, "pc", "Out", "fork", "In0")
	mustConnect(dp, "fork", "Out0", "imem", "Address")
	mustConnect(dp, "fork", "Out1", "next", "In0")
	mustConnect(dp, "next", "Out0", "pc", "In")

	return dp, pc
}

func mustAdd(dp *Datapath, c Component) {
	if err := dp.AddComponent(c); err != nil {
		panic(err)
	}
}

func mustConnect(dp *Datapath, outComp, outPort, inComp, inPort string) {
	if _, err := dp.Connect(outComp, outPort, inComp, inPort); err != nil {
		panic(err)
	}
}
