// Package comps provides the concrete datapath components: gates,
// memories, multiplexers, ALUs, pipeline registers and hazard units.
package comps

import "github.com/sarchlab/mipsim/sim"

// Port names of the PC component.
const (
	PCIn    = "In"
	PCOut   = "Out"
	PCWrite = "Write"
)

// A PC is the program counter: a synchronous register holding the
// address of the instruction being fetched. It also tracks the index
// of the in-flight instruction in the fetch stage.
type PC struct {
	*sim.ComponentBase

	in    *sim.Input
	write *sim.Input
	out   *sim.Output

	address uint32
	index   int
}

var _ sim.ProgramCounter = (*PC)(nil)

// NewPC creates a program counter.
func NewPC(name string, latency int) *PC {
	p := &PC{
		ComponentBase: sim.NewComponentBase(name, latency),
		index:         -1,
	}

	p.in = p.AddInput(p, PCIn, sim.WordBits)
	p.in.MarkLatched()
	p.write = p.AddInput(p, PCWrite, 1)
	p.write.MarkLatched()
	p.write.SetAffectsLatency(false)
	p.out = p.AddOutput(p, PCOut, sim.WordBits)

	return p
}

// Role returns RoleProgramCounter.
func (p *PC) Role() sim.Role { return sim.RoleProgramCounter }

// Compute drives the output with the current address.
func (p *PC) Compute() { p.out.SetValue(p.address) }

// Commit latches the next address at the clock edge. An unconnected
// write-enable reads as asserted.
func (p *PC) Commit() {
	if !p.write.Connected() || p.write.Uint() == 1 {
		p.address = p.in.Uint()
	}
}

// Address returns the current address.
func (p *PC) Address() uint32 { return p.address }

// SetAddress moves the program counter. Use the engine's
// SetProgramCounterAddress so the instruction index stays in sync.
func (p *PC) SetAddress(address uint32) { p.address = address }

// InstructionIndex returns the index of the in-flight instruction in
// the fetch stage, or -1.
func (p *PC) InstructionIndex() int { return p.index }

// SetInstructionIndex records the fetch-stage instruction index.
func (p *PC) SetInstructionIndex(index int) { p.index = index }

type pcState struct {
	address uint32
	index   int
}

// Snapshot captures the address and instruction index.
func (p *PC) Snapshot() sim.State { return pcState{p.address, p.index} }

// Restore replaces the address and instruction index.
func (p *PC) Restore(s sim.State) {
	st := s.(pcState)
	p.address = st.address
	p.index = st.index
}
