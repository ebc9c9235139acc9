package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// Role tags a component with the architectural role it fills in the
// datapath. All roles except RolePipelineRegister are singletons.
type Role int

// The closed set of architectural roles.
const (
	RoleNone Role = iota
	RoleProgramCounter
	RoleRegisterFile
	RoleInstructionMemory
	RoleControlUnit
	RoleALU
	RoleALUControl
	RoleDataMemory
	RoleForwardingUnit
	RoleHazardUnit
	RolePipelineRegister
)

var roleNames = map[Role]string{
	RoleNone:              "none",
	RoleProgramCounter:    "program counter",
	RoleRegisterFile:      "register file",
	RoleInstructionMemory: "instruction memory",
	RoleControlUnit:       "control unit",
	RoleALU:               "ALU",
	RoleALUControl:        "ALU control",
	RoleDataMemory:        "data memory",
	RoleForwardingUnit:    "forwarding unit",
	RoleHazardUnit:        "hazard detection unit",
	RolePipelineRegister:  "pipeline register",
}

func (r Role) String() string { return roleNames[r] }

// Stage identifies one of the four pipeline stage boundaries.
type Stage int

// The four canonical stage boundaries, in stage order.
const (
	StageIFID Stage = iota
	StageIDEX
	StageEXMEM
	StageMEMWB
)

var stageIDs = [...]string{"IF/ID", "ID/EX", "EX/MEM", "MEM/WB"}

func (s Stage) String() string { return stageIDs[s] }

// A Component is a node in the datapath graph with typed ports and a
// propagation delay.
type Component interface {
	Named

	Role() Role

	Latency() int
	SetLatency(latency int)
	ResetLatency()
	AccumulatedLatency() int
	SetAccumulatedLatency(latency int)

	InCriticalPath() bool
	MarkCriticalPath(in bool)
	InControlPath() bool
	MarkControlPath()

	Inputs() []*Input
	Outputs() []*Output
	Input(name string) (*Input, bool)
	Output(name string) (*Output, bool)

	// Compute re-evaluates the component's outputs from its current
	// inputs and internal state. It must not mutate synchronous state.
	Compute()
}

// Synchronous is the capability interface for components with
// persistent state that changes only at the clock edge.
type Synchronous interface {
	Component

	// Commit applies the pending next-state at the clock edge, without
	// propagating output changes.
	Commit()

	// Snapshot captures the internal state for the history arena.
	Snapshot() State

	// Restore replaces the internal state with a snapshot.
	Restore(s State)
}

// State is an opaque snapshot of one synchronous component's internal
// state.
type State interface{}

// Resettable marks components whose stored architectural contents can
// be zeroed, distinct from execution rewind.
type Resettable interface {
	ResetStoredData()
}

// ProgramCounter is the contract that the engine requires from the
// component filling RoleProgramCounter.
type ProgramCounter interface {
	Synchronous

	Address() uint32
	SetAddress(address uint32)
	InstructionIndex() int
	SetInstructionIndex(index int)
}

// InstructionSource is the contract required of the instruction
// memory.
type InstructionSource interface {
	Component

	InstructionCount() int
}

// RegisterFile is the contract required of the register file.
type RegisterFile interface {
	Synchronous
	Resettable

	RegisterCount() int
}

// PipelineRegister is the contract required of the four stage-boundary
// registers.
type PipelineRegister interface {
	Synchronous

	Stage() Stage
	InstructionIndex() int
	SetInstructionIndex(index int)

	// WriteAsserted reports the write-enable control; an unconnected
	// write-enable reads as asserted.
	WriteAsserted() bool

	// FlushAsserted reports the flush control; an unconnected flush
	// reads as deasserted. Flush takes precedence over write.
	FlushAsserted() bool
}

// ComponentBase provides the port, latency and path bookkeeping that
// all components share.
type ComponentBase struct {
	name            string
	latency         int
	declaredLatency int
	accLatency      int
	inCriticalPath  bool
	inControlPath   bool

	inputs    []*Input
	outputs   []*Output
	inputIdx  map[string]*Input
	outputIdx map[string]*Output
}

// NewComponentBase creates a new ComponentBase.
func NewComponentBase(name string, latency int) *ComponentBase {
	if latency < 0 {
		latency = 0
	}
	return &ComponentBase{
		name:            name,
		latency:         latency,
		declaredLatency: latency,
		inputIdx:        make(map[string]*Input),
		outputIdx:       make(map[string]*Output),
	}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string { return c.name }

// Role returns RoleNone. Components that fill an architectural role
// override it.
func (c *ComponentBase) Role() Role { return RoleNone }

// Latency returns the component's intrinsic propagation delay.
func (c *ComponentBase) Latency() int { return c.latency }

// SetLatency changes the component's intrinsic propagation delay.
// RecomputeTiming must be called on the graph afterwards.
func (c *ComponentBase) SetLatency(latency int) {
	if latency < 0 {
		latency = 0
	}
	c.latency = latency
}

// ResetLatency restores the latency declared at construction time.
func (c *ComponentBase) ResetLatency() { c.latency = c.declaredLatency }

// AccumulatedLatency returns the total propagation delay from the
// circuit sources through this component.
func (c *ComponentBase) AccumulatedLatency() int { return c.accLatency }

// SetAccumulatedLatency records the settled accumulated latency. It is
// called by the timing analyzer.
func (c *ComponentBase) SetAccumulatedLatency(latency int) { c.accLatency = latency }

// InCriticalPath reports whether the component is on the critical
// path.
func (c *ComponentBase) InCriticalPath() bool { return c.inCriticalPath }

// MarkCriticalPath sets the critical-path membership flag.
func (c *ComponentBase) MarkCriticalPath(in bool) { c.inCriticalPath = in }

// InControlPath reports whether the component is a control-path
// member.
func (c *ComponentBase) InControlPath() bool { return c.inControlPath }

// MarkControlPath flags the component as a control-path member.
func (c *ComponentBase) MarkControlPath() { c.inControlPath = true }

// Inputs returns the inputs in declaration order.
func (c *ComponentBase) Inputs() []*Input { return c.inputs }

// Outputs returns the outputs in declaration order.
func (c *ComponentBase) Outputs() []*Output { return c.outputs }

// Input returns the input with the given name.
func (c *ComponentBase) Input(name string) (*Input, bool) {
	in, ok := c.inputIdx[name]
	return in, ok
}

// Output returns the output with the given name.
func (c *ComponentBase) Output(name string) (*Output, bool) {
	out, ok := c.outputIdx[name]
	return out, ok
}

// AddInput declares a new input on the component. The owner must be
// the component embedding this base.
func (c *ComponentBase) AddInput(owner Component, name string, size int) *Input {
	in := &Input{
		name:           name,
		comp:           owner,
		size:           size,
		value:          NewValue(size, 0),
		affectsLatency: true,
	}
	c.inputs = append(c.inputs, in)
	c.inputIdx[name] = in
	return in
}

// AddOutput declares a new output on the component.
func (c *ComponentBase) AddOutput(owner Component, name string, size int) *Output {
	out := &Output{
		name:  name,
		comp:  owner,
		size:  size,
		value: NewValue(size, 0),
	}
	c.outputs = append(c.outputs, out)
	c.outputIdx[name] = out
	return out
}
