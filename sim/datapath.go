package sim

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RegisterPrefix is the character that prefixes register references.
const RegisterPrefix = '$'

var registerNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)

// ParseStage maps a pipeline-register identifier to its stage
// boundary. Identifiers are matched case-insensitively after trimming.
func ParseStage(id string) (Stage, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for s, name := range stageIDs {
		if id == name {
			return Stage(s), true
		}
	}
	return 0, false
}

// A Datapath owns the components of one simulated circuit. It is the
// sole root of the component set and is torn down as a unit when a new
// circuit is loaded.
type Datapath struct {
	components []Component
	nameIndex  map[string]int

	syncs    []Synchronous
	roles    map[Role]string
	pipeRegs map[Stage]string

	registerNames []string

	order     []Component
	validated bool
}

// NewDatapath creates an empty datapath.
func NewDatapath() *Datapath {
	return &Datapath{
		nameIndex: make(map[string]int),
		roles:     make(map[Role]string),
		pipeRegs:  make(map[Stage]string),
	}
}

// AddComponent registers a component with the datapath. Components are
// processed in registration order throughout the engine.
func (dp *Datapath) AddComponent(c Component) error {
	name := c.Name()
	if _, exists := dp.nameIndex[name]; exists {
		return errors.Wrapf(ErrDuplicateID, "%q", name)
	}

	if err := dp.registerRole(c); err != nil {
		return err
	}

	dp.components = append(dp.components, c)
	dp.nameIndex[name] = len(dp.components) - 1

	if s, ok := c.(Synchronous); ok {
		dp.syncs = append(dp.syncs, s)
	}

	dp.validated = false

	return nil
}

func (dp *Datapath) registerRole(c Component) error {
	role := c.Role()

	switch role {
	case RoleNone:
		return nil
	case RolePipelineRegister:
		return dp.registerPipelineRegister(c)
	default:
		if holder, occupied := dp.roles[role]; occupied {
			return errors.Wrapf(ErrRoleConflict,
				"%s: %q conflicts with %q", role, c.Name(), holder)
		}
		dp.roles[role] = c.Name()
		return nil
	}
}

func (dp *Datapath) registerPipelineRegister(c Component) error {
	stage, ok := ParseStage(c.Name())
	if !ok {
		return errors.Wrapf(ErrRoleConflict,
			"%q is not one of {IF/ID, ID/EX, EX/MEM, MEM/WB}", c.Name())
	}
	if holder, occupied := dp.pipeRegs[stage]; occupied {
		return errors.Wrapf(ErrRoleConflict,
			"stage %s: %q conflicts with %q", stage, c.Name(), holder)
	}

	dp.pipeRegs[stage] = c.Name()

	return nil
}

// Component returns the component with the given identifier.
func (dp *Datapath) Component(name string) (Component, bool) {
	i, ok := dp.nameIndex[name]
	if !ok {
		return nil, false
	}
	return dp.components[i], true
}

// Components returns all components in registration order.
func (dp *Datapath) Components() []Component { return dp.components }

// SynchronousComponents returns the synchronous components in
// registration order.
func (dp *Datapath) SynchronousComponents() []Synchronous { return dp.syncs }

// Pipelined reports whether the datapath carries pipeline registers.
func (dp *Datapath) Pipelined() bool { return len(dp.pipeRegs) > 0 }

// RoleHolder returns the component filling the given singleton role.
func (dp *Datapath) RoleHolder(role Role) (Component, bool) {
	name, ok := dp.roles[role]
	if !ok {
		return nil, false
	}
	return dp.Component(name)
}

// PipelineRegister returns the pipeline register at the given stage
// boundary.
func (dp *Datapath) PipelineRegister(stage Stage) (PipelineRegister, bool) {
	name, ok := dp.pipeRegs[stage]
	if !ok {
		return nil, false
	}
	c, _ := dp.Component(name)
	pr, ok := c.(PipelineRegister)
	return pr, ok
}

// Connect wires outPort of the component outComp to inPort of the
// component inComp.
func (dp *Datapath) Connect(outComp, outPort, inComp, inPort string) (*Output, error) {
	from, ok := dp.Component(outComp)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownComponent, "%q", outComp)
	}
	to, ok := dp.Component(inComp)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownComponent, "%q", inComp)
	}

	out, ok := from.Output(outPort)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPort, "%q.%q", outComp, outPort)
	}
	in, ok := to.Input(inPort)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPort, "%q.%q", inComp, inPort)
	}

	if err := connect(out, in); err != nil {
		return nil, err
	}

	dp.validated = false

	return out, nil
}

// Validate checks topological completeness: the required architectural
// roles are present, the pipeline-register count is 0 or 4, and the
// combinational network is loop-free. It also fixes the evaluation
// order reused by every propagation pass.
func (dp *Datapath) Validate() error {
	required := []Role{
		RoleProgramCounter,
		RoleRegisterFile,
		RoleInstructionMemory,
		RoleControlUnit,
	}
	for _, role := range required {
		if _, ok := dp.roles[role]; !ok {
			return errors.Wrapf(ErrMissingComponent, "%s", role)
		}
	}

	if n := len(dp.pipeRegs); n != 0 && n != 4 {
		return errors.Wrapf(ErrPipelineRegisterCount, "found %d", n)
	}

	order, err := dp.topologicalOrder()
	if err != nil {
		return err
	}
	dp.order = order
	dp.validated = true

	return nil
}

// topologicalOrder computes a combinational evaluation order. Edges
// into latched inputs are cut: those values are consumed only at the
// clock edge, so the remaining graph must be a DAG.
func (dp *Datapath) topologicalOrder() ([]Component, error) {
	indegree := make([]int, len(dp.components))
	for _, c := range dp.components {
		for _, in := range c.Inputs() {
			if in.Latched() || !in.Connected() {
				continue
			}
			indegree[dp.nameIndex[c.Name()]]++
		}
	}

	var frontier []int
	for i, d := range indegree {
		if d == 0 {
			frontier = append(frontier, i)
		}
	}

	order := make([]Component, 0, len(dp.components))
	for len(frontier) > 0 {
		i := frontier[0]
		frontier = frontier[1:]
		c := dp.components[i]
		order = append(order, c)

		for _, out := range c.Outputs() {
			if !out.Connected() {
				continue
			}
			in := out.Connection()
			if in.Latched() {
				continue
			}
			j := dp.nameIndex[in.Component().Name()]
			indegree[j]--
			if indegree[j] == 0 {
				frontier = append(frontier, j)
			}
		}
	}

	if len(order) != len(dp.components) {
		for i, d := range indegree {
			if d > 0 {
				return nil, errors.Wrapf(ErrCombinationalLoop,
					"through %q", dp.components[i].Name())
			}
		}
	}

	return order, nil
}

// Settle re-runs every component's combinational compute in the
// topological evaluation order. Validate must have succeeded.
func (dp *Datapath) Settle() {
	for _, c := range dp.order {
		c.Compute()
	}
}

// SetRegisterNames installs the human-readable register names, one per
// register-file slot. Names are matched case-insensitively and must be
// unique, alphanumeric and start with a letter.
func (dp *Datapath) SetRegisterNames(names []string) error {
	rf, ok := dp.registerFile()
	if !ok {
		return errors.Wrap(ErrMissingComponent, "register file")
	}
	if len(names) != rf.RegisterCount() {
		return errors.Wrapf(ErrRegisterNames,
			"%d names for %d registers", len(names), rf.RegisterCount())
	}

	lowered := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if !registerNameRegex.MatchString(name) {
			return errors.Wrapf(ErrRegisterNames, "invalid name %q", name)
		}
		if seen[name] {
			return errors.Wrapf(ErrRegisterNames, "duplicate name %q", name)
		}
		seen[name] = true
		lowered = append(lowered, name)
	}

	dp.registerNames = lowered

	return nil
}

func (dp *Datapath) registerFile() (RegisterFile, bool) {
	c, ok := dp.RoleHolder(RoleRegisterFile)
	if !ok {
		return nil, false
	}
	rf, ok := c.(RegisterFile)
	return rf, ok
}

// RegisterIndex resolves a register reference ("$zero", "zero", "$0",
// "0") to its index. The prefix is optional. It returns -1 if the
// register does not exist. Named lookups are case-insensitive.
func (dp *Datapath) RegisterIndex(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) > 0 && name[0] == RegisterPrefix {
		name = name[1:]
	}
	if name == "" {
		return -1
	}

	if index, err := strconv.Atoi(name); err == nil {
		rf, ok := dp.registerFile()
		if ok && index >= 0 && index < rf.RegisterCount() {
			return index
		}
		return -1
	}

	for i, n := range dp.registerNames {
		if n == name {
			return i
		}
	}

	return -1
}

// RegisterName returns the bare name of the register with the given
// index, without the reference prefix.
func (dp *Datapath) RegisterName(index int) (string, bool) {
	if dp.registerNames != nil {
		if index < 0 || index >= len(dp.registerNames) {
			return "", false
		}
		return dp.registerNames[index], true
	}

	rf, ok := dp.registerFile()
	if !ok || index < 0 || index >= rf.RegisterCount() {
		return "", false
	}

	return strconv.Itoa(index), true
}

// HasRegister reports whether a register reference resolves.
func (dp *Datapath) HasRegister(name string) bool {
	return dp.RegisterIndex(name) != -1
}
