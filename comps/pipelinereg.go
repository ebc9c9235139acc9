package comps

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/sarchlab/mipsim/sim"
)

// Control port names of a pipeline register.
const (
	PipeRegWrite = "Write"
	PipeRegFlush = "Flush"
)

// A PipelineRegister sits at one of the four stage boundaries. It
// latches a set of named sub-registers at the clock edge and tracks
// which in-flight instruction it currently holds.
type PipelineRegister struct {
	*sim.ComponentBase

	stage  sim.Stage
	fields []string

	ins   map[string]*sim.Input
	outs  map[string]*sim.Output
	write *sim.Input
	flush *sim.Input

	values map[string]uint32
	index  int
}

var _ sim.PipelineRegister = (*PipelineRegister)(nil)

// NewPipelineRegister creates a pipeline register. The name must be
// one of the four canonical stage identities (IF/ID, ID/EX, EX/MEM,
// MEM/WB). Each field becomes an input and an output of the given
// width, in sorted field order.
func NewPipelineRegister(name string, latency int, fields map[string]int) (*PipelineRegister, error) {
	stage, ok := sim.ParseStage(name)
	if !ok {
		return nil, errors.Wrapf(sim.ErrRoleConflict,
			"%q is not one of {IF/ID, ID/EX, EX/MEM, MEM/WB}", name)
	}

	r := &PipelineRegister{
		ComponentBase: sim.NewComponentBase(name, latency),
		stage:         stage,
		ins:           make(map[string]*sim.Input),
		outs:          make(map[string]*sim.Output),
		values:        make(map[string]uint32),
		index:         -1,
	}

	for field := range fields {
		r.fields = append(r.fields, field)
	}
	sort.Strings(r.fields)

	for _, field := range r.fields {
		in := r.AddInput(r, field, fields[field])
		in.MarkLatched()
		r.ins[field] = in
		r.outs[field] = r.AddOutput(r, field, fields[field])
	}

	r.write = r.AddInput(r, PipeRegWrite, 1)
	r.write.MarkLatched()
	r.write.SetAffectsLatency(false)
	r.flush = r.AddInput(r, PipeRegFlush, 1)
	r.flush.MarkLatched()
	r.flush.SetAffectsLatency(false)

	return r, nil
}

// Role returns RolePipelineRegister.
func (r *PipelineRegister) Role() sim.Role { return sim.RolePipelineRegister }

// Stage returns the stage boundary the register sits at.
func (r *PipelineRegister) Stage() sim.Stage { return r.stage }

// InstructionIndex returns the index of the in-flight instruction the
// register holds, or -1 when empty.
func (r *PipelineRegister) InstructionIndex() int { return r.index }

// SetInstructionIndex records the held instruction index.
func (r *PipelineRegister) SetInstructionIndex(index int) { r.index = index }

// WriteAsserted reports the write-enable control. An unconnected
// write-enable reads as asserted.
func (r *PipelineRegister) WriteAsserted() bool {
	return !r.write.Connected() || r.write.Uint() == 1
}

// FlushAsserted reports the flush control. An unconnected flush reads
// as deasserted.
func (r *PipelineRegister) FlushAsserted() bool {
	return r.flush.Connected() && r.flush.Uint() == 1
}

// Field returns the latched value of a sub-register.
func (r *PipelineRegister) Field(name string) uint32 { return r.values[name] }

// Compute drives every output from the latched values.
func (r *PipelineRegister) Compute() {
	for _, field := range r.fields {
		r.outs[field].SetValue(r.values[field])
	}
}

// Commit latches the inputs at the clock edge. Flush clears every
// sub-register and takes precedence over write; with neither asserted
// the register stalls.
func (r *PipelineRegister) Commit() {
	switch {
	case r.FlushAsserted():
		for _, field := range r.fields {
			r.values[field] = 0
		}
	case r.WriteAsserted():
		for _, field := range r.fields {
			r.values[field] = r.ins[field].Uint()
		}
	}
}

type pipeRegState struct {
	values map[string]uint32
	index  int
}

// Snapshot copies the latched values and the instruction index.
func (r *PipelineRegister) Snapshot() sim.State {
	values := make(map[string]uint32, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return pipeRegState{values: values, index: r.index}
}

// Restore replaces the latched values and the instruction index.
func (r *PipelineRegister) Restore(s sim.State) {
	st := s.(pipeRegState)
	for k, v := range st.values {
		r.values[k] = v
	}
	r.index = st.index
}
