package sim

import "github.com/pkg/errors"

// An Input is a named, fixed-width connection point that receives a
// value from at most one Output.
type Input struct {
	name string
	comp Component
	size int

	value          Value
	accLatency     int
	affectsLatency bool
	latched        bool
	inControlPath  bool

	conn *Output
}

// Name returns the name of the input.
func (in *Input) Name() string { return in.name }

// Component returns the component that owns the input.
func (in *Input) Component() Component { return in.comp }

// Size returns the width of the input, in bits.
func (in *Input) Size() int { return in.size }

// Value returns the current value of the input. An unconnected input
// reads as zero.
func (in *Input) Value() Value { return in.value }

// Uint is shorthand for Value().Uint().
func (in *Input) Uint() uint32 { return in.value.Uint() }

// Connected reports whether the input is driven by an output.
func (in *Input) Connected() bool { return in.conn != nil }

// Connection returns the output driving the input, or nil.
func (in *Input) Connection() *Output { return in.conn }

// AccumulatedLatency returns the propagation delay accumulated from
// the circuit sources up to this input.
func (in *Input) AccumulatedLatency() int { return in.accLatency }

// AffectsLatency reports whether the value on this input participates
// in the owning component's propagation delay. Control-only inputs
// that do not extend the critical path return false.
func (in *Input) AffectsLatency() bool { return in.affectsLatency }

// SetAffectsLatency marks whether the input extends the critical path.
func (in *Input) SetAffectsLatency(v bool) { in.affectsLatency = v }

// Latched reports whether the input is consumed only at the clock
// edge. Latched inputs cut the combinational evaluation order.
func (in *Input) Latched() bool { return in.latched }

// MarkLatched flags the input as consumed only at the clock edge.
func (in *Input) MarkLatched() { in.latched = true }

// InControlPath reports whether the input belongs to the control path.
func (in *Input) InControlPath() bool { return in.inControlPath }

// MarkControlPath flags the input as a control-path member.
func (in *Input) MarkControlPath() { in.inControlPath = true }

// An Output is a named, fixed-width connection point that drives at
// most one Input. Fan-out requires an explicit Fork component.
type Output struct {
	name string
	comp Component
	size int

	value          Value
	accLatency     int
	inCriticalPath bool
	inControlPath  bool

	conn *Input
}

// Name returns the name of the output.
func (out *Output) Name() string { return out.name }

// Component returns the component that owns the output.
func (out *Output) Component() Component { return out.comp }

// Size returns the width of the output, in bits.
func (out *Output) Size() int { return out.size }

// Value returns the current value of the output.
func (out *Output) Value() Value { return out.value }

// Uint is shorthand for Value().Uint().
func (out *Output) Uint() uint32 { return out.value.Uint() }

// SetValue drives the output with v, truncated to the output width,
// and propagates the value to the connected input, if any.
func (out *Output) SetValue(v uint32) {
	out.value = NewValue(out.size, v)
	if out.conn != nil {
		out.conn.value = NewValue(out.conn.size, out.value.Uint())
	}
}

// Connected reports whether the output drives an input.
func (out *Output) Connected() bool { return out.conn != nil }

// Connection returns the input driven by the output, or nil.
func (out *Output) Connection() *Input { return out.conn }

// AccumulatedLatency returns the propagation delay accumulated from
// the circuit sources up to this output.
func (out *Output) AccumulatedLatency() int { return out.accLatency }

// InCriticalPath reports whether the wire driven by this output is in
// the critical path.
func (out *Output) InCriticalPath() bool { return out.inCriticalPath }

// InControlPath reports whether the output belongs to the control
// path.
func (out *Output) InControlPath() bool { return out.inControlPath }

// MarkControlPath flags the output as a control-path member.
func (out *Output) MarkControlPath() { out.inControlPath = true }

// connect wires an output to an input, enforcing the width and
// single-connection invariants.
func connect(out *Output, in *Input) error {
	if out.size != in.size {
		return errors.Wrapf(ErrWidthMismatch,
			"%s.%s (%d bits) -> %s.%s (%d bits)",
			out.comp.Name(), out.name, out.size,
			in.comp.Name(), in.name, in.size)
	}
	if out.conn != nil {
		return errors.Wrapf(ErrAlreadyConnected,
			"output %s.%s", out.comp.Name(), out.name)
	}
	if in.conn != nil {
		return errors.Wrapf(ErrAlreadyConnected,
			"input %s.%s", in.comp.Name(), in.name)
	}

	out.conn = in
	in.conn = out
	in.value = NewValue(in.size, out.value.Uint())

	return nil
}
