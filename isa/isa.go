// Package isa defines the control-signal and ALU-control table shapes
// that the instruction-set/assembler subsystem supplies to a datapath.
// The simulator consumes these tables at load time and never derives
// them.
package isa

// A Signal describes one named control line and its width in bits.
type Signal struct {
	Name string
	Size int
}

// A ControlTable maps opcodes to control-signal values. The control
// unit exposes one output per entry in Signals, in declaration order.
type ControlTable struct {
	// OpcodeSize is the width of the opcode field, in bits.
	OpcodeSize int

	Signals []Signal

	// Rows maps an opcode to its signal values. Signals absent from a
	// row read as zero.
	Rows map[uint32]map[string]uint32
}

// Value returns the value of a control signal for an opcode. Unknown
// opcodes and unnamed signals read as zero.
func (t ControlTable) Value(opcode uint32, signal string) uint32 {
	row, ok := t.Rows[opcode]
	if !ok {
		return 0
	}
	return row[signal]
}

// An Operation is the kind of computation an ALU performs.
type Operation int

// The operations an (extended) ALU can be asked to perform.
const (
	OpNone Operation = iota
	OpAdd
	OpSub
	OpAnd
	OpOr
	OpXor
	OpNor
	OpSetLessThan
	OpMultiply
	OpDivide
	OpMoveFromHi
	OpMoveFromLo
)

// An ALUControlRow matches an ALUOp/funct pair and yields the control
// code driven into the ALU.
type ALUControlRow struct {
	ALUOp uint32
	Funct uint32

	// FunctAny makes the row match regardless of the funct field.
	FunctAny bool

	Control uint32
}

// An ALUControlTable is the truth table fed into the ALU controller,
// plus the meaning of each resulting control code.
type ALUControlTable struct {
	// ALUOpSize and FunctSize are the widths of the two match fields.
	ALUOpSize int
	FunctSize int

	// ControlSize is the width of the control code driven into the
	// ALU.
	ControlSize int

	Rows []ALUControlRow

	// Operations maps a control code to the operation the ALU
	// performs.
	Operations map[uint32]Operation
}

// Control returns the control code for an ALUOp/funct pair. The first
// matching row wins; no match yields zero.
func (t ALUControlTable) Control(aluOp, funct uint32) uint32 {
	for _, row := range t.Rows {
		if row.ALUOp != aluOp {
			continue
		}
		if row.FunctAny || row.Funct == funct {
			return row.Control
		}
	}
	return 0
}

// Operation returns the operation selected by a control code.
func (t ALUControlTable) Operation(control uint32) Operation {
	return t.Operations[control]
}
