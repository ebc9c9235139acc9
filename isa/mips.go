package isa

// Control-signal names used by the stock MIPS tables and the standard
// datapath builders.
const (
	SigRegDst   = "RegDst"
	SigALUSrc   = "ALUSrc"
	SigMemToReg = "MemToReg"
	SigRegWrite = "RegWrite"
	SigMemRead  = "MemRead"
	SigMemWrite = "MemWrite"
	SigBranch   = "Branch"
	SigALUOp    = "ALUOp"
)

// MIPS opcodes covered by the stock control table.
const (
	OpcodeRType uint32 = 0x00
	OpcodeBeq   uint32 = 0x04
	OpcodeAddi  uint32 = 0x08
	OpcodeLw    uint32 = 0x23
	OpcodeSw    uint32 = 0x2b
)

// R-type funct codes covered by the stock ALU-control table.
const (
	FunctAdd  uint32 = 0x20
	FunctSub  uint32 = 0x22
	FunctAnd  uint32 = 0x24
	FunctOr   uint32 = 0x25
	FunctXor  uint32 = 0x26
	FunctNor  uint32 = 0x27
	FunctSlt  uint32 = 0x2a
	FunctMult uint32 = 0x18
	FunctDiv  uint32 = 0x1a
	FunctMfhi uint32 = 0x10
	FunctMflo uint32 = 0x12
)

// ALU control codes, following the conventional encoding.
const (
	aluAnd  uint32 = 0x0
	aluOr   uint32 = 0x1
	aluAdd  uint32 = 0x2
	aluXor  uint32 = 0x3
	aluSub  uint32 = 0x6
	aluSlt  uint32 = 0x7
	aluMult uint32 = 0x8
	aluDiv  uint32 = 0x9
	aluMfhi uint32 = 0xa
	aluMflo uint32 = 0xb
	aluNor  uint32 = 0xc
)

// MIPSControl returns the control table for the MIPS subset used by
// the standard datapaths: R-type, addi, lw, sw and beq.
func MIPSControl() ControlTable {
	return ControlTable{
		OpcodeSize: 6,
		Signals: []Signal{
			{Name: SigRegDst, Size: 1},
			{Name: SigALUSrc, Size: 1},
			{Name: SigMemToReg, Size: 1},
			{Name: SigRegWrite, Size: 1},
			{Name: SigMemRead, Size: 1},
			{Name: SigMemWrite, Size: 1},
			{Name: SigBranch, Size: 1},
			{Name: SigALUOp, Size: 2},
		},
		Rows: map[uint32]map[string]uint32{
			OpcodeRType: {
				SigRegDst:   1,
				SigRegWrite: 1,
				SigALUOp:    2,
			},
			OpcodeLw: {
				SigALUSrc:   1,
				SigMemToReg: 1,
				SigRegWrite: 1,
				SigMemRead:  1,
			},
			OpcodeSw: {
				SigALUSrc:   1,
				SigMemWrite: 1,
			},
			OpcodeBeq: {
				SigBranch: 1,
				SigALUOp:  1,
			},
			OpcodeAddi: {
				SigALUSrc:   1,
				SigRegWrite: 1,
			},
		},
	}
}

// MIPSALUControl returns the ALU-control truth table matching
// MIPSControl.
func MIPSALUControl() ALUControlTable {
	return ALUControlTable{
		ALUOpSize:   2,
		FunctSize:   6,
		ControlSize: 4,
		Rows: []ALUControlRow{
			{ALUOp: 0, FunctAny: true, Control: aluAdd},
			{ALUOp: 1, FunctAny: true, Control: aluSub},
			{ALUOp: 2, Funct: FunctAdd, Control: aluAdd},
			{ALUOp: 2, Funct: FunctSub, Control: aluSub},
			{ALUOp: 2, Funct: FunctAnd, Control: aluAnd},
			{ALUOp: 2, Funct: FunctOr, Control: aluOr},
			{ALUOp: 2, Funct: FunctXor, Control: aluXor},
			{ALUOp: 2, Funct: FunctNor, Control: aluNor},
			{ALUOp: 2, Funct: FunctSlt, Control: aluSlt},
			{ALUOp: 2, Funct: FunctMult, Control: aluMult},
			{ALUOp: 2, Funct: FunctDiv, Control: aluDiv},
			{ALUOp: 2, Funct: FunctMfhi, Control: aluMfhi},
			{ALUOp: 2, Funct: FunctMflo, Control: aluMflo},
		},
		Operations: map[uint32]Operation{
			aluAnd:  OpAnd,
			aluOr:   OpOr,
			aluAdd:  OpAdd,
			aluXor:  OpXor,
			aluSub:  OpSub,
			aluSlt:  OpSetLessThan,
			aluNor:  OpNor,
			aluMult: OpMultiply,
			aluDiv:  OpDivide,
			aluMfhi: OpMoveFromHi,
			aluMflo: OpMoveFromLo,
		},
	}
}
