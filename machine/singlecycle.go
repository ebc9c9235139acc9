package machine

import (
	"github.com/sarchlab/mipsim/comps"
	"github.com/sarchlab/mipsim/isa"
)

// buildSingleCycle wires the classic single-cycle MIPS datapath: one
// instruction completes per clock cycle, with branches resolved
// through the zero flag and the branch adder.
func (b Builder) buildSingleCycle(m *Machine, w *wiring) {
	regs, err := comps.NewRegBank("regbank", LatencyRegisterBank, 32, false)
	if err != nil {
		w.err = err
		return
	}
	m.imem = comps.NewInstructionMemory("imem", LatencyInstructionMemory)
	m.regs = regs
	m.dmem = comps.NewDataMemory("dmem", LatencyDataMemory, b.dataWords)

	idist := comps.NewDistributor("idist", 0, 32)
	idist.AddSlice(31, 26)
	idist.AddSlice(25, 21)
	idist.AddSlice(20, 16)
	idist.AddSlice(15, 11)
	idist.AddSlice(15, 0)
	idist.AddSlice(5, 0)

	w.add(comps.NewPC("pc", 0))
	w.add(comps.NewFork("fork-pc", 0, 32, 2))
	w.add(comps.NewConstant("four", 0, 32, 4))
	w.add(comps.NewAdd("add-4", LatencyAdder))
	w.add(comps.NewFork("fork-npc", 0, 32, 2))
	w.add(m.imem)
	w.add(idist)
	w.add(comps.NewFork("fork-rt", 0, regIndexBits, 2))
	w.add(comps.NewControlUnit("control", LatencyControlUnit, b.control))
	w.add(m.regs)
	w.add(comps.NewFork("fork-read2", 0, 32, 2))
	w.add(comps.NewSignExtend("sign-extend", LatencySignExtend, 16, 32))
	w.add(comps.NewFork("fork-imm", 0, 32, 2))
	w.add(comps.NewShiftLeft("shift-left", 0, 32, 32, 2))
	w.add(comps.NewMultiplexer("mux-regdst", LatencyMultiplexer, regIndexBits, 2))
	w.add(comps.NewMultiplexer("mux-alusrc", LatencyMultiplexer, 32, 2))
	w.add(comps.NewALUControl("alucontrol", LatencyALUControl, b.aluControl))
	w.add(b.newALU("alu"))
	w.add(comps.NewFork("fork-alu", 0, 32, 2))
	w.add(comps.NewAnd("and-branch", LatencyGate))
	w.add(comps.NewAdd("add-branch", LatencyAdder))
	w.add(comps.NewMultiplexer("mux-pc", LatencyMultiplexer, 32, 2))
	w.add(m.dmem)
	w.add(comps.NewMultiplexer("mux-wb", LatencyMultiplexer, 32, 2))

	// Fetch.
	w.connect("pc", comps.PCOut, "fork-pc", comps.GateIn)
	w.connect("fork-pc", "Out0", "imem", comps.IMemAddress)
	w.connect("fork-pc", "Out1", "add-4", comps.GateIn1)
	w.connect("four", comps.GateOut, "add-4", comps.GateIn2)
	w.connect("add-4", comps.GateOut, "fork-npc", comps.GateIn)
	w.connect("fork-npc", "Out0", "mux-pc", "In0")
	w.connect("fork-npc", "Out1", "add-branch", comps.GateIn1)

	// Decode.
	w.connect("imem", comps.IMemInstruction, "idist", comps.GateIn)
	w.connect("idist", "31-26", "control", comps.ControlOpcode)
	w.connect("idist", "25-21", "regbank", comps.RegBankReadReg1)
	w.connect("idist", "20-16", "fork-rt", comps.GateIn)
	w.connect("fork-rt", "Out0", "regbank", comps.RegBankReadReg2)
	w.connect("fork-rt", "Out1", "mux-regdst", "In0")
	w.connect("idist", "15-11", "mux-regdst", "In1")
	w.connect("idist", "15-0", "sign-extend", comps.GateIn)
	w.connect("idist", "5-0", "alucontrol", comps.ALUControlFunct)

	// Control signals.
	w.connect("control", isa.SigRegDst, "mux-regdst", comps.MuxSel)
	w.connect("control", isa.SigALUSrc, "mux-alusrc", comps.MuxSel)
	w.connect("control", isa.SigMemToReg, "mux-wb", comps.MuxSel)
	w.connect("control", isa.SigRegWrite, "regbank", comps.RegBankRegWrite)
	w.connect("control", isa.SigMemRead, "dmem", comps.DMemMemRead)
	w.connect("control", isa.SigMemWrite, "dmem", comps.DMemMemWrite)
	w.connect("control", isa.SigBranch, "and-branch", comps.GateIn1)
	w.connect("control", isa.SigALUOp, "alucontrol", comps.ALUControlALUOp)

	// Execute.
	w.connect("regbank", comps.RegBankReadData1, "alu", comps.ALUIn1)
	w.connect("regbank", comps.RegBankReadData2, "fork-read2", comps.GateIn)
	w.connect("fork-read2", "Out0", "mux-alusrc", "In0")
	w.connect("fork-read2", "Out1", "dmem", comps.DMemWriteData)
	w.connect("sign-extend", comps.GateOut, "fork-imm", comps.GateIn)
	w.connect("fork-imm", "Out0", "mux-alusrc", "In1")
	w.connect("fork-imm", "Out1", "shift-left", comps.GateIn)
	w.connect("shift-left", comps.GateOut, "add-branch", comps.GateIn2)
	w.connect("mux-alusrc", comps.GateOut, "alu", comps.ALUIn2)
	w.connect("alucontrol", comps.ALUControlOperation, "alu", comps.ALUControlIn)

	// Branch resolution.
	w.connect("alu", comps.ALUZero, "and-branch", comps.GateIn2)
	w.connect("and-branch", comps.GateOut, "mux-pc", comps.MuxSel)
	w.connect("add-branch", comps.GateOut, "mux-pc", "In1")
	w.connect("mux-pc", comps.GateOut, "pc", comps.PCIn)

	// Memory and write-back.
	w.connect("alu", comps.ALUOut, "fork-alu", comps.GateIn)
	w.connect("fork-alu", "Out0", "dmem", comps.DMemAddress)
	w.connect("fork-alu", "Out1", "mux-wb", "In0")
	w.connect("dmem", comps.DMemOut, "mux-wb", "In1")
	w.connect("mux-wb", comps.GateOut, "regbank", comps.RegBankWriteData)
	w.connect("mux-regdst", comps.GateOut, "regbank", comps.RegBankWriteReg)
}
