package machine

import (
	"github.com/sarchlab/mipsim/comps"
	"github.com/sarchlab/mipsim/isa"
)

// buildPipelined wires the 5-stage pipelined MIPS datapath with a
// forwarding unit, load-use hazard detection and branch resolution in
// the MEM stage. A taken branch flushes the three younger in-flight
// instructions; a load-use hazard stalls fetch for one cycle and
// inserts a bubble at the ID/EX boundary.
func (b Builder) buildPipelined(m *Machine, w *wiring) {
	regs, err := comps.NewRegBank("regbank", LatencyRegisterBank, 32, true)
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

	fdist := comps.NewDistributor("fdist", 0, 32)
	fdist.AddSlice(5, 0)

	// Fetch stage.
	w.add(comps.NewPC("pc", 0))
	w.add(comps.NewFork("fork-pc", 0, 32, 2))
	w.add(comps.NewConstant("four", 0, 32, 4))
	w.add(comps.NewAdd("add-4", LatencyAdder))
	w.add(comps.NewFork("fork-npc", 0, 32, 2))
	w.add(m.imem)
	w.add(comps.NewMultiplexer("mux-pc", LatencyMultiplexer, 32, 2))
	w.pipeReg("IF/ID", 0, map[string]int{
		"PC4":   32,
		"Instr": 32,
	})

	// Decode stage.
	w.add(idist)
	w.add(comps.NewFork("fork-rs", 0, regIndexBits, 3))
	w.add(comps.NewFork("fork-rt", 0, regIndexBits, 3))
	w.add(comps.NewControlUnit("control", LatencyControlUnit, b.control))
	w.add(m.regs)
	w.add(comps.NewSignExtend("sign-extend", LatencySignExtend, 16, 32))
	w.add(comps.NewHazardDetectionUnit("hazard", LatencyHazardUnit, regIndexBits))
	w.add(comps.NewFork("fork-stall", 0, 1, 2))
	w.add(comps.NewNot("not-stall", LatencyGate))
	w.add(comps.NewFork("fork-write", 0, 1, 2))
	w.add(comps.NewOr("or-bubble", LatencyGate))
	w.pipeReg("ID/EX", 0, map[string]int{
		"PC4":           32,
		"ReadData1":     32,
		"ReadData2":     32,
		"Imm":           32,
		"Rs":            regIndexBits,
		"Rt":            regIndexBits,
		"Rd":            regIndexBits,
		isa.SigRegDst:   1,
		isa.SigALUSrc:   1,
		isa.SigMemToReg: 1,
		isa.SigRegWrite: 1,
		isa.SigMemRead:  1,
		isa.SigMemWrite: 1,
		isa.SigBranch:   1,
		isa.SigALUOp:    2,
	})

	// Execute stage.
	w.add(comps.NewFork("fork-imm", 0, 32, 3))
	w.add(fdist)
	w.add(comps.NewShiftLeft("shift-left", 0, 32, 32, 2))
	w.add(comps.NewAdd("add-branch", LatencyAdder))
	w.add(comps.NewFork("fork-rtx", 0, regIndexBits, 3))
	w.add(comps.NewMultiplexer("mux-regdst", LatencyMultiplexer, regIndexBits, 2))
	w.add(comps.NewMultiplexer("mux-fwd-a", LatencyMultiplexer, 32, 3))
	w.add(comps.NewMultiplexer("mux-fwd-b", LatencyMultiplexer, 32, 3))
	w.add(comps.NewFork("fork-opb", 0, 32, 2))
	w.add(comps.NewMultiplexer("mux-alusrc", LatencyMultiplexer, 32, 2))
	w.add(comps.NewALUControl("alucontrol", LatencyALUControl, b.aluControl))
	w.add(b.newALU("alu"))
	w.add(comps.NewFork("fork-memread", 0, 1, 2))
	w.add(comps.NewForwardingUnit("forward", LatencyForwardingUnit, regIndexBits))
	w.pipeReg("EX/MEM", 0, map[string]int{
		"BranchTarget":  32,
		"Zero":          1,
		"ALUResult":     32,
		"WriteData":     32,
		"Rd":            regIndexBits,
		isa.SigMemToReg: 1,
		isa.SigRegWrite: 1,
		isa.SigMemRead:  1,
		isa.SigMemWrite: 1,
		isa.SigBranch:   1,
	})

	// Memory stage.
	w.add(comps.NewAnd("and-branch", LatencyGate))
	w.add(comps.NewFork("fork-branch", 0, 1, 4))
	w.add(comps.NewFork("fork-aluout", 0, 32, 4))
	w.add(m.dmem)
	w.add(comps.NewFork("fork-exmem-rw", 0, 1, 2))
	w.add(comps.NewFork("fork-exmem-rd", 0, regIndexBits, 2))
	w.pipeReg("MEM/WB", 0, map[string]int{
		"MemData":       32,
		"ALUResult":     32,
		"Rd":            regIndexBits,
		isa.SigMemToReg: 1,
		isa.SigRegWrite: 1,
	})

	// Write-back stage.
	w.add(comps.NewMultiplexer("mux-wb", LatencyMultiplexer, 32, 2))
	w.add(comps.NewFork("fork-wb", 0, 32, 3))
	w.add(comps.NewFork("fork-memwb-rw", 0, 1, 2))
	w.add(comps.NewFork("fork-memwb-rd", 0, regIndexBits, 2))

	// Fetch.
	w.connect("pc", comps.PCOut, "fork-pc", comps.GateIn)
	w.connect("fork-pc", "Out0", "imem", comps.IMemAddress)
	w.connect("fork-pc", "Out1", "add-4", comps.GateIn1)
	w.connect("four", comps.GateOut, "add-4", comps.GateIn2)
	w.connect("add-4", comps.GateOut, "fork-npc", comps.GateIn)
	w.connect("fork-npc", "Out0", "mux-pc", "In0")
	w.connect("fork-npc", "Out1", "IF/ID", "PC4")
	w.connect("mux-pc", comps.GateOut, "pc", comps.PCIn)
	w.connect("imem", comps.IMemInstruction, "IF/ID", "Instr")

	// Decode.
	w.connect("IF/ID", "Instr", "idist", comps.GateIn)
	w.connect("idist", "31-26", "control", comps.ControlOpcode)
	w.connect("idist", "25-21", "fork-rs", comps.GateIn)
	w.connect("fork-rs", "Out0", "regbank", comps.RegBankReadReg1)
	w.connect("fork-rs", "Out1", "hazard", comps.HazardIfIdRs)
	w.connect("fork-rs", "Out2", "ID/EX", "Rs")
	w.connect("idist", "20-16", "fork-rt", comps.GateIn)
	w.connect("fork-rt", "Out0", "regbank", comps.RegBankReadReg2)
	w.connect("fork-rt", "Out1", "hazard", comps.HazardIfIdRt)
	w.connect("fork-rt", "Out2", "ID/EX", "Rt")
	w.connect("idist", "15-11", "ID/EX", "Rd")
	w.connect("idist", "15-0", "sign-extend", comps.GateIn)
	w.connect("sign-extend", comps.GateOut, "ID/EX", "Imm")
	w.connect("IF/ID", "PC4", "ID/EX", "PC4")
	w.connect("regbank", comps.RegBankReadData1, "ID/EX", "ReadData1")
	w.connect("regbank", comps.RegBankReadData2, "ID/EX", "ReadData2")

	w.connect("control", isa.SigRegDst, "ID/EX", isa.SigRegDst)
	w.connect("control", isa.SigALUSrc, "ID/EX", isa.SigALUSrc)
	w.connect("control", isa.SigMemToReg, "ID/EX", isa.SigMemToReg)
	w.connect("control", isa.SigRegWrite, "ID/EX", isa.SigRegWrite)
	w.connect("control", isa.SigMemRead, "ID/EX", isa.SigMemRead)
	w.connect("control", isa.SigMemWrite, "ID/EX", isa.SigMemWrite)
	w.connect("control", isa.SigBranch, "ID/EX", isa.SigBranch)
	w.connect("control", isa.SigALUOp, "ID/EX", isa.SigALUOp)

	// Stall on a load-use hazard: freeze fetch and insert a bubble.
	w.connect("hazard", comps.HazardStall, "fork-stall", comps.GateIn)
	w.connect("fork-stall", "Out0", "not-stall", comps.GateIn)
	w.connect("fork-stall", "Out1", "or-bubble", comps.GateIn2)
	w.connect("not-stall", comps.GateOut, "fork-write", comps.GateIn)
	w.connect("fork-write", "Out0", "pc", comps.PCWrite)
	w.connect("fork-write", "Out1", "IF/ID", comps.PipeRegWrite)
	w.connect("or-bubble", comps.GateOut, "ID/EX", comps.PipeRegFlush)

	// Execute.
	w.connect("ID/EX", "PC4", "add-branch", comps.GateIn1)
	w.connect("ID/EX", "Imm", "fork-imm", comps.GateIn)
	w.connect("fork-imm", "Out0", "mux-alusrc", "In1")
	w.connect("fork-imm", "Out1", "fdist", comps.GateIn)
	w.connect("fork-imm", "Out2", "shift-left", comps.GateIn)
	w.connect("fdist", "5-0", "alucontrol", comps.ALUControlFunct)
	w.connect("shift-left", comps.GateOut, "add-branch", comps.GateIn2)
	w.connect("add-branch", comps.GateOut, "EX/MEM", "BranchTarget")

	w.connect("ID/EX", "ReadData1", "mux-fwd-a", "In0")
	w.connect("ID/EX", "ReadData2", "mux-fwd-b", "In0")
	w.connect("forward", comps.FwdForwardA, "mux-fwd-a", comps.MuxSel)
	w.connect("forward", comps.FwdForwardB, "mux-fwd-b", comps.MuxSel)
	w.connect("mux-fwd-a", comps.GateOut, "alu", comps.ALUIn1)
	w.connect("mux-fwd-b", comps.GateOut, "fork-opb", comps.GateIn)
	w.connect("fork-opb", "Out0", "mux-alusrc", "In0")
	w.connect("fork-opb", "Out1", "EX/MEM", "WriteData")
	w.connect("ID/EX", isa.SigALUSrc, "mux-alusrc", comps.MuxSel)
	w.connect("mux-alusrc", comps.GateOut, "alu", comps.ALUIn2)
	w.connect("ID/EX", isa.SigALUOp, "alucontrol", comps.ALUControlALUOp)
	w.connect("alucontrol", comps.ALUControlOperation, "alu", comps.ALUControlIn)
	w.connect("alu", comps.ALUOut, "EX/MEM", "ALUResult")
	w.connect("alu", comps.ALUZero, "EX/MEM", "Zero")

	w.connect("ID/EX", "Rt", "fork-rtx", comps.GateIn)
	w.connect("fork-rtx", "Out0", "mux-regdst", "In0")
	w.connect("fork-rtx", "Out1", "forward", comps.FwdIdExRt)
	w.connect("fork-rtx", "Out2", "hazard", comps.HazardIdExRt)
	w.connect("ID/EX", "Rd", "mux-regdst", "In1")
	w.connect("ID/EX", isa.SigRegDst, "mux-regdst", comps.MuxSel)
	w.connect("mux-regdst", comps.GateOut, "EX/MEM", "Rd")
	w.connect("ID/EX", "Rs", "forward", comps.FwdIdExRs)

	w.connect("ID/EX", isa.SigMemRead, "fork-memread", comps.GateIn)
	w.connect("fork-memread", "Out0", "EX/MEM", isa.SigMemRead)
	w.connect("fork-memread", "Out1", "hazard", comps.HazardIdExMemRead)
	w.connect("ID/EX", isa.SigMemToReg, "EX/MEM", isa.SigMemToReg)
	w.connect("ID/EX", isa.SigRegWrite, "EX/MEM", isa.SigRegWrite)
	w.connect("ID/EX", isa.SigMemWrite, "EX/MEM", isa.SigMemWrite)
	w.connect("ID/EX", isa.SigBranch, "EX/MEM", isa.SigBranch)

	// Branch resolution. A taken branch redirects fetch and squashes
	// the instructions behind it.
	w.connect("EX/MEM", isa.SigBranch, "and-branch", comps.GateIn1)
	w.connect("EX/MEM", "Zero", "and-branch", comps.GateIn2)
	w.connect("and-branch", comps.GateOut, "fork-branch", comps.GateIn)
	w.connect("fork-branch", "Out0", "mux-pc", comps.MuxSel)
	w.connect("fork-branch", "Out1", "IF/ID", comps.PipeRegFlush)
	w.connect("fork-branch", "Out2", "or-bubble", comps.GateIn1)
	w.connect("fork-branch", "Out3", "EX/MEM", comps.PipeRegFlush)
	w.connect("EX/MEM", "BranchTarget", "mux-pc", "In1")

	// Memory.
	w.connect("EX/MEM", "ALUResult", "fork-aluout", comps.GateIn)
	w.connect("fork-aluout", "Out0", "mux-fwd-a", "In2")
	w.connect("fork-aluout", "Out1", "mux-fwd-b", "In2")
	w.connect("fork-aluout", "Out2", "dmem", comps.DMemAddress)
	w.connect("fork-aluout", "Out3", "MEM/WB", "ALUResult")
	w.connect("EX/MEM", "WriteData", "dmem", comps.DMemWriteData)
	w.connect("EX/MEM", isa.SigMemRead, "dmem", comps.DMemMemRead)
	w.connect("EX/MEM", isa.SigMemWrite, "dmem", comps.DMemMemWrite)
	w.connect("dmem", comps.DMemOut, "MEM/WB", "MemData")
	w.connect("EX/MEM", isa.SigRegWrite, "fork-exmem-rw", comps.GateIn)
	w.connect("fork-exmem-rw", "Out0", "MEM/WB", isa.SigRegWrite)
	w.connect("fork-exmem-rw", "Out1", "forward", comps.FwdExMemRegWrite)
	w.connect("EX/MEM", "Rd", "fork-exmem-rd", comps.GateIn)
	w.connect("fork-exmem-rd", "Out0", "MEM/WB", "Rd")
	w.connect("fork-exmem-rd", "Out1", "forward", comps.FwdExMemRd)
	w.connect("EX/MEM", isa.SigMemToReg, "MEM/WB", isa.SigMemToReg)

	// Write-back.
	w.connect("MEM/WB", "ALUResult", "mux-wb", "In0")
	w.connect("MEM/WB", "MemData", "mux-wb", "In1")
	w.connect("MEM/WB", isa.SigMemToReg, "mux-wb", comps.MuxSel)
	w.connect("mux-wb", comps.GateOut, "fork-wb", comps.GateIn)
	w.connect("fork-wb", "Out0", "regbank", comps.RegBankWriteData)
	w.connect("fork-wb", "Out1", "mux-fwd-a", "In1")
	w.connect("fork-wb", "Out2", "mux-fwd-b", "In1")
	w.connect("MEM/WB", isa.SigRegWrite, "fork-memwb-rw", comps.GateIn)
	w.connect("fork-memwb-rw", "Out0", "regbank", comps.RegBankRegWrite)
	w.connect("fork-memwb-rw", "Out1", "forward", comps.FwdMemWbRegWrite)
	w.connect("MEM/WB", "Rd", "fork-memwb-rd", comps.GateIn)
	w.connect("fork-memwb-rd", "Out0", "regbank", comps.RegBankWriteReg)
	w.connect("fork-memwb-rd", "Out1", "forward", comps.FwdMemWbRd)
}

// pipeReg creates and registers a pipeline register.
func (w *wiring) pipeReg(name string, latency int, fields map[string]int) {
	if w.err != nil {
		return
	}
	r, err := comps.NewPipelineRegister(name, latency, fields)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.dp.AddComponent(r)
}
