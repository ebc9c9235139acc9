package comps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/mipsim/comps"
)

func TestInstructionMemory(t *testing.T) {
	imem := comps.NewInstructionMemory("imem", 0)
	imem.LoadProgram([]uint32{0x20080005, 0x20090007, 0x01095020})
	assert.Equal(t, 3, imem.InstructionCount())
	assert.Equal(t, uint32(0x20090007), imem.Instruction(1))

	h := newHarness(t, imem)
	addr := h.drive(comps.IMemAddress)

	addr.Set(8)
	h.settle()
	assert.Equal(t, uint32(0x01095020), h.out(comps.IMemInstruction))

	// Past the end of the program, the memory reads as zero.
	addr.Set(12)
	h.settle()
	assert.Equal(t, uint32(0), h.out(comps.IMemInstruction))
}

func TestInstructionMemoryReload(t *testing.T) {
	imem := comps.NewInstructionMemory("imem", 0)
	imem.LoadProgram([]uint32{1, 2, 3})
	imem.LoadProgram([]uint32{9})
	assert.Equal(t, 1, imem.InstructionCount())
	assert.Equal(t, uint32(9), imem.Instruction(0))
}

func TestDataMemoryReadGatedByMemRead(t *testing.T) {
	dmem := comps.NewDataMemory("dmem", 0, 16)
	dmem.SetWord(2, 99)

	h := newHarness(t, dmem)
	h.drive(comps.DMemAddress).Set(8)
	read := h.drive(comps.DMemMemRead)

	read.Set(0)
	h.settle()
	assert.Equal(t, uint32(0), h.out(comps.DMemOut))

	read.Set(1)
	h.settle()
	assert.Equal(t, uint32(99), h.out(comps.DMemOut))
}

func TestDataMemoryWriteCommitsAtEdge(t *testing.T) {
	dmem := comps.NewDataMemory("dmem", 0, 16)

	h := newHarness(t, dmem)
	h.drive(comps.DMemAddress).Set(4)
	h.drive(comps.DMemWriteData).Set(42)
	write := h.drive(comps.DMemMemWrite)

	write.Set(0)
	h.settle()
	dmem.Commit()
	assert.Equal(t, uint32(0), dmem.Word(1))

	write.Set(1)
	h.settle()
	dmem.Commit()
	assert.Equal(t, uint32(42), dmem.Word(1))
}

func TestDataMemoryOutOfRangeAccess(t *testing.T) {
	dmem := comps.NewDataMemory("dmem", 0, 2)

	h := newHarness(t, dmem)
	h.drive(comps.DMemAddress).Set(64)
	h.drive(comps.DMemWriteData).Set(42)
	h.drive(comps.DMemMemRead).Set(1)
	h.drive(comps.DMemMemWrite).Set(1)

	h.settle()
	assert.Equal(t, uint32(0), h.out(comps.DMemOut))

	// An out-of-range write is dropped.
	dmem.Commit()
	assert.Equal(t, uint32(0), dmem.Word(0))
	assert.Equal(t, uint32(0), dmem.Word(1))
}

func TestDataMemorySnapshotRestoreReset(t *testing.T) {
	dmem := comps.NewDataMemory("dmem", 0, 8)
	dmem.SetWord(3, 7)
	snap := dmem.Snapshot()

	dmem.SetWord(3, 11)
	dmem.Restore(snap)
	assert.Equal(t, uint32(7), dmem.Word(3))

	dmem.ResetStoredData()
	assert.Equal(t, uint32(0), dmem.Word(3))
	assert.Equal(t, 8, dmem.Size())
}
