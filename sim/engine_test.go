package sim

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type hookRecorder struct {
	positions []*HookPos
}

func (h *hookRecorder) Func(ctx HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
}

var _ = Describe("Engine", func() {
	newEngine := func(instructionCount int, step uint32) (*Engine, *fakePC) {
		dp, pc := minimalDatapath(instructionCount, step)
		engine, err := NewEngine(dp)
		Expect(err).ToNot(HaveOccurred())
		engine.SetProgramCounterAddress(0)
		dp.Settle()
		return engine, pc
	}

	It("should advance the program counter each cycle", func() {
		engine, pc := newEngine(4, 4)

		engine.ExecuteCycle()
		Expect(pc.Address()).To(Equal(uint32(4)))
		Expect(pc.InstructionIndex()).To(Equal(1))
		Expect(engine.CurrentCycle()).To(Equal(1))

		engine.ExecuteCycle()
		Expect(pc.Address()).To(Equal(uint32(8)))
		Expect(engine.CurrentCycle()).To(Equal(2))
	})

	It("should finish when fetch leaves the program", func() {
		engine, pc := newEngine(3, 4)

		Expect(engine.ExecuteAll()).To(Succeed())
		Expect(engine.CurrentCycle()).To(Equal(3))
		Expect(pc.InstructionIndex()).To(Equal(-1))
		Expect(engine.ProgramFinished()).To(BeTrue())
		Expect(engine.State()).To(Equal(StateFinished))
	})

	It("should abort a non-terminating program at the cycle ceiling", func() {
		engine, _ := newEngine(3, 0)

		err := engine.ExecuteAll()
		Expect(errors.Cause(err)).To(Equal(ErrInfiniteLoop))
		Expect(engine.CurrentCycle()).To(Equal(ExecuteAllCycleCeiling + 1))
	})

	It("should step back through the history", func() {
		engine, pc := newEngine(8, 4)

		engine.ExecuteCycle()
		engine.ExecuteCycle()
		engine.ExecuteCycle()
		Expect(pc.Address()).To(Equal(uint32(12)))

		engine.RestorePreviousCycle()
		Expect(pc.Address()).To(Equal(uint32(8)))
		Expect(engine.CurrentCycle()).To(Equal(2))

		engine.RestorePreviousCycle()
		engine.RestorePreviousCycle()
		Expect(pc.Address()).To(Equal(uint32(0)))
		Expect(engine.CurrentCycle()).To(Equal(0))
		Expect(engine.HasPreviousCycle()).To(BeFalse())
	})

	It("should ignore a step back with no history", func() {
		engine, pc := newEngine(8, 4)

		engine.RestorePreviousCycle()
		Expect(pc.Address()).To(Equal(uint32(0)))
		Expect(engine.CurrentCycle()).To(Equal(0))
	})

	It("should rewind to the first cycle in one step", func() {
		engine, pc := newEngine(8, 4)

		for i := 0; i < 5; i++ {
			engine.ExecuteCycle()
		}
		Expect(pc.Address()).To(Equal(uint32(20)))

		engine.ResetToFirstCycle()
		Expect(pc.Address()).To(Equal(uint32(0)))
		Expect(engine.CurrentCycle()).To(Equal(0))
	})

	It("should replay identically after a rewind", func() {
		engine, pc := newEngine(8, 4)

		engine.ExecuteCycle()
		engine.ExecuteCycle()
		addressAfterTwo := pc.Address()

		engine.ResetToFirstCycle()
		engine.ExecuteCycle()
		engine.ExecuteCycle()
		Expect(pc.Address()).To(Equal(addressAfterTwo))
	})

	It("should drop history on clear", func() {
		engine, _ := newEngine(8, 4)

		engine.ExecuteCycle()
		engine.ClearHistory()

		Expect(engine.HasPreviousCycle()).To(BeFalse())
		Expect(engine.CurrentCycle()).To(Equal(0))
	})

	It("should zero stored data without moving execute position", func() {
		engine, pc := newEngine(8, 4)
		dp := engine.Datapath()
		regs, _ := dp.Component("regbank")
		regs.(*fakeRegs).regs[2] = 99

		engine.ExecuteCycle()
		engine.ResetStoredData()

		Expect(regs.(*fakeRegs).regs[2]).To(Equal(uint32(0)))
		Expect(pc.Address()).To(Equal(uint32(4)))
		Expect(engine.CurrentCycle()).To(Equal(1))
	})

	It("should invoke hooks around each cycle", func() {
		engine, _ := newEngine(8, 4)
		hook := &hookRecorder{}
		engine.AcceptHook(hook)

		engine.ExecuteCycle()
		engine.RestorePreviousCycle()

		Expect(hook.positions).To(Equal([]*HookPos{
			HookPosBeforeCycle, HookPosAfterCycle, HookPosRewind,
		}))
	})

	Context("with a pipelined datapath", func() {
		var (
			engine *Engine
			pc     *fakePC
			regs   [4]*fakePipeReg
		)

		BeforeEach(func() {
			dp, fakePc := minimalDatapath(8, 4)
			pc = fakePc
			for i, name := range []string{"IF/ID", "ID/EX", "EX/MEM", "MEM/WB"} {
				regs[i] = newFakePipeReg(name)
				mustAdd(dp, regs[i])
			}

			e, err := NewEngine(dp)
			Expect(err).ToNot(HaveOccurred())
			engine = e
			engine.SetProgramCounterAddress(0)
			dp.Settle()
		})

		It("should shift instruction indexes down the pipeline", func() {
			engine.ExecuteCycle()
			Expect(regs[0].InstructionIndex()).To(Equal(0))
			Expect(regs[1].InstructionIndex()).To(Equal(-1))

			engine.ExecuteCycle()
			Expect(regs[0].InstructionIndex()).To(Equal(1))
			Expect(regs[1].InstructionIndex()).To(Equal(0))

			engine.ExecuteCycle()
			engine.ExecuteCycle()
			Expect(regs[3].InstructionIndex()).To(Equal(0))
			Expect(pc.InstructionIndex()).To(Equal(4))
		})

		It("should keep the index of a stalled register", func() {
			engine.ExecuteCycle()
			engine.ExecuteCycle()

			regs[0].write = false
			engine.ExecuteCycle()
			Expect(regs[0].InstructionIndex()).To(Equal(1))
			Expect(regs[1].InstructionIndex()).To(Equal(1))
		})

		It("should clear the index of a flushed register even with write", func() {
			engine.ExecuteCycle()
			engine.ExecuteCycle()

			regs[0].write = true
			regs[0].flush = true
			engine.ExecuteCycle()
			Expect(regs[0].InstructionIndex()).To(Equal(-1))
		})

		It("should only finish when the pipeline has drained", func() {
			pc.SetInstructionIndex(-1)
			regs[2].SetInstructionIndex(3)
			Expect(engine.ProgramFinished()).To(BeFalse())

			regs[2].SetInstructionIndex(-1)
			Expect(engine.ProgramFinished()).To(BeTrue())
		})
	})
})
