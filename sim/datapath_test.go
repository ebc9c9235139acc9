package sim

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Datapath", func() {
	var dp *Datapath

	BeforeEach(func() {
		dp = NewDatapath()
	})

	Context("when adding components", func() {
		It("should reject duplicate identifiers", func() {
			Expect(dp.AddComponent(newFakeComp("a", 0, 1, 1))).To(Succeed())

			err := dp.AddComponent(newFakeComp("a", 0, 1, 1))
			Expect(errors.Cause(err)).To(Equal(ErrDuplicateID))
		})

		It("should reject a second holder of a singleton role", func() {
			Expect(dp.AddComponent(newFakePC("pc"))).To(Succeed())

			err := dp.AddComponent(newFakePC("pc2"))
			Expect(errors.Cause(err)).To(Equal(ErrRoleConflict))
		})

		It("should reject a pipeline register with a bogus name", func() {
			r := newFakePipeReg("IF/ID")
			r.ComponentBase = NewComponentBase("bogus", 0)

			err := dp.AddComponent(r)
			Expect(errors.Cause(err)).To(Equal(ErrRoleConflict))
		})

		It("should reject two pipeline registers at the same stage", func() {
			Expect(dp.AddComponent(newFakePipeReg("IF/ID"))).To(Succeed())

			second := newFakePipeReg("ID/EX")
			second.ComponentBase = NewComponentBase("if/id", 0)
			err := dp.AddComponent(second)
			Expect(errors.Cause(err)).To(Equal(ErrRoleConflict))
		})

		It("should resolve pipeline register names case-insensitively", func() {
			stage, ok := ParseStage(" ex/mem ")
			Expect(ok).To(BeTrue())
			Expect(stage).To(Equal(StageEXMEM))

			_, ok = ParseStage("WB/IF")
			Expect(ok).To(BeFalse())
		})
	})

	Context("when connecting ports", func() {
		BeforeEach(func() {
			mustAdd(dp, newFakeComp("a", 0, 1, 1))
			mustAdd(dp, newFakeComp("b", 0, 2, 1))
		})

		It("should connect matching ports", func() {
			out, err := dp.Connect("a", "Out0", "b", "In0")
			Expect(err).ToNot(HaveOccurred())
			Expect(out.Connected()).To(BeTrue())
			Expect(out.Connection().Component().Name()).To(Equal("b"))
		})

		It("should reject unknown components", func() {
			_, err := dp.Connect("nope", "Out0", "b", "In0")
			Expect(errors.Cause(err)).To(Equal(ErrUnknownComponent))
		})

		It("should reject unknown ports", func() {
			_, err := dp.Connect("a", "Out7", "b", "In0")
			Expect(errors.Cause(err)).To(Equal(ErrUnknownPort))
		})

		It("should reject width mismatches", func() {
			narrow := newFakeComp("narrow", 0, 0, 0)
			narrow.AddInput(narrow, "In0", 1)
			mustAdd(dp, narrow)

			_, err := dp.Connect("a", "Out0", "narrow", "In0")
			Expect(errors.Cause(err)).To(Equal(ErrWidthMismatch))
		})

		It("should reject double connections", func() {
			mustConnect(dp, "a", "Out0", "b", "In0")

			_, err := dp.Connect("a", "Out0", "b", "In1")
			Expect(errors.Cause(err)).To(Equal(ErrAlreadyConnected))
		})
	})

	Context("when validating", func() {
		It("should accept the minimal datapath", func() {
			dp, _ := minimalDatapath(4, 4)
			Expect(dp.Validate()).To(Succeed())
		})

		It("should require the program counter", func() {
			mustAdd(dp, newFakeIMem("imem", 0))
			mustAdd(dp, newFakeRegs("regbank", 4))
			mustAdd(dp, newFakeControl("control"))

			err := dp.Validate()
			Expect(errors.Cause(err)).To(Equal(ErrMissingComponent))
		})

		It("should require all four pipeline registers or none", func() {
			dp, _ := minimalDatapath(4, 4)
			mustAdd(dp, newFakePipeReg("IF/ID"))
			mustAdd(dp, newFakePipeReg("ID/EX"))

			err := dp.Validate()
			Expect(errors.Cause(err)).To(Equal(ErrPipelineRegisterCount))

			mustAdd(dp, newFakePipeReg("EX/MEM"))
			mustAdd(dp, newFakePipeReg("MEM/WB"))
			Expect(dp.Validate()).To(Succeed())
		})

		It("should detect combinational loops", func() {
			dp, _ := minimalDatapath(4, 4)
			mustAdd(dp, newFakeComp("x", 0, 1, 1))
			mustAdd(dp, newFakeComp("y", 0, 1, 1))
			mustConnect(dp, "x", "Out0", "y", "In0")
			mustConnect(dp, "y", "Out0", "x", "In0")

			err := dp.Validate()
			Expect(errors.Cause(err)).To(Equal(ErrCombinationalLoop))
		})

		It("should not see a loop through a latched input", func() {
			// The pc's In is latched, so pc -> fork -> next -> pc is
			// not a combinational cycle.
			dp, _ := minimalDatapath(4, 4)
			Expect(dp.Validate()).To(Succeed())
		})
	})

	Context("when settling", func() {
		It("should evaluate upstream components first", func() {
			dp, _ := minimalDatapath(4, 4)
			trace := []string{}
			for _, name := range []string{"fork", "next"} {
				c, _ := dp.Component(name)
				c.(*fakeComp).trace = &trace
			}

			Expect(dp.Validate()).To(Succeed())
			dp.Settle()

			Expect(trace).To(Equal([]string{"fork", "next"}))
		})

		It("should propagate values along connections", func() {
			dp, pc := minimalDatapath(4, 4)
			Expect(dp.Validate()).To(Succeed())

			pc.SetAddress(8)
			dp.Settle()

			next, _ := dp.Component("next")
			out, _ := next.Output("Out0")
			Expect(out.Uint()).To(Equal(uint32(12)))
		})
	})

	Context("when naming registers", func() {
		var names []string

		BeforeEach(func() {
			d, _ := minimalDatapath(4, 4)
			dp = d
			names = []string{"Zero", "AT", "v0", "v1"}
			Expect(dp.SetRegisterNames(names)).To(Succeed())
		})

		It("should reject a wrong count", func() {
			err := dp.SetRegisterNames([]string{"a", "b"})
			Expect(errors.Cause(err)).To(Equal(ErrRegisterNames))
		})

		It("should reject malformed names", func() {
			err := dp.SetRegisterNames([]string{"zero", "at", "v0", "0v"})
			Expect(errors.Cause(err)).To(Equal(ErrRegisterNames))
		})

		It("should reject duplicates ignoring case", func() {
			err := dp.SetRegisterNames([]string{"zero", "at", "v0", "V0"})
			Expect(errors.Cause(err)).To(Equal(ErrRegisterNames))
		})

		It("should resolve numeric references", func() {
			Expect(dp.RegisterIndex("$2")).To(Equal(2))
			Expect(dp.RegisterIndex("3")).To(Equal(3))
			Expect(dp.RegisterIndex("$4")).To(Equal(-1))
			Expect(dp.RegisterIndex("$")).To(Equal(-1))
		})

		It("should resolve names case-insensitively", func() {
			Expect(dp.RegisterIndex("$zero")).To(Equal(0))
			Expect(dp.RegisterIndex("ZERO")).To(Equal(0))
			Expect(dp.RegisterIndex("$At")).To(Equal(1))
			Expect(dp.RegisterIndex("nope")).To(Equal(-1))
		})

		It("should report stored names lowercased", func() {
			name, ok := dp.RegisterName(1)
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("at"))

			_, ok = dp.RegisterName(9)
			Expect(ok).To(BeFalse())
		})

		It("should answer existence queries", func() {
			Expect(dp.HasRegister("$v1")).To(BeTrue())
			Expect(dp.HasRegister("$t9")).To(BeFalse())
		})
	})
})
