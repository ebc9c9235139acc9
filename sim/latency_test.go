package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timing", func() {
	var dp *Datapath

	acc := func(name string) int {
		c, ok := dp.Component(name)
		Expect(ok).To(BeTrue())
		return c.AccumulatedLatency()
	}

	critical := func(name string) bool {
		c, ok := dp.Component(name)
		Expect(ok).To(BeTrue())
		return c.InCriticalPath()
	}

	Context("with a combinational chain", func() {
		BeforeEach(func() {
			dp, _ = minimalDatapath(4, 4)
			mustAdd(dp, newFakeComp("src", 5, 0, 1))
			mustAdd(dp, newFakeComp("a", 3, 1, 1))
			mustAdd(dp, newFakeComp("b", 2, 1, 1))
			mustConnect(dp, "src", "Out0", "a", "In0")
			mustConnect(dp, "a", "Out0", "b", "In0")

			Expect(dp.Validate()).To(Succeed())
			dp.RecomputeTiming()
		})

		It("should accumulate latency along the chain", func() {
			Expect(acc("src")).To(Equal(5))
			Expect(acc("a")).To(Equal(8))
			Expect(acc("b")).To(Equal(10))
		})

		It("should mark the whole chain critical", func() {
			Expect(critical("src")).To(BeTrue())
			Expect(critical("a")).To(BeTrue())
			Expect(critical("b")).To(BeTrue())
		})

		It("should follow latency overrides", func() {
			c, _ := dp.Component("a")
			c.SetLatency(10)
			dp.RecomputeTiming()

			Expect(acc("a")).To(Equal(15))
			Expect(acc("b")).To(Equal(17))
		})

		It("should restore declared latencies", func() {
			c, _ := dp.Component("a")
			c.SetLatency(10)
			dp.RecomputeTiming()

			dp.ResetLatencies()
			Expect(acc("b")).To(Equal(10))
		})
	})

	Context("with converging paths", func() {
		BeforeEach(func() {
			dp, _ = minimalDatapath(4, 4)
			mustAdd(dp, newFakeComp("src", 5, 0, 2))
			mustAdd(dp, newFakeComp("slow", 3, 1, 1))
			mustAdd(dp, newFakeComp("fast", 1, 1, 1))
			mustAdd(dp, newFakeComp("join", 2, 2, 1))
			mustConnect(dp, "src", "Out0", "slow", "In0")
			mustConnect(dp, "src", "Out1", "fast", "In0")
			mustConnect(dp, "slow", "Out0", "join", "In0")
			mustConnect(dp, "fast", "Out0", "join", "In1")

			Expect(dp.Validate()).To(Succeed())
			dp.RecomputeTiming()
		})

		It("should take the slowest input", func() {
			Expect(acc("join")).To(Equal(10))
		})

		It("should mark only the slow branch critical", func() {
			Expect(critical("join")).To(BeTrue())
			Expect(critical("slow")).To(BeTrue())
			Expect(critical("src")).To(BeTrue())
			Expect(critical("fast")).To(BeFalse())
		})

		It("should skip inputs that do not affect latency", func() {
			join, _ := dp.Component("join")
			in, _ := join.Input("In0")
			in.SetAffectsLatency(false)
			dp.RecomputeTiming()

			Expect(acc("join")).To(Equal(8))
		})
	})

	Context("with synchronous boundaries", func() {
		BeforeEach(func() {
			dp, _ = minimalDatapath(4, 4)
			fork, _ := dp.Component("fork")
			fork.SetLatency(4)
			next, _ := dp.Component("next")
			next.SetLatency(6)

			Expect(dp.Validate()).To(Succeed())
			dp.RecomputeTiming()
		})

		It("should treat synchronous components as latency sources", func() {
			Expect(acc("pc")).To(Equal(0))
			Expect(acc("fork")).To(Equal(4))
			Expect(acc("next")).To(Equal(10))
		})

		It("should walk the critical path back into the source", func() {
			Expect(critical("next")).To(BeTrue())
			Expect(critical("fork")).To(BeTrue())
			Expect(critical("pc")).To(BeTrue())
		})
	})

	Context("when classifying the control path", func() {
		It("should flag the control unit", func() {
			dp, _ = minimalDatapath(4, 4)
			Expect(dp.Validate()).To(Succeed())

			dp.DetermineControlPath()

			control, _ := dp.Component("control")
			Expect(control.InControlPath()).To(BeTrue())
			pc, _ := dp.Component("pc")
			Expect(pc.InControlPath()).To(BeFalse())
		})
	})
})
