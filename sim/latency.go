package sim

// RecomputeTiming recalculates every accumulated latency and re-marks
// the critical path. It must be invoked whenever a component's
// intrinsic latency changes, including on initial load.
func (dp *Datapath) RecomputeTiming() {
	dp.resetTiming()
	dp.settleLatencies()
	dp.markCriticalPath()
}

func (dp *Datapath) resetTiming() {
	for _, c := range dp.components {
		c.SetAccumulatedLatency(0)
		c.MarkCriticalPath(false)
		for _, in := range c.Inputs() {
			in.accLatency = 0
		}
		for _, out := range c.Outputs() {
			out.accLatency = 0
			out.inCriticalPath = false
		}
	}
}

// settleLatencies walks the evaluation order once. Synchronous
// components are latency sources and sinks: their accumulated latency
// is their own latency, and upstream delay stops at their inputs.
func (dp *Datapath) settleLatencies() {
	for _, c := range dp.order {
		acc := c.Latency()

		if _, synchronous := c.(Synchronous); !synchronous {
			inMax := 0
			for _, in := range c.Inputs() {
				if in.AffectsLatency() && in.accLatency > inMax {
					inMax = in.accLatency
				}
			}
			acc = inMax + c.Latency()
		}

		c.SetAccumulatedLatency(acc)
		for _, out := range c.Outputs() {
			out.accLatency = acc
			if out.conn != nil {
				out.conn.accLatency = acc
			}
		}
	}
}

// markCriticalPath flags the longest-delay chain. Starting from every
// maximal component/input, it walks backwards following one input per
// node whose accumulated latency equals the node's pre-latency value,
// ties broken by input declaration order.
func (dp *Datapath) markCriticalPath() {
	maxLatency := 0
	for _, c := range dp.components {
		if c.AccumulatedLatency() > maxLatency {
			maxLatency = c.AccumulatedLatency()
		}
		for _, in := range c.Inputs() {
			if in.accLatency > maxLatency {
				maxLatency = in.accLatency
			}
		}
	}

	var worklist []Component
	for _, c := range dp.components {
		if c.AccumulatedLatency() == maxLatency {
			worklist = append(worklist, c)
		}
		for _, in := range c.Inputs() {
			if in.accLatency == maxLatency && in.Connected() &&
				!in.conn.inCriticalPath {
				in.conn.inCriticalPath = true
				worklist = append(worklist, in.conn.comp)
			}
		}
	}

	for len(worklist) > 0 {
		c := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		c.MarkCriticalPath(true)

		lat := c.AccumulatedLatency() - c.Latency()
		for _, in := range c.Inputs() {
			if !in.AffectsLatency() || in.accLatency != lat ||
				!in.Connected() || in.conn.inCriticalPath {
				continue
			}
			in.conn.inCriticalPath = true
			worklist = append(worklist, in.conn.comp)
			break
		}
	}
}

// zeroFlagged is implemented by ALUs that expose a zero-flag output.
type zeroFlagged interface {
	Zero() *Output
}

// DetermineControlPath flags the control-signal components. This is a
// fixed domain classification, not a timing computation.
func (dp *Datapath) DetermineControlPath() {
	if c, ok := dp.RoleHolder(RoleControlUnit); ok {
		c.MarkControlPath()
	}
	if c, ok := dp.RoleHolder(RoleALU); ok {
		if alu, ok := c.(zeroFlagged); ok {
			alu.Zero().MarkControlPath()
		}
	}
	if c, ok := dp.RoleHolder(RoleALUControl); ok {
		c.MarkControlPath()
	}
	if c, ok := dp.RoleHolder(RoleForwardingUnit); ok {
		c.MarkControlPath()
	}
	if c, ok := dp.RoleHolder(RoleHazardUnit); ok {
		c.MarkControlPath()
	}
}

// ResetLatencies restores every component's declared latency and
// recomputes the timing.
func (dp *Datapath) ResetLatencies() {
	for _, c := range dp.components {
		c.ResetLatency()
	}
	dp.RecomputeTiming()
}
