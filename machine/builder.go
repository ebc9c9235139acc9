package machine

import (
	"github.com/sarchlab/mipsim/comps"
	"github.com/sarchlab/mipsim/isa"
	"github.com/sarchlab/mipsim/sim"
)

// Builder assembles a Machine.
type Builder struct {
	pipelined     bool
	extendedALU   bool
	dataWords     int
	registerNames []string
	control       isa.ControlTable
	aluControl    isa.ALUControlTable
}

// MakeBuilder returns a Builder configured for the single-cycle MIPS
// datapath with the stock control tables.
func MakeBuilder() Builder {
	return Builder{
		dataWords:     1024,
		registerNames: DefaultRegisterNames,
		control:       isa.MIPSControl(),
		aluControl:    isa.MIPSALUControl(),
	}
}

// WithPipeline selects the 5-stage pipelined datapath with forwarding
// and hazard detection.
func (b Builder) WithPipeline() Builder {
	b.pipelined = true
	return b
}

// WithExtendedALU replaces the ALU with one that supports multiply,
// divide and the hi/lo moves.
func (b Builder) WithExtendedALU() Builder {
	b.extendedALU = true
	return b
}

// WithDataMemoryWords sets the data memory size, in words.
func (b Builder) WithDataMemoryWords(words int) Builder {
	b.dataWords = words
	return b
}

// WithRegisterNames replaces the register names. The list must hold
// one unique name per register.
func (b Builder) WithRegisterNames(names []string) Builder {
	b.registerNames = names
	return b
}

// WithControlTable replaces the control table.
func (b Builder) WithControlTable(table isa.ControlTable) Builder {
	b.control = table
	return b
}

// WithALUControlTable replaces the ALU-control table.
func (b Builder) WithALUControlTable(table isa.ALUControlTable) Builder {
	b.aluControl = table
	return b
}

// Build wires the datapath, validates it, runs the timing analysis and
// attaches the cycle engine.
func (b Builder) Build() (*Machine, error) {
	m := &Machine{dp: sim.NewDatapath()}
	w := &wiring{dp: m.dp}

	if b.pipelined {
		b.buildPipelined(m, w)
	} else {
		b.buildSingleCycle(m, w)
	}
	if w.err != nil {
		return nil, w.err
	}

	if err := m.dp.Validate(); err != nil {
		return nil, err
	}
	if err := m.dp.SetRegisterNames(b.registerNames); err != nil {
		return nil, err
	}
	m.regs.SetRegisterConstant(0, 0)

	m.dp.RecomputeTiming()
	m.dp.DetermineControlPath()

	engine, err := sim.NewEngine(m.dp)
	if err != nil {
		return nil, err
	}
	m.engine = engine
	m.dp.Settle()

	return m, nil
}

// newALU picks the plain or the extended ALU.
func (b Builder) newALU(name string) sim.Component {
	if b.extendedALU {
		return comps.NewExtendedALU(name, LatencyALU, b.aluControl)
	}
	return comps.NewALU(name, LatencyALU, b.aluControl)
}

// wiring accumulates graph-building calls, keeping the first error.
type wiring struct {
	dp  *sim.Datapath
	err error
}

func (w *wiring) add(c sim.Component) {
	if w.err != nil {
		return
	}
	w.err = w.dp.AddComponent(c)
}

func (w *wiring) connect(outComp, outPort, inComp, inPort string) {
	if w.err != nil {
		return
	}
	_, w.err = w.dp.Connect(outComp, outPort, inComp, inPort)
}
