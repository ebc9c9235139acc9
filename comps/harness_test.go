package comps_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarchlab/mipsim/comps"
	"github.com/sarchlab/mipsim/sim"
)

// driver is a test-only component with a single settable output.
type driver struct {
	*sim.ComponentBase

	out   *sim.Output
	value uint32
}

func newDriver(name string, size int) *driver {
	d := &driver{ComponentBase: sim.NewComponentBase(name, 0)}
	d.out = d.AddOutput(d, comps.GateOut, size)
	return d
}

func (d *driver) Set(value uint32) { d.value = value }

func (d *driver) Compute() { d.out.SetValue(d.value) }

// harness wires drivers onto a component's inputs so tests can poke
// values without a full datapath.
type harness struct {
	t *testing.T

	dp      *sim.Datapath
	target  sim.Component
	drivers []*driver
}

func newHarness(t *testing.T, target sim.Component) *harness {
	dp := sim.NewDatapath()
	require.NoError(t, dp.AddComponent(target))
	return &harness{t: t, dp: dp, target: target}
}

// drive connects a fresh driver to the named input.
func (h *harness) drive(port string) *driver {
	in, ok := h.target.Input(port)
	require.True(h.t, ok, "input %s", port)

	d := newDriver(fmt.Sprintf("drive-%s", port), in.Size())
	require.NoError(h.t, h.dp.AddComponent(d))
	_, err := h.dp.Connect(d.Name(), comps.GateOut, h.target.Name(), port)
	require.NoError(h.t, err)

	h.drivers = append(h.drivers, d)
	return d
}

// settle re-evaluates the drivers and then the component under test.
func (h *harness) settle() {
	for _, d := range h.drivers {
		d.Compute()
	}
	h.target.Compute()
}

// out reads the named output of the component under test.
func (h *harness) out(port string) uint32 {
	out, ok := h.target.Output(port)
	require.True(h.t, ok, "output %s", port)
	return out.Uint()
}
