package comps

import "github.com/sarchlab/mipsim/sim"

// Port names of the ForwardingUnit.
const (
	FwdExMemRegWrite = "ExMemRegWrite"
	FwdMemWbRegWrite = "MemWbRegWrite"
	FwdExMemRd       = "ExMemRd"
	FwdMemWbRd       = "MemWbRd"
	FwdIdExRs        = "IdExRs"
	FwdIdExRt        = "IdExRt"
	FwdForwardA      = "ForwardA"
	FwdForwardB      = "ForwardB"
)

// A ForwardingUnit resolves read-after-write hazards by steering the
// ALU operand muxes. Selector 2 forwards from the EX/MEM boundary,
// selector 1 from MEM/WB, selector 0 takes the register file value.
type ForwardingUnit struct {
	*sim.ComponentBase

	exMemRegWrite *sim.Input
	memWbRegWrite *sim.Input
	exMemRd       *sim.Input
	memWbRd       *sim.Input
	idExRs        *sim.Input
	idExRt        *sim.Input

	forwardA *sim.Output
	forwardB *sim.Output
}

// NewForwardingUnit creates a forwarding unit. regBits is the width of
// a register index.
func NewForwardingUnit(name string, latency, regBits int) *ForwardingUnit {
	u := &ForwardingUnit{
		ComponentBase: sim.NewComponentBase(name, latency),
	}
	u.exMemRegWrite = u.AddInput(u, FwdExMemRegWrite, 1)
	u.memWbRegWrite = u.AddInput(u, FwdMemWbRegWrite, 1)
	u.exMemRd = u.AddInput(u, FwdExMemRd, regBits)
	u.memWbRd = u.AddInput(u, FwdMemWbRd, regBits)
	u.idExRs = u.AddInput(u, FwdIdExRs, regBits)
	u.idExRt = u.AddInput(u, FwdIdExRt, regBits)
	u.forwardA = u.AddOutput(u, FwdForwardA, 2)
	u.forwardB = u.AddOutput(u, FwdForwardB, 2)
	return u
}

// Role returns RoleForwardingUnit.
func (u *ForwardingUnit) Role() sim.Role { return sim.RoleForwardingUnit }

func (u *ForwardingUnit) forward(src uint32) uint32 {
	exMemRd := u.exMemRd.Uint()
	memWbRd := u.memWbRd.Uint()

	// The EX hazard wins over the MEM hazard when both match.
	if u.exMemRegWrite.Uint() == 1 && exMemRd != 0 && exMemRd == src {
		return 2
	}
	if u.memWbRegWrite.Uint() == 1 && memWbRd != 0 && memWbRd == src {
		return 1
	}
	return 0
}

// Compute steers both operand muxes.
func (u *ForwardingUnit) Compute() {
	u.forwardA.SetValue(u.forward(u.idExRs.Uint()))
	u.forwardB.SetValue(u.forward(u.idExRt.Uint()))
}

// Port names of the HazardDetectionUnit.
const (
	HazardIdExMemRead = "IdExMemRead"
	HazardIdExRt      = "IdExRt"
	HazardIfIdRs      = "IfIdRs"
	HazardIfIdRt      = "IfIdRt"
	HazardStall       = "Stall"
)

// A HazardDetectionUnit detects the load-use hazard and asserts Stall
// for one cycle so a bubble can be inserted behind the load.
type HazardDetectionUnit struct {
	*sim.ComponentBase

	idExMemRead *sim.Input
	idExRt      *sim.Input
	ifIdRs      *sim.Input
	ifIdRt      *sim.Input

	stall *sim.Output
}

// NewHazardDetectionUnit creates a hazard detection unit. regBits is
// the width of a register index.
func NewHazardDetectionUnit(name string, latency, regBits int) *HazardDetectionUnit {
	u := &HazardDetectionUnit{
		ComponentBase: sim.NewComponentBase(name, latency),
	}
	u.idExMemRead = u.AddInput(u, HazardIdExMemRead, 1)
	u.idExRt = u.AddInput(u, HazardIdExRt, regBits)
	u.ifIdRs = u.AddInput(u, HazardIfIdRs, regBits)
	u.ifIdRt = u.AddInput(u, HazardIfIdRt, regBits)
	u.stall = u.AddOutput(u, HazardStall, 1)
	return u
}

// Role returns RoleHazardUnit.
func (u *HazardDetectionUnit) Role() sim.Role { return sim.RoleHazardUnit }

// Compute asserts Stall when the instruction in EX is a load whose
// destination is read by the instruction in ID.
func (u *HazardDetectionUnit) Compute() {
	rt := u.idExRt.Uint()
	stall := u.idExMemRead.Uint() == 1 &&
		(rt == u.ifIdRs.Uint() || rt == u.ifIdRt.Uint())
	if stall {
		u.stall.SetValue(1)
	} else {
		u.stall.SetValue(0)
	}
}
