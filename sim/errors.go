package sim

import "github.com/pkg/errors"

// Structural errors are raised while the datapath is being built and
// are fatal to that load attempt. Each is wrapped with the offending
// identifier; use errors.Cause to classify.
var (
	ErrDuplicateID           = errors.New("duplicate component identifier")
	ErrRoleConflict          = errors.New("architectural role already occupied")
	ErrPipelineRegisterCount = errors.New("pipelined datapaths must have exactly 4 pipeline registers")
	ErrMissingComponent      = errors.New("required component missing")
	ErrUnknownComponent      = errors.New("unknown component identifier")
	ErrUnknownPort           = errors.New("unknown port identifier")
	ErrWidthMismatch         = errors.New("port widths do not match")
	ErrAlreadyConnected      = errors.New("port is already connected")
	ErrCombinationalLoop     = errors.New("combinational loop")
)

// ErrInfiniteLoop is raised by ExecuteAll when the cycle ceiling is
// reached. The engine is left exactly as of the last completed cycle.
var ErrInfiniteLoop = errors.New("possible infinite loop")

// ErrRegisterNames is raised when a register name list does not match
// the register file.
var ErrRegisterNames = errors.New("invalid register names")
