package synth

import (
	"github.com/pkg/errors"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/qbf"
)

// Status is the terminal state of a synthesis run.
type Status byte

const (
	// Done means the verifier proved the basis correct.
	Done = Status(iota)
	// Unsat means the specification itself has no model.
	Unsat
	// CapReached means the iteration cap was hit before convergence.
	CapReached
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Unsat:
		return "unsat"
	case CapReached:
		return "cap-reached"
	default:
		panic("invalid status")
	}
}

// Terminal error causes. They abort the run and map to process exit
// codes in ExitCode.
var (
	// ErrInvariant flags an internal inconsistency: a sample that
	// falsifies the specification, a counterexample with an empty flip
	// set, or a conflict formula that turned out satisfiable.
	ErrInvariant = errors.New("invariant violation")
	// ErrSolverTimeout flags an outbound solver call exceeding its
	// per-call bound.
	ErrSolverTimeout = errors.New("solver timeout")
)

// A Result is the outcome of a run. On CapReached the basis is partial
// and Counterexample holds the last failing witness.
type Result struct {
	Status         Status
	Basis          *basis.Basis
	Iterations     int
	Counterexample *Counterexample
}

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitUnsat        = 1
	ExitIterationCap = 2
	ExitSolver       = 3
	ExitBadInput     = 4
)

// ExitCode maps a run outcome to the process exit code. Solver failures
// and invariant violations are both fatal internal conditions and share
// the solver error code; malformed input is detected before a run
// exists.
func ExitCode(res *Result, err error) int {
	if err != nil {
		var pe *qbf.ParseError
		if errors.As(err, &pe) {
			return ExitBadInput
		}
		return ExitSolver
	}
	switch res.Status {
	case Done:
		return ExitSuccess
	case Unsat:
		return ExitUnsat
	case CapReached:
		return ExitIterationCap
	default:
		return ExitSolver
	}
}
