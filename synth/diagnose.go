package synth

import (
	"strconv"

	"github.com/crillab/gophersat/maxsat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/qbf"
)

// An Action is the kind of repair the diagnosis table prescribes.
type Action byte

const (
	// ShrinkA removes the counterexample's generalization from A.
	ShrinkA = Action(iota)
	// ExpandA adds it to A.
	ExpandA
	// ShrinkC removes it from C.
	ShrinkC
	// ExpandC adds it to C.
	ExpandC
)

func (a Action) String() string {
	switch a {
	case ShrinkA:
		return "shrink-A"
	case ExpandA:
		return "expand-A"
	case ShrinkC:
		return "shrink-C"
	case ExpandC:
		return "expand-C"
	default:
		panic("invalid action")
	}
}

// A Repair is one prescribed mutation of the basis.
type Repair struct {
	Entry  *basis.Entry
	Action Action
	Target bool // the value the output should have taken
}

// A Diagnosis is the outcome of localizing a counterexample: the
// corrected output assignment and the repairs to apply, in rank order.
type Diagnosis struct {
	Fix     map[int]bool
	Repairs []Repair
}

type diagnoser struct {
	pb   *qbf.Problem
	opts Options
	log  logrus.FieldLogger
}

// diagnose finds a minimum set of outputs whose flipping makes the
// counterexample's synthesized assignment satisfy the specification,
// then classifies each flipped output into a repair action.
//
// The MaxSAT query clamps the inputs to the counterexample (hard), keeps
// the matrix hard, and asks to agree with the synthesized outputs on as
// many positions as possible (unit soft clauses).
func (d *diagnoser) diagnose(b *basis.Basis, cex *Counterexample) (*Diagnosis, error) {
	constrs := make([]maxsat.Constr, 0, len(d.pb.Clauses)+len(d.pb.Inputs)+b.Len())
	for _, clause := range d.pb.Clauses {
		lits := make([]maxsat.Lit, len(clause))
		for i, l := range clause {
			lits[i] = msLit(l)
		}
		constrs = append(constrs, maxsat.HardClause(lits...))
	}
	for _, x := range d.pb.Inputs {
		constrs = append(constrs, maxsat.HardClause(msUnit(x, cex.X[x])))
	}
	for _, y := range d.pb.Outputs {
		constrs = append(constrs, maxsat.SoftClause(msUnit(y, cex.Ypsi[y])))
	}

	model, cost := maxsat.New(constrs...).Solve()
	if model == nil {
		return nil, errors.Wrap(ErrInvariant, "diagnosis hard clauses unsatisfiable")
	}
	fix := make(map[int]bool, b.Len())
	for _, y := range d.pb.Outputs {
		fix[y] = model[msName(y)]
	}

	diag := &Diagnosis{Fix: fix}
	for r := 0; r < b.Len(); r++ {
		e := b.At(r)
		if fix[e.Var] == cex.Ypsi[e.Var] {
			continue
		}
		if e.Frozen {
			// A frozen entry realizes the exact must regions; it cannot
			// be the erring one.
			d.log.WithField("output", e.Var).Warn("diagnosis flipped a frozen output, skipping")
			continue
		}
		diag.Repairs = append(diag.Repairs, Repair{
			Entry:  e,
			Action: d.classify(e, cex, fix[e.Var]),
			Target: fix[e.Var],
		})
	}
	if len(diag.Repairs) == 0 {
		return nil, errors.Wrapf(ErrInvariant, "counterexample with empty flip set (cost %d)", cost)
	}
	d.log.WithFields(logrus.Fields{"cost": cost, "repairs": len(diag.Repairs)}).Debug("diagnosis complete")
	return diag, nil
}

// classify applies the diagnosis table. target is the corrected value of
// the output, cex.Ypsi its current value (always the negation of
// target), and the parameter value decides which region misfired. On the
// (target=0, g=1) row, A is inspected first: when A holds on the
// counterexample prefix it is the region that forced the wrong 1, and C
// must not be expanded for a parameter the candidate never consulted.
func (d *diagnoser) classify(e *basis.Entry, cex *Counterexample, target bool) Action {
	gVal := cex.G[e.Var]
	switch {
	case !target && !gVal:
		return ShrinkA
	case !target && gVal:
		if e.A.Eval(prefixAssign(cex)) {
			return ShrinkA
		}
		return ExpandC
	case target && !gVal:
		return ExpandA
	default:
		return ShrinkC
	}
}

// prefixAssign reads the counterexample values a candidate's functions
// may depend on: inputs, and upstream outputs as the candidates
// computed them.
func prefixAssign(cex *Counterexample) func(v int) bool {
	return func(v int) bool {
		if val, ok := cex.X[v]; ok {
			return val
		}
		return cex.Ypsi[v]
	}
}

func msName(v int) string { return strconv.Itoa(v) }

func msLit(l int) maxsat.Lit {
	if l < 0 {
		return maxsat.Not(msName(-l))
	}
	return maxsat.Var(msName(l))
}

func msUnit(v int, val bool) maxsat.Lit {
	if val {
		return maxsat.Var(msName(v))
	}
	return maxsat.Not(msName(v))
}
