package synth

import (
	"sort"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/qbf"
)

type repairer struct {
	pb   *qbf.Problem
	opts Options
	log  logrus.FieldLogger
}

// apply executes the prescribed repairs in rank order, so that a
// later-ranked repair sees the earlier mutations of this iteration.
func (r *repairer) apply(b *basis.Basis, cex *Counterexample, diag *Diagnosis) error {
	for i := range diag.Repairs {
		rep := &diag.Repairs[i]
		beta, err := r.core(b, cex, diag, rep)
		if err != nil {
			return err
		}
		r.mutate(rep, beta)
		e := rep.Entry
		e.Repairs++
		if e.Repairs > r.opts.RepairThreshold {
			r.fallback(e)
		}
	}
	return nil
}

// core builds the conflict formula for one repair and generalizes the
// counterexample into a cube β over the entry's feature set.
//
// The formula conjoins the matrix, the candidate stuck at its wrong
// value, and the known-correct downstream outputs clamped to the
// diagnosis fix. The inputs and upstream outputs are assumed at their
// counterexample polarity; the formula is unsatisfiable by construction,
// and the failed-assumption core names the prefix literals that actually
// forced the clash.
func (r *repairer) core(b *basis.Basis, cex *Counterexample, diag *Diagnosis, rep *Repair) (basis.Cube, error) {
	e := rep.Entry
	c := logic.NewC()
	env := make(map[int]z.Lit, r.pb.NumVars)
	for v := 1; v <= r.pb.NumVars; v++ {
		env[v] = c.Lit()
	}
	lit := func(u int) z.Lit { return env[u] }

	wrong := cex.Ypsi[e.Var]
	parts := []z.Lit{specWire(c, r.pb, lit)}
	// The output stuck at the candidate's wrong value; the specification
	// under the clamps forces the opposite, so the formula is UNSAT.
	parts = append(parts, signedWire(env[e.Var], wrong))
	psi := psiWire(c, r.pb, b, e, lit, constWire(c, cex.G[e.Var]))
	parts = append(parts, signedWire(psi, wrong))
	for rank := e.Rank + 1; rank < b.Len(); rank++ {
		y := b.At(rank).Var
		parts = append(parts, signedWire(env[y], diag.Fix[y]))
	}
	root := c.Ands(parts...)

	g := gini.New()
	c.ToCnfFrom(g, root)
	assertUnit(g, c.T)
	assertUnit(g, root)

	prefix := make([]int, 0, len(r.pb.Inputs)+e.Rank)
	for _, x := range r.pb.Inputs {
		prefix = append(prefix, dimacsLit(x, cex.X[x]))
	}
	for _, y := range b.Upstream(e) {
		prefix = append(prefix, dimacsLit(y, cex.Ypsi[y]))
	}
	assumed := make([]z.Lit, len(prefix))
	for i, l := range prefix {
		assumed[i] = signedWire(env[abs(l)], l > 0)
	}
	g.Assume(assumed...)

	switch solve(g, r.opts.SolverTimeout) {
	case 1:
		return nil, errors.Wrapf(ErrInvariant, "conflict formula for output %d is satisfiable", e.Var)
	case 0:
		return nil, errors.Wrapf(ErrSolverTimeout, "repairing output %d", e.Var)
	}

	core := g.Why(nil)
	varOf := make(map[z.Var]int, len(assumed))
	for i, m := range assumed {
		varOf[m.Var()] = prefix[i]
	}
	lits := make([]int, 0, len(core))
	for _, m := range core {
		l, ok := varOf[m.Var()]
		if !ok {
			return nil, errors.Wrapf(ErrInvariant, "core literal %d outside the assumption set", m)
		}
		lits = append(lits, l)
	}
	sort.Slice(lits, func(i, j int) bool { return abs(lits[i]) < abs(lits[j]) })
	beta, ok := basis.NewCube(lits)
	if !ok {
		return nil, errors.Wrap(ErrInvariant, "contradictory unsat core")
	}
	r.log.WithFields(logrus.Fields{
		"output": e.Var,
		"action": rep.Action.String(),
		"core":   beta,
	}).Debug("repair core extracted")
	return beta, nil
}

func (r *repairer) mutate(rep *Repair, beta basis.Cube) {
	e := rep.Entry
	switch rep.Action {
	case ShrinkA:
		e.A.AddClause(beta.Negate())
	case ExpandA:
		e.A.AddCube(beta)
	case ShrinkC:
		e.C.AddClause(beta.Negate())
	case ExpandC:
		e.C.AddCube(beta)
	}
	e.A.Simplify()
	e.C.Simplify()
}

// fallback swaps the entry to its semantic definition: the exact must
// regions derived from the specification cofactors. The entry is frozen;
// no further repair will touch it.
func (r *repairer) fallback(e *basis.Entry) {
	e.Semantic = true
	e.Frozen = true
	r.log.WithFields(logrus.Fields{
		"output":  e.Var,
		"repairs": e.Repairs,
	}).Info("repair threshold exceeded, switching to semantic definition")
}

func signedWire(m z.Lit, val bool) z.Lit {
	if val {
		return m
	}
	return m.Not()
}

func dimacsLit(v int, val bool) int {
	if val {
		return v
	}
	return -v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
