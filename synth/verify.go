package synth

import (
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/qbf"
)

// A Counterexample is a witness of incorrectness found by the verifier:
// an input and parameter assignment under which the specification has a
// model but the synthesized outputs falsify it. All maps are keyed by
// problem variable; G and Ypsi by output variable.
type Counterexample struct {
	X    map[int]bool // universal inputs
	G    map[int]bool // free parameters, by output
	Y    map[int]bool // the model of the original copy
	Ypsi map[int]bool // the values produced by the candidates
}

type verifier struct {
	pb   *qbf.Problem
	opts Options
	log  logrus.FieldLogger
}

// verify builds and solves the error formula
//
//	F(X, Y) ∧ ¬F(X, Y′) ∧ ⋀_i (y′_i ↔ ψ_i(X, y′_{<i}, g_i))
//
// and returns nil when it is unsatisfiable, meaning the candidate basis
// is correct for every input and every parameter choice.
func (v *verifier) verify(b *basis.Basis) (*Counterexample, error) {
	c := logic.NewC()
	xLits := make(map[int]z.Lit, len(v.pb.Inputs))
	for _, x := range v.pb.Inputs {
		xLits[x] = c.Lit()
	}
	gLits := make(map[int]z.Lit, b.Len())
	yLits := make(map[int]z.Lit, b.Len())
	for _, y := range v.pb.Outputs {
		gLits[y] = c.Lit()
		yLits[y] = c.Lit()
	}

	origOK := specWire(c, v.pb, func(u int) z.Lit {
		if m, ok := yLits[u]; ok {
			return m
		}
		return xLits[u]
	})

	syn := make(map[int]z.Lit, len(v.pb.Inputs)+b.Len())
	for _, x := range v.pb.Inputs {
		syn[x] = xLits[x]
	}
	synEnv := func(u int) z.Lit { return syn[u] }
	psis := make([]z.Lit, b.Len())
	for r := 0; r < b.Len(); r++ {
		e := b.At(r)
		psis[r] = psiWire(c, v.pb, b, e, synEnv, gLits[e.Var])
		syn[e.Var] = psis[r]
	}
	synOK := specWire(c, v.pb, synEnv)
	out := c.And(origOK, synOK.Not())

	g := gini.New()
	c.ToCnfFrom(g, out)
	assertUnit(g, c.T)
	assertUnit(g, out)
	for _, m := range xLits {
		addFreeVar(g, m)
	}
	for _, y := range v.pb.Outputs {
		addFreeVar(g, gLits[y])
		addFreeVar(g, yLits[y])
	}

	res := solve(g, v.opts.SolverTimeout)
	switch res {
	case -1:
		return nil, nil
	case 0:
		return nil, errors.Wrap(ErrSolverTimeout, "verification")
	}

	cex := &Counterexample{
		X:    make(map[int]bool, len(v.pb.Inputs)),
		G:    make(map[int]bool, b.Len()),
		Y:    make(map[int]bool, b.Len()),
		Ypsi: make(map[int]bool, b.Len()),
	}
	for _, x := range v.pb.Inputs {
		cex.X[x] = g.Value(xLits[x])
	}
	for r := 0; r < b.Len(); r++ {
		y := b.At(r).Var
		cex.G[y] = g.Value(gLits[y])
		cex.Y[y] = g.Value(yLits[y])
		cex.Ypsi[y] = g.Value(psis[r])
	}
	v.log.WithFields(logrus.Fields{"x": cex.X, "g": cex.G}).Debug("counterexample found")
	return cex, nil
}

// assertUnit adds m as a unit clause.
func assertUnit(g *gini.Gini, m z.Lit) {
	g.Add(m)
	g.Add(z.LitNull)
}

// addFreeVar adds a tautological clause over m so that the solver knows
// the variable and assigns it in every model, even when the circuit
// simplified it away.
func addFreeVar(g *gini.Gini, m z.Lit) {
	g.Add(m)
	g.Add(m.Not())
	g.Add(z.LitNull)
}

// solve runs the solver, bounded by the per-call timeout when one is
// configured. Returns 1 for SAT, -1 for UNSAT, 0 for timeout.
func solve(g *gini.Gini, timeout time.Duration) int {
	if timeout > 0 {
		return g.GoSolve().Try(timeout)
	}
	return g.Solve()
}
