package synth

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/qbf"
)

// litFunc maps a problem variable to its circuit literal.
type litFunc func(v int) z.Lit

func override(lit litFunc, v int, m z.Lit) litFunc {
	return func(u int) z.Lit {
		if u == v {
			return m
		}
		return lit(u)
	}
}

// specWire builds the matrix of pb as a circuit: the conjunction over
// clauses of the disjunction of their literals.
func specWire(c *logic.C, pb *qbf.Problem, lit litFunc) z.Lit {
	clauses := make([]z.Lit, len(pb.Clauses))
	for i, clause := range pb.Clauses {
		ms := make([]z.Lit, len(clause))
		for j, l := range clause {
			if l < 0 {
				ms[j] = lit(-l).Not()
			} else {
				ms[j] = lit(l)
			}
		}
		clauses[i] = c.Ors(ms...)
	}
	return c.Ands(clauses...)
}

// existsWire eliminates vars from the matrix by Shannon expansion. The
// circuit is built as a DAG with structural hashing, which keeps the
// expansion of the small eliminated sets used here tractable.
func existsWire(c *logic.C, pb *qbf.Problem, lit litFunc, vars []int) z.Lit {
	if len(vars) == 0 {
		return specWire(c, pb, lit)
	}
	pos := existsWire(c, pb, override(lit, vars[0], c.T), vars[1:])
	neg := existsWire(c, pb, override(lit, vars[0], c.F), vars[1:])
	return c.Or(pos, neg)
}

// mustWire builds the exact region where output e.Var is forced to val:
// the prefix assignments under which the matrix extends to a model with
// the output at val but not at its negation. Downstream outputs are
// existentially eliminated.
func mustWire(c *logic.C, pb *qbf.Problem, b *basis.Basis, e *basis.Entry, val bool, lit litFunc) z.Lit {
	downstream := make([]int, 0, b.Len()-e.Rank-1)
	for r := e.Rank + 1; r < b.Len(); r++ {
		downstream = append(downstream, b.At(r).Var)
	}
	onVal := existsWire(c, pb, override(lit, e.Var, constWire(c, val)), downstream)
	onOpp := existsWire(c, pb, override(lit, e.Var, constWire(c, !val)), downstream)
	return c.And(onVal, onOpp.Not())
}

func constWire(c *logic.C, val bool) z.Lit {
	if val {
		return c.T
	}
	return c.F
}

// Spec builds the specification matrix in c, mapping problem variables
// to circuit literals through lit.
func Spec(c *logic.C, pb *qbf.Problem, lit func(v int) z.Lit) z.Lit {
	return specWire(c, pb, lit)
}

// Psi builds the candidate function ψ = A ∨ (g ∧ ¬C) for entry e in c.
// It is the same composition the verifier checks, exposed for emitting
// the synthesized circuit.
func Psi(c *logic.C, pb *qbf.Problem, b *basis.Basis, e *basis.Entry, lit func(v int) z.Lit, g z.Lit) z.Lit {
	return psiWire(c, pb, b, e, lit, g)
}

// psiWire composes the candidate function for entry e:
// ψ = A ∨ (g ∧ ¬C). Semantic entries realize A and C from the
// specification cofactors instead of the learned representations.
func psiWire(c *logic.C, pb *qbf.Problem, b *basis.Basis, e *basis.Entry, lit litFunc, g z.Lit) z.Lit {
	var a, cc z.Lit
	if e.Semantic {
		a = mustWire(c, pb, b, e, true, lit)
		cc = mustWire(c, pb, b, e, false, lit)
	} else {
		a = e.A.Encode(c, lit)
		cc = e.C.Encode(c, lit)
	}
	return c.Or(a, c.And(g, cc.Not()))
}
