// Package netlist emits the synthesized candidates as an AIGER circuit.
// The file carries one output per synthesized function plus a
// verification harness: the specification instantiated over the original
// outputs and over the synthesized ones, with a single signal
//
//	out = valid_orig ∧ ¬valid_syn
//
// that is unsatisfiable exactly when the synthesis is correct.
package netlist

import (
	"fmt"
	"io"

	"github.com/go-air/gini/logic/aiger"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/qbf"
	"github.com/skolemlab/ddb/synth"
)

// Write emits the basis for pb on w in ASCII AIGER format. Inputs are
// named x<id> (universals), g<id> (free parameters) and y<id> (the
// original outputs, used only by the harness); outputs are named
// psi_<id> and out.
func Write(w io.Writer, pb *qbf.Problem, b *basis.Basis) error {
	a := aiger.Make(2 * (pb.NumVars + b.Len()))
	c := &a.S.C

	xLits := make(map[int]z.Lit, len(pb.Inputs))
	idx := 0
	for _, x := range pb.Inputs {
		xLits[x] = a.NewIn()
		if err := a.NameInput(idx, fmt.Sprintf("x%d", x)); err != nil {
			return errors.Wrap(err, "naming input")
		}
		idx++
	}
	gLits := make(map[int]z.Lit, b.Len())
	for _, y := range b.Order() {
		gLits[y] = a.NewIn()
		if err := a.NameInput(idx, fmt.Sprintf("g%d", y)); err != nil {
			return errors.Wrap(err, "naming input")
		}
		idx++
	}
	yLits := make(map[int]z.Lit, b.Len())
	for _, y := range b.Order() {
		yLits[y] = a.NewIn()
		if err := a.NameInput(idx, fmt.Sprintf("y%d", y)); err != nil {
			return errors.Wrap(err, "naming input")
		}
		idx++
	}

	syn := make(map[int]z.Lit, len(pb.Inputs)+b.Len())
	for _, x := range pb.Inputs {
		syn[x] = xLits[x]
	}
	synEnv := func(u int) z.Lit { return syn[u] }
	for r := 0; r < b.Len(); r++ {
		e := b.At(r)
		psi := synth.Psi(c, pb, b, e, synEnv, gLits[e.Var])
		syn[e.Var] = psi
		a.SetOutput(psi)
		if err := a.NameOutput(r, fmt.Sprintf("psi_%d", e.Var)); err != nil {
			return errors.Wrap(err, "naming output")
		}
	}

	validOrig := synth.Spec(c, pb, func(u int) z.Lit {
		if m, ok := yLits[u]; ok {
			return m
		}
		return xLits[u]
	})
	validSyn := synth.Spec(c, pb, synEnv)
	out := c.And(validOrig, validSyn.Not())
	a.SetOutput(out)
	if err := a.NameOutput(b.Len(), "out"); err != nil {
		return errors.Wrap(err, "naming output")
	}

	return errors.Wrap(a.WriteAscii(w), "writing netlist")
}
