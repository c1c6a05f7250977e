package synth

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/learn"
	"github.com/skolemlab/ddb/qbf"
	"github.com/skolemlab/ddb/sample"
)

// An Engine synthesizes a Skolem basis for one specification. It owns
// the basis for the duration of the run; the verifier, diagnoser and
// repairer are invoked strictly in sequence.
type Engine struct {
	pb   *qbf.Problem
	opts Options
	log  logrus.FieldLogger
}

// New returns an engine for pb.
func New(pb *qbf.Problem, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		pb:   pb,
		opts: opts,
		log:  opts.Logger.WithField("component", "synth"),
	}
}

// Run drives the full pipeline: satisfiability probe, sampling,
// labeling, learning, then the verify/diagnose/repair loop until the
// verifier reports correctness or the iteration cap is reached.
func (e *Engine) Run() (*Result, error) {
	sat, err := e.satisfiable()
	if err != nil {
		return nil, err
	}
	if !sat {
		e.log.Error("specification is unsatisfiable")
		return &Result{Status: Unsat}, nil
	}

	order := e.pb.OrderOutputs(!e.opts.FileOrder)
	e.log.WithField("order", order).Info("output order fixed")
	b := basis.New(order)
	if err := e.learnInitial(b); err != nil {
		return nil, err
	}

	v := &verifier{pb: e.pb, opts: e.opts, log: e.log}
	d := &diagnoser{pb: e.pb, opts: e.opts, log: e.log}
	r := &repairer{pb: e.pb, opts: e.opts, log: e.log}

	var last *Counterexample
	for it := 1; it <= e.opts.Iterations; it++ {
		log := e.log.WithField("iteration", it)
		cex, err := v.verify(b)
		if err != nil {
			return nil, err
		}
		if cex == nil {
			log.Info("verification passed, basis is correct")
			e.summarize(b)
			return &Result{Status: Done, Basis: b, Iterations: it}, nil
		}
		last = cex
		diag, err := d.diagnose(b, cex)
		if err != nil {
			return nil, err
		}
		if err := r.apply(b, cex, diag); err != nil {
			return nil, err
		}
		log.WithField("repairs", len(diag.Repairs)).Info("iteration repaired")
	}
	e.log.WithField("iterations", e.opts.Iterations).Error("iteration cap reached")
	return &Result{Status: CapReached, Basis: b, Iterations: e.opts.Iterations, Counterexample: last}, nil
}

// satisfiable probes the matrix once; an unsatisfiable specification is
// degenerate and the loop never starts.
func (e *Engine) satisfiable() (bool, error) {
	g := gini.New()
	for _, clause := range e.pb.Clauses {
		for _, l := range clause {
			g.Add(z.Dimacs2Lit(l))
		}
		g.Add(z.LitNull)
	}
	switch solve(g, e.opts.SolverTimeout) {
	case 1:
		return true, nil
	case -1:
		return false, nil
	default:
		return false, errors.Wrap(ErrSolverTimeout, "satisfiability probe")
	}
}

// learnInitial samples the specification, labels every output on every
// sample, fits one tree per output and seeds the basis with the
// extracted must regions.
func (e *Engine) learnInitial(b *basis.Basis) error {
	sampler := e.opts.Sampler
	if sampler == nil {
		sampler = sample.NewSolverSampler(e.pb, e.opts.Seed, e.log)
	}
	models, err := sampler.Sample(e.opts.Samples)
	if err != nil {
		return errors.Wrap(err, "sampling")
	}
	if len(models) < e.opts.Samples {
		e.log.WithFields(logrus.Fields{
			"requested": e.opts.Samples,
			"got":       len(models),
		}).Warn("sampler starvation, proceeding with fewer samples")
	}
	if len(models) == 0 {
		e.log.Warn("no samples, starting from the empty basis")
		return nil
	}
	for rank := 0; rank < b.Len(); rank++ {
		entry := b.At(rank)
		slots := e.featureSlots(b, entry)
		rows := make([]learn.Row, len(models))
		for i, m := range models {
			label, err := sample.LabelOutput(e.pb, m, entry.Var)
			if err != nil {
				return errors.Wrap(ErrInvariant, err.Error())
			}
			feats := make([]bool, len(slots))
			for j, v := range slots {
				feats[j] = m.Value(v)
			}
			rows[i] = learn.Row{Features: feats, Label: label}
		}
		tree := learn.Fit(rows, len(slots), learn.Options{MaxDepth: e.opts.MaxDepth})
		varOf := func(slot int) int { return slots[slot] }
		for _, path := range tree.Paths(sample.Must1, varOf) {
			if cube, ok := basis.NewCube(path); ok {
				entry.A.AddCube(cube)
			}
		}
		for _, path := range tree.Paths(sample.Must0, varOf) {
			if cube, ok := basis.NewCube(path); ok {
				entry.C.AddCube(cube)
			}
		}
		e.log.WithFields(logrus.Fields{
			"output":  entry.Var,
			"a_cubes": len(entry.A.Cubes),
			"c_cubes": len(entry.C.Cubes),
		}).Debug("initial basis learned")
	}
	return nil
}

// featureSlots lists the variables an entry's functions may read: the
// inputs, then the upstream outputs in rank order.
func (e *Engine) featureSlots(b *basis.Basis, entry *basis.Entry) []int {
	slots := make([]int, 0, len(e.pb.Inputs)+entry.Rank)
	slots = append(slots, e.pb.Inputs...)
	slots = append(slots, b.Upstream(entry)...)
	return slots
}

func (e *Engine) summarize(b *basis.Basis) {
	for rank := 0; rank < b.Len(); rank++ {
		entry := b.At(rank)
		e.log.WithFields(logrus.Fields{
			"output":    entry.Var,
			"rank":      rank,
			"a_cubes":   len(entry.A.Cubes),
			"a_clauses": len(entry.A.Clauses),
			"c_cubes":   len(entry.C.Cubes),
			"c_clauses": len(entry.C.Clauses),
			"repairs":   entry.Repairs,
			"semantic":  entry.Semantic,
		}).Info("synthesized basis entry")
	}
}
