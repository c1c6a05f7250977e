package sample

import (
	"math/rand"

	"github.com/crillab/gophersat/solver"
	"github.com/sirupsen/logrus"

	"github.com/skolemlab/ddb/qbf"
)

// A Model is a total assignment of the specification's variables,
// indexed by variable id (index 0 is unused).
type Model []bool

// Value returns the value of variable v.
func (m Model) Value(v int) bool { return m[v] }

// A Sampler produces satisfying assignments of the specification.
// Implementations may return fewer models than requested when the
// specification admits fewer (or the strategy is exhausted); that is not
// an error.
type Sampler interface {
	Sample(n int) ([]Model, error)
}

// SolverSampler draws models through a SAT solver. Each draw assumes a
// random polarity for a random subset of the variables, halving the
// subset until the assumptions extend to a model; found models are
// blocked so every draw is distinct.
type SolverSampler struct {
	pb      *qbf.Problem
	rng     *rand.Rand
	blocked [][]int
	log     logrus.FieldLogger
}

// NewSolverSampler returns a sampler for pb seeded with seed.
func NewSolverSampler(pb *qbf.Problem, seed int64, log logrus.FieldLogger) *SolverSampler {
	return &SolverSampler{
		pb:  pb,
		rng: rand.New(rand.NewSource(seed)),
		log: log.WithField("component", "sampler"),
	}
}

// Sample returns up to n distinct models of the specification.
func (s *SolverSampler) Sample(n int) ([]Model, error) {
	models := make([]Model, 0, n)
	for len(models) < n {
		m := s.draw()
		if m == nil {
			s.log.WithField("models", len(models)).Debug("model space exhausted")
			break
		}
		models = append(models, m)
		s.block(m)
	}
	return models, nil
}

func (s *SolverSampler) draw() Model {
	guesses := s.randomPolarities()
	for k := len(guesses); ; k /= 2 {
		cnf := make([][]int, 0, len(s.pb.Clauses)+len(s.blocked))
		cnf = append(cnf, s.pb.Clauses...)
		cnf = append(cnf, s.blocked...)
		problem := solver.ParseSlice(cnf)
		if problem.Status == solver.Unsat {
			// Unsatisfiable already at parse time: every model is blocked.
			return nil
		}
		sat := solver.New(problem)
		assumptions := make([]solver.Lit, k)
		for i := 0; i < k; i++ {
			assumptions[i] = solver.IntToLit(int32(guesses[i]))
		}
		status := sat.Assume(assumptions)
		if status != solver.Unsat {
			status = sat.Solve()
		}
		if status == solver.Sat {
			return s.extract(sat.Model())
		}
		if k == 0 {
			return nil
		}
	}
}

// randomPolarities returns all variables in random order, each with a
// random sign.
func (s *SolverSampler) randomPolarities() []int {
	lits := make([]int, s.pb.NumVars)
	for i := range lits {
		lits[i] = i + 1
		if s.rng.Intn(2) == 0 {
			lits[i] = -lits[i]
		}
	}
	s.rng.Shuffle(len(lits), func(i, j int) { lits[i], lits[j] = lits[j], lits[i] })
	return lits
}

func (s *SolverSampler) extract(solverModel []bool) Model {
	m := make(Model, s.pb.NumVars+1)
	for v := 1; v <= s.pb.NumVars; v++ {
		if v-1 < len(solverModel) {
			m[v] = solverModel[v-1]
		}
	}
	return m
}

func (s *SolverSampler) block(m Model) {
	clause := make([]int, s.pb.NumVars)
	for v := 1; v <= s.pb.NumVars; v++ {
		if m[v] {
			clause[v-1] = -v
		} else {
			clause[v-1] = v
		}
	}
	s.blocked = append(s.blocked, clause)
}
