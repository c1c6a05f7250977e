package basis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crillab/gophersat/bf"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// A Cube is a conjunction of DIMACS literals, a Clause a disjunction.
// Both are kept sorted by variable id and free of duplicates.
type Cube []int

// A Clause is a disjunction of DIMACS literals.
type Clause []int

// NewCube normalizes lits into a cube: duplicates collapse, and a
// variable occurring in both polarities makes the cube unsatisfiable, in
// which case ok is false and the cube must be dropped.
func NewCube(lits []int) (c Cube, ok bool) {
	return normalize(lits)
}

// NewClause normalizes lits into a clause: duplicates collapse, and a
// variable occurring in both polarities makes the clause a tautology, in
// which case ok is false and the clause must be dropped.
func NewClause(lits []int) (c Clause, ok bool) {
	ls, ok := normalize(lits)
	return Clause(ls), ok
}

func normalize(lits []int) (Cube, bool) {
	seen := make(map[int]int, len(lits))
	for _, lit := range lits {
		v := abs(lit)
		if prev, ok := seen[v]; ok {
			if prev != lit {
				return nil, false
			}
			continue
		}
		seen[v] = lit
	}
	res := make(Cube, 0, len(seen))
	for _, lit := range seen {
		res = append(res, lit)
	}
	sort.Slice(res, func(i, j int) bool { return abs(res[i]) < abs(res[j]) })
	return res, true
}

// Negate returns the clause ¬c.
func (c Cube) Negate() Clause {
	res := make(Clause, len(c))
	for i, lit := range c {
		res[i] = -lit
	}
	return res
}

// subsumes reports whether every literal of c occurs in other.
func subsumes(c, other []int) bool {
	if len(c) > len(other) {
		return false
	}
	j := 0
	for _, lit := range c {
		for j < len(other) && other[j] != lit {
			j++
		}
		if j == len(other) {
			return false
		}
		j++
	}
	return true
}

// A Function is a boolean function over a fixed feature set, represented
// as the conjunction of a DNF part and a CNF part. The zero value is the
// constant false: an empty DNF has no satisfied cube.
type Function struct {
	Cubes   []Cube
	Clauses []Clause
}

// False returns a fresh constant-false function.
func False() *Function { return &Function{} }

// True returns a function equal to the constant true.
func True() *Function { return &Function{Cubes: []Cube{{}}} }

// AddCube grows the DNF part, expanding the function.
func (f *Function) AddCube(c Cube) {
	f.Cubes = append(f.Cubes, c)
}

// AddClause tightens the CNF part, shrinking the function.
func (f *Function) AddClause(c Clause) {
	f.Clauses = append(f.Clauses, c)
}

// IsFalse reports whether the function is syntactically the constant
// false, i.e. its DNF part is empty.
func (f *Function) IsFalse() bool { return len(f.Cubes) == 0 }

// Eval evaluates the function under the given assignment.
func (f *Function) Eval(assign func(v int) bool) bool {
	dnf := false
	for _, cube := range f.Cubes {
		sat := true
		for _, lit := range cube {
			if assign(abs(lit)) != (lit > 0) {
				sat = false
				break
			}
		}
		if sat {
			dnf = true
			break
		}
	}
	if !dnf {
		return false
	}
	for _, clause := range f.Clauses {
		sat := false
		for _, lit := range clause {
			if assign(abs(lit)) == (lit > 0) {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

// Encode builds the function in the circuit c, mapping problem variables
// to circuit literals through lit. The returned literal is true exactly
// when the function holds.
func (f *Function) Encode(c *logic.C, lit func(v int) z.Lit) z.Lit {
	cubes := make([]z.Lit, len(f.Cubes))
	for i, cube := range f.Cubes {
		ms := make([]z.Lit, len(cube))
		for j, l := range cube {
			ms[j] = signed(lit, l)
		}
		cubes[i] = c.Ands(ms...)
	}
	out := c.Ors(cubes...) // empty DNF encodes as c.F
	for _, clause := range f.Clauses {
		ms := make([]z.Lit, len(clause))
		for j, l := range clause {
			ms[j] = signed(lit, l)
		}
		out = c.And(out, c.Ors(ms...))
	}
	return out
}

func signed(lit func(v int) z.Lit, l int) z.Lit {
	if l < 0 {
		return lit(-l).Not()
	}
	return lit(l)
}

// BF renders the function as a gophersat formula, naming variables
// through name. Useful for printing and as an independent evaluation
// oracle in tests.
func (f *Function) BF(name func(v int) string) bf.Formula {
	cubes := make([]bf.Formula, 0, len(f.Cubes))
	for _, cube := range f.Cubes {
		if len(cube) == 0 {
			cubes = append(cubes, bf.True)
			continue
		}
		lits := make([]bf.Formula, len(cube))
		for i, l := range cube {
			lits[i] = bfLit(name, l)
		}
		cubes = append(cubes, bf.And(lits...))
	}
	var out bf.Formula = bf.False
	if len(cubes) > 0 {
		out = bf.Or(cubes...)
	}
	for _, clause := range f.Clauses {
		lits := make([]bf.Formula, len(clause))
		for i, l := range clause {
			lits[i] = bfLit(name, l)
		}
		out = bf.And(out, bf.Or(lits...))
	}
	return out
}

func bfLit(name func(v int) string, l int) bf.Formula {
	if l < 0 {
		return bf.Not(bf.Var(name(-l)))
	}
	return bf.Var(name(l))
}

// Simplify drops subsumed cubes and clauses. It never changes the value
// of the function.
func (f *Function) Simplify() {
	f.Cubes = dropSubsumed(f.Cubes)
	f.Clauses = dropSubsumedClauses(f.Clauses)
}

func dropSubsumed(cubes []Cube) []Cube {
	var kept []Cube
	for i, c := range cubes {
		redundant := false
		for j, other := range cubes {
			if i == j {
				continue
			}
			// Keep the first of two identical cubes.
			if subsumes(other, c) && (!subsumes(c, other) || j < i) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, c)
		}
	}
	return kept
}

func dropSubsumedClauses(clauses []Clause) []Clause {
	cubes := make([]Cube, len(clauses))
	for i, c := range clauses {
		cubes[i] = Cube(c)
	}
	kept := dropSubsumed(cubes)
	res := make([]Clause, len(kept))
	for i, c := range kept {
		res[i] = Clause(c)
	}
	return res
}

// String renders the function with v<i> variable names.
func (f *Function) String() string {
	if f.IsFalse() {
		return "false"
	}
	var parts []string
	for _, cube := range f.Cubes {
		parts = append(parts, litsString(cube, " & "))
	}
	s := strings.Join(parts, " | ")
	if len(f.Clauses) > 0 {
		clParts := make([]string, len(f.Clauses))
		for i, clause := range f.Clauses {
			clParts[i] = "(" + litsString(clause, " | ") + ")"
		}
		s = "(" + s + ") & " + strings.Join(clParts, " & ")
	}
	return s
}

func litsString(lits []int, sep string) string {
	if len(lits) == 0 {
		return "true"
	}
	strs := make([]string, len(lits))
	for i, l := range lits {
		if l < 0 {
			strs[i] = fmt.Sprintf("-v%d", -l)
		} else {
			strs[i] = fmt.Sprintf("v%d", l)
		}
	}
	return strings.Join(strs, sep)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
