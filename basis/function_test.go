package basis

import (
	"fmt"
	"testing"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/require"
)

func TestNewCube(t *testing.T) {
	tests := []struct {
		name string
		lits []int
		want Cube
		ok   bool
	}{
		{"plain", []int{3, -1}, Cube{-1, 3}, true},
		{"duplicates", []int{2, 2, -5}, Cube{2, -5}, true},
		{"contradiction", []int{2, -2}, nil, false},
		{"empty", nil, Cube{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := NewCube(tt.lits)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.want, c)
			}
		})
	}
}

func assignOf(m map[int]bool) func(int) bool {
	return func(v int) bool { return m[v] }
}

func TestFunctionEval(t *testing.T) {
	f := False()
	require.False(t, f.Eval(assignOf(map[int]bool{1: true})))

	cube, _ := NewCube([]int{1, -2})
	f.AddCube(cube)
	require.True(t, f.Eval(assignOf(map[int]bool{1: true, 2: false})))
	require.False(t, f.Eval(assignOf(map[int]bool{1: true, 2: true})))

	// Shrinking by a clause cuts part of the DNF away.
	clause, _ := NewClause([]int{3})
	f.AddClause(clause)
	require.False(t, f.Eval(assignOf(map[int]bool{1: true, 2: false})))
	require.True(t, f.Eval(assignOf(map[int]bool{1: true, 2: false, 3: true})))
}

func TestTrueFunction(t *testing.T) {
	f := True()
	require.True(t, f.Eval(assignOf(nil)))
	require.False(t, f.IsFalse())
}

// enumerate all assignments over vars and compare Eval against the
// other evaluators.
func checkSemantics(t *testing.T, f *Function, vars []int) {
	t.Helper()
	for bits := 0; bits < 1<<len(vars); bits++ {
		m := map[int]bool{}
		for i, v := range vars {
			m[v] = bits&(1<<i) != 0
		}
		want := f.Eval(assignOf(m))

		// Circuit encoding.
		c := logic.NewC()
		lits := map[int]z.Lit{}
		for _, v := range vars {
			lits[v] = c.Lit()
		}
		out := f.Encode(c, func(v int) z.Lit { return lits[v] })
		vs := make([]bool, c.Len())
		vs[1] = true // constant true node
		for _, v := range vars {
			vs[lits[v].Var()] = m[v]
		}
		c.Eval(vs)
		got := vs[out.Var()]
		if !out.IsPos() {
			got = !got
		}
		require.Equal(t, want, got, "circuit encoding differs on %v", m)

		// gophersat/bf rendering.
		names := map[string]bool{}
		for _, v := range vars {
			names[fmt.Sprintf("v%d", v)] = m[v]
		}
		bff := f.BF(func(v int) string { return fmt.Sprintf("v%d", v) })
		require.Equal(t, want, bff.Eval(names), "bf rendering differs on %v", m)
	}
}

func TestEncodeMatchesEval(t *testing.T) {
	f := False()
	cube1, _ := NewCube([]int{1, -2})
	cube2, _ := NewCube([]int{3})
	f.AddCube(cube1)
	f.AddCube(cube2)
	clause, _ := NewClause([]int{-1, 3})
	f.AddClause(clause)
	checkSemantics(t, f, []int{1, 2, 3})

	checkSemantics(t, False(), []int{1})
	checkSemantics(t, True(), []int{1})
}

func TestShrinkExpandRoundTrip(t *testing.T) {
	// Under the dual representation the CNF part dominates: shrinking by
	// β and then expanding by the same β is semantically the shrink
	// alone, and the order of the two operations does not matter.
	vars := []int{1, 2, 3}
	f := False()
	cube, _ := NewCube([]int{1})
	f.AddCube(cube)
	beta, _ := NewCube([]int{1, 2})

	shrunk := &Function{Cubes: append([]Cube{}, f.Cubes...)}
	shrunk.AddClause(beta.Negate())

	roundTrip := &Function{Cubes: append([]Cube{}, shrunk.Cubes...), Clauses: append([]Clause{}, shrunk.Clauses...)}
	roundTrip.AddCube(beta)

	other := &Function{Cubes: append([]Cube{}, f.Cubes...)}
	other.AddCube(beta)
	other.AddClause(beta.Negate())

	for bits := 0; bits < 1<<len(vars); bits++ {
		m := map[int]bool{}
		for i, v := range vars {
			m[v] = bits&(1<<i) != 0
		}
		require.Equal(t, shrunk.Eval(assignOf(m)), roundTrip.Eval(assignOf(m)), "differs on %v", m)
		require.Equal(t, roundTrip.Eval(assignOf(m)), other.Eval(assignOf(m)), "order dependence on %v", m)
	}
}

func TestSimplify(t *testing.T) {
	f := False()
	c1, _ := NewCube([]int{1})
	c2, _ := NewCube([]int{1, 2})
	c3, _ := NewCube([]int{1})
	f.AddCube(c1)
	f.AddCube(c2)
	f.AddCube(c3)
	f.Simplify()
	require.Equal(t, []Cube{{1}}, f.Cubes)
}

func TestBasis(t *testing.T) {
	b := New([]int{4, 1})
	require.Equal(t, 2, b.Len())
	require.Equal(t, 0, b.ByVar(4).Rank)
	require.Equal(t, 1, b.ByVar(1).Rank)
	require.Equal(t, []int{4, 1}, b.Order())
	require.Equal(t, []int{4}, b.Upstream(b.ByVar(1)))
	require.Empty(t, b.Upstream(b.ByVar(4)))
	require.True(t, b.At(0).A.IsFalse())
}
