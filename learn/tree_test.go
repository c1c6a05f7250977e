package learn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/sample"
)

// labelRule is the function the tests train against.
func labelRule(f []bool) sample.Label {
	switch {
	case f[0] && !f[1]:
		return sample.Must1
	case !f[0]:
		return sample.Must0
	default:
		return sample.DontCare
	}
}

func allRows(numFeatures int) []Row {
	var rows []Row
	for bits := 0; bits < 1<<numFeatures; bits++ {
		f := make([]bool, numFeatures)
		for i := range f {
			f[i] = bits&(1<<i) != 0
		}
		rows = append(rows, Row{Features: f, Label: labelRule(f)})
	}
	return rows
}

func TestFitRecoversRule(t *testing.T) {
	rows := allRows(3)
	tree := Fit(rows, 3, Options{})
	for _, r := range rows {
		require.Equal(t, r.Label, tree.Predict(r.Features))
	}
}

func TestPathsMatchLeaves(t *testing.T) {
	// The extracted DNF for a label is equivalent to the indicator
	// function of that label's leaves.
	rows := allRows(3)
	tree := Fit(rows, 3, Options{})
	varOf := func(slot int) int { return slot + 1 }
	for _, target := range []sample.Label{sample.Must1, sample.Must0} {
		f := basis.False()
		for _, path := range tree.Paths(target, varOf) {
			cube, ok := basis.NewCube(path)
			require.True(t, ok, "tree paths never contradict themselves")
			f.AddCube(cube)
		}
		for _, r := range rows {
			features := r.Features
			got := f.Eval(func(v int) bool { return features[v-1] })
			require.Equal(t, tree.Predict(features) == target, got)
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	rows := allRows(4)
	a := Fit(rows, 4, Options{})
	b := Fit(rows, 4, Options{})
	require.Equal(t, a, b)
}

func TestMaxDepthCapsTree(t *testing.T) {
	rows := allRows(3)
	tree := Fit(rows, 3, Options{MaxDepth: 1})
	depth := 0
	for n := tree; n.feature != -1; n = n.left {
		depth++
	}
	require.LessOrEqual(t, depth, 1)
}

func TestMajorityTieBreaksLow(t *testing.T) {
	rows := []Row{
		{Features: []bool{false}, Label: sample.Must1},
		{Features: []bool{false}, Label: sample.Must0},
	}
	tree := Fit(rows, 1, Options{})
	// 1-1 tie between must-1 and must-0: the smaller label value wins.
	require.Equal(t, sample.Must1, tree.Predict([]bool{false}))
}
