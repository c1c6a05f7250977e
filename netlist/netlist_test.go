package netlist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-air/gini/logic/aiger"
	"github.com/stretchr/testify/require"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/qbf"
)

const example = `p cnf 4 4
a 2 3 0
e 1 4 0
-1 2 0
-1 3 0
1 2 3 0
4 0
`

func exampleBasis(t *testing.T) (*qbf.Problem, *basis.Basis) {
	t.Helper()
	pb, err := qbf.Parse(strings.NewReader(example))
	require.NoError(t, err)
	b := basis.New([]int{1, 4})
	c1, ok := basis.NewCube([]int{-2})
	require.True(t, ok)
	c2, ok := basis.NewCube([]int{2, -3})
	require.True(t, ok)
	b.ByVar(1).C.AddCube(c1)
	b.ByVar(1).C.AddCube(c2)
	top, ok := basis.NewCube(nil)
	require.True(t, ok)
	b.ByVar(4).A.AddCube(top)
	return pb, b
}

func TestWriteRoundTrips(t *testing.T) {
	pb, b := exampleBasis(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pb, b))

	a, err := aiger.ReadAscii(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	// x2, x3, g1, g4, y1, y4.
	require.Len(t, a.Inputs, 6)
	// psi_1, psi_4 and the harness output.
	require.Len(t, a.Outputs, 3)
}

func TestWriteNamesSignals(t *testing.T) {
	pb, b := exampleBasis(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pb, b))
	text := buf.String()
	for _, name := range []string{"x2", "x3", "g1", "g4", "y1", "y4", "psi_1", "psi_4", "out"} {
		require.Contains(t, text, name)
	}
}

func TestWriteSemanticEntry(t *testing.T) {
	pb, b := exampleBasis(t)
	e := b.ByVar(1)
	e.Semantic = true
	e.Frozen = true
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pb, b))
	_, err := aiger.ReadAscii(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
}
