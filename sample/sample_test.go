package sample

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

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

func parse(t *testing.T, input string) *qbf.Problem {
	t.Helper()
	pb, err := qbf.Parse(strings.NewReader(input))
	require.NoError(t, err)
	return pb
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestSamplerModelsSatisfySpec(t *testing.T) {
	pb := parse(t, example)
	s := NewSolverSampler(pb, 1, testLogger())
	models, err := s.Sample(10)
	require.NoError(t, err)
	require.NotEmpty(t, models)
	seen := map[string]bool{}
	for _, m := range models {
		require.True(t, pb.Value(m.Value), "sampler returned a non-model")
		key := ""
		for v := 1; v <= pb.NumVars; v++ {
			if m[v] {
				key += "1"
			} else {
				key += "0"
			}
		}
		require.False(t, seen[key], "duplicate model %s", key)
		seen[key] = true
	}
}

func TestSamplerExhaustsModels(t *testing.T) {
	// x1 & x2 has a single model.
	pb := parse(t, "p cnf 2 2\na 1 2 0\n1 0\n2 0\n")
	s := NewSolverSampler(pb, 7, testLogger())
	models, err := s.Sample(5)
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.True(t, models[0].Value(1))
	require.True(t, models[0].Value(2))
}

func TestSamplerDeterministicForSeed(t *testing.T) {
	pb := parse(t, example)
	a, err := NewSolverSampler(pb, 42, testLogger()).Sample(6)
	require.NoError(t, err)
	b, err := NewSolverSampler(pb, 42, testLogger()).Sample(6)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func model(vals ...bool) Model {
	m := make(Model, len(vals)+1)
	copy(m[1:], vals)
	return m
}

func TestLabelOutput(t *testing.T) {
	pb := parse(t, example)
	tests := []struct {
		name string
		m    Model // values for vars 1..4
		y    int
		want Label
	}{
		{"y1 free when both inputs set", model(true, true, true, true), 1, DontCare},
		{"y1 forced 0 by missing x2", model(false, false, true, true), 1, Must0},
		{"y1 forced 0 by missing x3", model(false, true, false, true), 1, Must0},
		{"y4 always forced 1", model(true, true, true, true), 4, Must1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LabelOutput(pb, tt.m, tt.y)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLabelOutputRejectsNonModel(t *testing.T) {
	pb := parse(t, example)
	_, err := LabelOutput(pb, model(false, false, false, false), 1)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotModel)
}

func TestLabelEncoding(t *testing.T) {
	require.Equal(t, Label(0), DontCare)
	require.Equal(t, Label(1), Must1)
	require.Equal(t, Label(2), Must0)
}
