package sample

import (
	"github.com/pkg/errors"

	"github.com/skolemlab/ddb/qbf"
)

// A Label classifies an output on a sample: forced to 1, forced to 0, or
// free to take either value. The numeric values follow the classifier's
// class encoding.
type Label byte

const (
	// DontCare means both values of the output extend the sample prefix
	// to a model.
	DontCare = Label(iota)
	// Must1 means the output is forced to 1 by the rest of the sample.
	Must1
	// Must0 means the output is forced to 0 by the rest of the sample.
	Must0
)

func (l Label) String() string {
	switch l {
	case DontCare:
		return "dont-care"
	case Must1:
		return "must-1"
	case Must0:
		return "must-0"
	default:
		panic("invalid label")
	}
}

// ErrNotModel is returned when a supposed sample falsifies the
// specification under both values of the labeled output. It indicates a
// broken sampler and is treated as an invariant violation.
var ErrNotModel = errors.New("sample falsifies the specification under both output values")

// LabelOutput labels output y on sample m. All variables except y are
// fixed to their sample values, so each clause evaluates to a constant
// and a single linear pass decides satisfaction under y=0 and y=1. No
// solver call is involved.
func LabelOutput(pb *qbf.Problem, m Model, y int) (Label, error) {
	sat0, sat1 := true, true
	for _, clause := range pb.Clauses {
		others, pos, neg := false, false, false
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			if v == y {
				if lit > 0 {
					pos = true
				} else {
					neg = true
				}
				continue
			}
			if m[v] == (lit > 0) {
				others = true
				break
			}
		}
		if others {
			continue
		}
		if !neg {
			sat0 = false
		}
		if !pos {
			sat1 = false
		}
		if !sat0 && !sat1 {
			return DontCare, errors.Wrapf(ErrNotModel, "output %d", y)
		}
	}
	switch {
	case sat0 && sat1:
		return DontCare, nil
	case sat1:
		return Must1, nil
	default:
		return Must0, nil
	}
}
