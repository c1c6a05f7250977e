package synth

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skolemlab/ddb/sample"
)

// Options configures a synthesis run. The zero value of a field selects
// its default.
type Options struct {
	// Samples is the number of training samples to request. Default 500.
	Samples int
	// Iterations caps the verify/repair loop. Default 50.
	Iterations int
	// RepairThreshold is the number of repairs after which an output
	// falls back to its semantic definition. Default 50.
	RepairThreshold int
	// MaxDepth bounds the decision trees. Default learn.DefaultMaxDepth.
	MaxDepth int
	// Seed drives the sampler. The default is 0.
	Seed int64
	// SolverTimeout bounds every outbound solver call; expiry aborts the
	// run. Zero means no bound.
	SolverTimeout time.Duration
	// FileOrder disables the dependency analysis and ranks outputs in
	// QDIMACS file order.
	FileOrder bool
	// Sampler overrides the default solver-backed sampler.
	Sampler sample.Sampler
	// Logger receives progress logs. Defaults to the standard logger.
	Logger logrus.FieldLogger
}

const (
	defaultSamples         = 500
	defaultIterations      = 50
	defaultRepairThreshold = 50
)

func (o Options) withDefaults() Options {
	if o.Samples == 0 {
		o.Samples = defaultSamples
	}
	if o.Iterations == 0 {
		o.Iterations = defaultIterations
	}
	if o.RepairThreshold == 0 {
		o.RepairThreshold = defaultRepairThreshold
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}
