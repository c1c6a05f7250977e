// Package sample draws models of the specification and labels them.
// The sampler produces satisfying assignments with a randomized polarity
// strategy over an external SAT solver; the labeler classifies each
// output of each sample as must-1, must-0 or don't-care using only
// constant propagation over the clause matrix.
package sample
