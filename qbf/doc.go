// Package qbf deals with 2QBF specifications given in the QDIMACS format.
// A specification is a CNF matrix together with a quantifier prefix
// partitioning variables into universal inputs and existential outputs.
// The package also computes the dependency order used to rank outputs.
package qbf
