// Package basis holds the candidate Skolem basis: for each output, the
// must-1 region A and the must-0 region C, each kept in a dual
// representation made of a DNF part (grown by repairs that expand) and a
// CNF part (tightened by repairs that shrink). The value of a function is
// the conjunction of both parts.
package basis
