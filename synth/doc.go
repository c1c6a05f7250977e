// Package synth drives counterexample-guided synthesis of a Skolem
// basis. It learns an initial basis from labeled samples, then iterates
// verification, diagnosis and repair until the candidate is correct for
// every input and every choice of the free parameters, or a limit is
// reached.
package synth
