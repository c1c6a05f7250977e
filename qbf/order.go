package qbf

// DependencyOrder computes the rank order of the output variables.
//
// Two outputs depend on each other when they co-occur in a clause of the
// matrix. The order is obtained by repeatedly removing the output of
// minimum remaining degree from the dependency graph, ties broken by
// smaller variable id. The result is deterministic for a given problem.
func (pb *Problem) DependencyOrder() []int {
	adj := make(map[int]map[int]bool, len(pb.Outputs))
	for _, y := range pb.Outputs {
		adj[y] = map[int]bool{}
	}
	for _, clause := range pb.Clauses {
		var outs []int
		for _, lit := range clause {
			if v := abs(lit); pb.IsOutput(v) {
				outs = append(outs, v)
			}
		}
		for i := 0; i < len(outs); i++ {
			for j := i + 1; j < len(outs); j++ {
				if outs[i] != outs[j] {
					adj[outs[i]][outs[j]] = true
					adj[outs[j]][outs[i]] = true
				}
			}
		}
	}
	order := make([]int, 0, len(pb.Outputs))
	remaining := make(map[int]bool, len(pb.Outputs))
	for _, y := range pb.Outputs {
		remaining[y] = true
	}
	for len(remaining) > 0 {
		best := 0
		bestDeg := -1
		for y := range remaining {
			deg := 0
			for n := range adj[y] {
				if remaining[n] {
					deg++
				}
			}
			if bestDeg == -1 || deg < bestDeg || (deg == bestDeg && y < best) {
				best, bestDeg = y, deg
			}
		}
		order = append(order, best)
		delete(remaining, best)
	}
	return order
}

// OrderOutputs returns the output variables in synthesis order: the
// dependency order when topo is true, the QDIMACS file order otherwise.
func (pb *Problem) OrderOutputs(topo bool) []int {
	if topo {
		return pb.DependencyOrder()
	}
	out := make([]int, len(pb.Outputs))
	copy(out, pb.Outputs)
	return out
}
