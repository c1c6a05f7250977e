package basis

// An Entry is the candidate basis for one output: the must-1 region A,
// the must-0 region C, and the repair bookkeeping. Once an entry is
// frozen its functions are no longer touched by repairs; a frozen entry
// whose Semantic flag is set is realized from the specification
// cofactors instead of A and C.
type Entry struct {
	Var  int // output variable id
	Rank int // topological position, 0-based

	A *Function // must-1 region
	C *Function // must-0 region

	Repairs  int
	Frozen   bool
	Semantic bool
}

// A Basis is the rank-indexed vector of entries for all outputs.
type Basis struct {
	entries []*Entry
	byVar   map[int]*Entry
}

// New creates a basis for the outputs in rank order, every entry
// starting at the constant-false pair (A = C = false).
func New(order []int) *Basis {
	b := &Basis{
		entries: make([]*Entry, len(order)),
		byVar:   make(map[int]*Entry, len(order)),
	}
	for rank, v := range order {
		e := &Entry{Var: v, Rank: rank, A: False(), C: False()}
		b.entries[rank] = e
		b.byVar[v] = e
	}
	return b
}

// Len returns the number of outputs.
func (b *Basis) Len() int { return len(b.entries) }

// At returns the entry at the given rank.
func (b *Basis) At(rank int) *Entry { return b.entries[rank] }

// ByVar returns the entry for the given output variable, or nil.
func (b *Basis) ByVar(v int) *Entry { return b.byVar[v] }

// Order returns the output variables in rank order.
func (b *Basis) Order() []int {
	order := make([]int, len(b.entries))
	for i, e := range b.entries {
		order[i] = e.Var
	}
	return order
}

// Upstream returns the output variables of rank strictly lower than the
// entry's, i.e. the outputs its functions may depend on.
func (b *Basis) Upstream(e *Entry) []int {
	up := make([]int, e.Rank)
	for i := 0; i < e.Rank; i++ {
		up[i] = b.entries[i].Var
	}
	return up
}
