// Package learn fits small decision trees to labeled samples and
// extracts their leaves as cubes. It is the initial-guess machinery of
// the synthesis pipeline: one tree per output over the features the
// output is allowed to read.
package learn

import (
	"github.com/skolemlab/ddb/sample"
)

// A Row is one training example: boolean features plus a label.
type Row struct {
	Features []bool
	Label    sample.Label
}

// Options controls tree fitting.
type Options struct {
	// MaxDepth bounds the tree depth. Zero means the default of 10.
	MaxDepth int
}

// DefaultMaxDepth is used when Options.MaxDepth is zero.
const DefaultMaxDepth = 10

// A Tree is a binary decision tree over boolean features. Internal nodes
// test one feature: the left child is taken when the feature is false,
// the right child when it is true.
type Tree struct {
	feature     int // -1 at leaves
	label       sample.Label
	left, right *Tree
}

// Fit trains a tree on rows with numFeatures features. Fitting is
// deterministic: splits are chosen by impurity decrease with the lowest
// feature index winning ties, and leaf ties resolve to the smallest
// label value.
func Fit(rows []Row, numFeatures int, opts Options) *Tree {
	depth := opts.MaxDepth
	if depth == 0 {
		depth = DefaultMaxDepth
	}
	return fit(rows, numFeatures, depth)
}

func fit(rows []Row, numFeatures, depth int) *Tree {
	counts := countLabels(rows)
	if depth == 0 || pure(counts) || len(rows) < 2 {
		return &Tree{feature: -1, label: majority(counts)}
	}
	parent := gini(counts, len(rows))
	best := -1
	bestScore := parent
	for f := 0; f < numFeatures; f++ {
		var left, right []Row
		for _, r := range rows {
			if r.Features[f] {
				right = append(right, r)
			} else {
				left = append(left, r)
			}
		}
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		score := (float64(len(left))*gini(countLabels(left), len(left)) +
			float64(len(right))*gini(countLabels(right), len(right))) / float64(len(rows))
		if score < bestScore-1e-12 {
			best, bestScore = f, score
		}
	}
	if best == -1 {
		return &Tree{feature: -1, label: majority(counts)}
	}
	var left, right []Row
	for _, r := range rows {
		if r.Features[best] {
			right = append(right, r)
		} else {
			left = append(left, r)
		}
	}
	return &Tree{
		feature: best,
		left:    fit(left, numFeatures, depth-1),
		right:   fit(right, numFeatures, depth-1),
	}
}

func countLabels(rows []Row) [3]int {
	var counts [3]int
	for _, r := range rows {
		counts[r.Label]++
	}
	return counts
}

func pure(counts [3]int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func majority(counts [3]int) sample.Label {
	best := 0
	for l := 1; l < len(counts); l++ {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return sample.Label(best)
}

func gini(counts [3]int, total int) float64 {
	res := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		res -= p * p
	}
	return res
}

// Predict returns the label of the leaf reached by the features.
func (t *Tree) Predict(features []bool) sample.Label {
	for t.feature != -1 {
		if features[t.feature] {
			t = t.right
		} else {
			t = t.left
		}
	}
	return t.label
}

// Paths collects, for every leaf labeled target, the conjunction of
// literals along the root-to-leaf path: varOf maps a feature slot to a
// variable id, the literal is positive on a right edge and negative on a
// left edge.
func (t *Tree) Paths(target sample.Label, varOf func(slot int) int) [][]int {
	var res [][]int
	var walk func(n *Tree, path []int)
	walk = func(n *Tree, path []int) {
		if n.feature == -1 {
			if n.label == target {
				cube := make([]int, len(path))
				copy(cube, path)
				res = append(res, cube)
			}
			return
		}
		v := varOf(n.feature)
		walk(n.left, append(path, -v))
		walk(n.right, append(path, v))
	}
	walk(t, nil)
	return res
}
