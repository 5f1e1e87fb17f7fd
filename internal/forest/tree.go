// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package forest

import (
	"math/rand"
	"sort"
)

// Node is one node of a flattened decision tree. Internal nodes route a
// sample left when x[Feature] <= Threshold. Leaves carry Value for
// regression and Probs (per class index) for classification.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Leaf      bool
	Value     float64
	Probs     []float64
}

// Tree is a CART tree stored as a node slice with the root at index 0.
type Tree struct {
	Nodes []Node
}

// leaf returns the leaf reached by x.
func (t *Tree) leaf(x []float64) *Node {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n
		}
		if n.Feature < len(x) && x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// splitCriterion scores candidate splits. Lower impurity is better.
type splitCriterion interface {
	// impurity returns the weighted impurity (size * node impurity) of samples.
	impurity(samples []int) float64
	// best returns the best threshold on feature f for the sorted samples and
	// the summed child impurity, or ok=false when no split is possible.
	best(sorted []int, f int, minLeaf int) (threshold, score float64, ok bool)
	// leaf builds a leaf node for samples.
	leaf(samples []int) Node
}

// builder grows one tree.
type builder struct {
	x         [][]float64
	crit      splitCriterion
	cfg       Config
	rng       *rand.Rand
	nFeatures int
	nodes     []Node
}

// build grows the tree over samples and returns it.
func (b *builder) build(samples []int) Tree {
	b.nodes = b.nodes[:0]
	b.grow(samples, 0)
	return Tree{Nodes: b.nodes}
}

// grow appends the subtree for samples and returns its root index.
func (b *builder) grow(samples []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{})

	if len(samples) < b.cfg.MinSamplesSplit || (b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		b.nodes[idx] = b.crit.leaf(samples)
		return idx
	}

	parent := b.crit.impurity(samples)
	if parent <= 1e-12 {
		b.nodes[idx] = b.crit.leaf(samples)
		return idx
	}

	feature, threshold, ok := b.bestSplit(samples, parent)
	if !ok {
		b.nodes[idx] = b.crit.leaf(samples)
		return idx
	}

	left := make([]int, 0, len(samples))
	right := make([]int, 0, len(samples))
	for _, s := range samples {
		if b.x[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx] = Node{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return idx
}

// bestSplit searches a random feature subset for the split with the lowest
// child impurity that improves on the parent.
func (b *builder) bestSplit(samples []int, parent float64) (feature int, threshold float64, ok bool) {
	candidates := b.rng.Perm(b.nFeatures)
	if b.cfg.MaxFeatures > 0 && b.cfg.MaxFeatures < len(candidates) {
		candidates = candidates[:b.cfg.MaxFeatures]
	}

	bestScore := parent
	sorted := make([]int, len(samples))
	for _, f := range candidates {
		copy(sorted, samples)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		th, score, found := b.crit.best(sorted, f, b.cfg.MinSamplesLeaf)
		if !found {
			continue
		}
		if score < bestScore-1e-12 {
			bestScore = score
			feature, threshold, ok = f, th, true
		}
	}
	return feature, threshold, ok
}

// regressionCriterion minimizes the sum of squared errors.
type regressionCriterion struct {
	x [][]float64
	y []float64
}

func (c *regressionCriterion) impurity(samples []int) float64 {
	var sum, sq float64
	for _, s := range samples {
		sum += c.y[s]
		sq += c.y[s] * c.y[s]
	}
	n := float64(len(samples))
	if n == 0 {
		return 0
	}
	return sq - sum*sum/n
}

func (c *regressionCriterion) best(sorted []int, f int, minLeaf int) (threshold, score float64, ok bool) {
	var totalSum, totalSq float64
	for _, s := range sorted {
		totalSum += c.y[s]
		totalSq += c.y[s] * c.y[s]
	}

	n := len(sorted)
	var leftSum, leftSq float64
	score = -1
	for i := 0; i < n-1; i++ {
		v := c.y[sorted[i]]
		leftSum += v
		leftSq += v * v

		nl := i + 1
		nr := n - nl
		if nl < minLeaf || nr < minLeaf {
			continue
		}
		xi, xn := c.x[sorted[i]][f], c.x[sorted[i+1]][f]
		if xi == xn {
			continue
		}

		rightSum := totalSum - leftSum
		rightSq := totalSq - leftSq
		sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
		if !ok || sse < score {
			score = sse
			threshold = (xi + xn) / 2
			ok = true
		}
	}
	return threshold, score, ok
}

func (c *regressionCriterion) leaf(samples []int) Node {
	var sum float64
	for _, s := range samples {
		sum += c.y[s]
	}
	mean := 0.0
	if len(samples) > 0 {
		mean = sum / float64(len(samples))
	}
	return Node{Leaf: true, Value: mean}
}

// giniCriterion minimizes size-weighted Gini impurity.
type giniCriterion struct {
	x        [][]float64
	y        []int
	nClasses int
}

func (c *giniCriterion) counts(samples []int) []float64 {
	counts := make([]float64, c.nClasses)
	for _, s := range samples {
		counts[c.y[s]]++
	}
	return counts
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, k := range counts {
		p := k / n
		g -= p * p
	}
	return g * n
}

func (c *giniCriterion) impurity(samples []int) float64 {
	return gini(c.counts(samples), float64(len(samples)))
}

func (c *giniCriterion) best(sorted []int, f int, minLeaf int) (threshold, score float64, ok bool) {
	right := c.counts(sorted)
	left := make([]float64, c.nClasses)

	n := len(sorted)
	for i := 0; i < n-1; i++ {
		cls := c.y[sorted[i]]
		left[cls]++
		right[cls]--

		nl := i + 1
		nr := n - nl
		if nl < minLeaf || nr < minLeaf {
			continue
		}
		xi, xn := c.x[sorted[i]][f], c.x[sorted[i+1]][f]
		if xi == xn {
			continue
		}

		g := gini(left, float64(nl)) + gini(right, float64(nr))
		if !ok || g < score {
			score = g
			threshold = (xi + xn) / 2
			ok = true
		}
	}
	return threshold, score, ok
}

func (c *giniCriterion) leaf(samples []int) Node {
	counts := c.counts(samples)
	n := float64(len(samples))
	if n > 0 {
		for i := range counts {
			counts[i] /= n
		}
	}
	return Node{Leaf: true, Probs: counts}
}
