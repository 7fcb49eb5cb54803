package classifier

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a fitted decision tree. Leaf nodes carry the class
// distribution of the training samples that reached them; internal nodes
// split on Feature <= Threshold.
type treeNode struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
	Probs     []float64 `json:"probs,omitempty"`
}

func (n *treeNode) isLeaf() bool {
	return n.Probs != nil
}

func (n *treeNode) predict(row []float64) []float64 {
	node := n
	for !node.isLeaf() {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Probs
}

// treeBuilder grows one CART tree on a bootstrap sample.
type treeBuilder struct {
	rows             [][]float64
	labels           []int
	numClasses       int
	minSamplesSplit  int
	maxDepth         int
	featuresPerSplit int
	rng              *rand.Rand
}

func (b *treeBuilder) build(indices []int, depth int) *treeNode {
	counts := b.classCounts(indices)

	if len(indices) < b.minSamplesSplit ||
		(b.maxDepth > 0 && depth >= b.maxDepth) ||
		isPure(counts) {
		return leafFromCounts(counts, len(indices))
	}

	feature, threshold, ok := b.bestSplit(indices, counts)
	if !ok {
		return leafFromCounts(counts, len(indices))
	}

	var left, right []int
	for _, idx := range indices {
		if b.rows[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leafFromCounts(counts, len(indices))
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) classCounts(indices []int) []int {
	counts := make([]int, b.numClasses)
	for _, idx := range indices {
		counts[b.labels[idx]]++
	}
	return counts
}

// bestSplit scans a random feature subset for the split with the lowest
// weighted Gini impurity. Features are visited in a deterministic order for
// a fixed seed, and only a strictly better score replaces the incumbent, so
// fitting is reproducible.
func (b *treeBuilder) bestSplit(indices []int, parentCounts []int) (feature int, threshold float64, ok bool) {
	numFeatures := len(b.rows[0])
	candidates := b.rng.Perm(numFeatures)
	if b.featuresPerSplit > 0 && b.featuresPerSplit < numFeatures {
		candidates = candidates[:b.featuresPerSplit]
	}
	sort.Ints(candidates)

	total := len(indices)
	bestGini := giniFromCounts(parentCounts, total)
	found := false

	sorted := make([]int, len(indices))
	for _, f := range candidates {
		copy(sorted, indices)
		sort.Slice(sorted, func(i, j int) bool {
			return b.rows[sorted[i]][f] < b.rows[sorted[j]][f]
		})

		leftCounts := make([]int, b.numClasses)
		rightCounts := b.classCounts(indices)

		for i := 0; i < total-1; i++ {
			label := b.labels[sorted[i]]
			leftCounts[label]++
			rightCounts[label]--

			cur := b.rows[sorted[i]][f]
			next := b.rows[sorted[i+1]][f]
			if cur == next {
				continue
			}

			nLeft := i + 1
			nRight := total - nLeft
			gini := (float64(nLeft)*giniFromCounts(leftCounts, nLeft) +
				float64(nRight)*giniFromCounts(rightCounts, nRight)) / float64(total)

			if gini < bestGini {
				bestGini = gini
				feature = f
				threshold = (cur + next) / 2
				found = true
			}
		}
	}

	return feature, threshold, found
}

func giniFromCounts(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func leafFromCounts(counts []int, total int) *treeNode {
	probs := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			probs[i] = float64(c) / float64(total)
		}
	}
	return &treeNode{Probs: probs}
}
