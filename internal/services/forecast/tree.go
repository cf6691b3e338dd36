package forecast

import (
	"math"
	"math/rand"
	"sort"
)

// TreeNode is one node of a regression tree. Exported fields keep the
// fitted tree JSON-serializable for the artifact store.
type TreeNode struct {
	Feature   int       `json:"f,omitempty"`
	Threshold float64   `json:"t,omitempty"`
	Left      *TreeNode `json:"l,omitempty"`
	Right     *TreeNode `json:"r,omitempty"`
	Value     float64   `json:"v"`
	Leaf      bool      `json:"leaf,omitempty"`
}

// Predict walks the tree for one feature row.
func (n *TreeNode) Predict(row []float64) float64 {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	// 0 means consider every feature at each split
	maxFeatures int
}

// buildTree fits a CART regression tree on the rows selected by idx,
// greedily minimizing squared error.
func buildTree(x [][]float64, y []float64, idx []int, depth int, p treeParams, rng *rand.Rand) *TreeNode {
	if len(idx) == 0 {
		return &TreeNode{Leaf: true}
	}
	mean := 0.0
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))

	if depth >= p.maxDepth || len(idx) < p.minSamplesSplit || pure(y, idx) {
		return &TreeNode{Leaf: true, Value: mean}
	}

	feature, threshold, ok := bestSplit(x, y, idx, p, rng)
	if !ok {
		return &TreeNode{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < p.minSamplesLeaf || len(right) < p.minSamplesLeaf {
		return &TreeNode{Leaf: true, Value: mean}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(x, y, left, depth+1, p, rng),
		Right:     buildTree(x, y, right, depth+1, p, rng),
		Value:     mean,
	}
}

// bestSplit scans candidate features with prefix sums over the sorted
// column, returning the split with the largest SSE reduction.
func bestSplit(x [][]float64, y []float64, idx []int, p treeParams, rng *rand.Rand) (int, float64, bool) {
	nFeatures := len(x[idx[0]])
	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}
	if p.maxFeatures > 0 && p.maxFeatures < nFeatures {
		rng.Shuffle(nFeatures, func(i, j int) { features[i], features[j] = features[j], features[i] })
		features = features[:p.maxFeatures]
	}

	var (
		bestFeature   = -1
		bestThreshold float64
		bestScore     = math.Inf(1)
	)

	order := make([]int, len(idx))
	for _, f := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		total, totalSq := 0.0, 0.0
		for _, i := range order {
			total += y[i]
			totalSq += y[i] * y[i]
		}

		leftSum, leftSq := 0.0, 0.0
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			cur, next := x[i][f], x[order[pos+1]][f]
			if cur == next {
				continue
			}
			nL := float64(pos + 1)
			nR := float64(len(order) - pos - 1)
			if int(nL) < p.minSamplesLeaf || int(nR) < p.minSamplesLeaf {
				continue
			}
			sseL := leftSq - leftSum*leftSum/nL
			rightSum := total - leftSum
			sseR := (totalSq - leftSq) - rightSum*rightSum/nR
			if score := sseL + sseR; score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func pure(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}
