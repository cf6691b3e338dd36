package forecast

import (
	"fmt"
	"math/rand"
)

// RandomForest is a bagged ensemble of regression trees. Each tree is
// fit on a bootstrap sample with a random feature subset per split.
type RandomForest struct {
	NTrees      int         `json:"n_trees"`
	MaxDepth    int         `json:"depth"`
	MaxFeatures int         `json:"max_features"`
	Trees       []*TreeNode `json:"trees"`
	Seed        int64       `json:"seed"`
}

func NewRandomForest(nTrees, maxDepth int, seed int64) *RandomForest {
	return &RandomForest{NTrees: nTrees, MaxDepth: maxDepth, Seed: seed}
}

func (f *RandomForest) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("forest: empty or mismatched training data")
	}
	rng := rand.New(rand.NewSource(f.Seed))

	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = squareRootFeatures(len(x[0]))
	}
	params := treeParams{
		maxDepth:        f.MaxDepth,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     maxFeatures,
	}

	f.Trees = f.Trees[:0]
	sample := make([]int, len(x))
	for t := 0; t < f.NTrees; t++ {
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}
		f.Trees = append(f.Trees, buildTree(x, y, sample, 0, params, rng))
	}
	return nil
}

func (f *RandomForest) Predict(row []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.Predict(row)
	}
	return sum / float64(len(f.Trees))
}

func (f *RandomForest) Score(x [][]float64, y []float64) float64 {
	pred := make([]float64, len(y))
	for i, row := range x {
		pred[i] = f.Predict(row)
	}
	return rSquared(y, pred)
}

func squareRootFeatures(n int) int {
	k := 1
	for k*k < n {
		k++
	}
	if k*k > n && k > 1 {
		k--
	}
	return k
}
