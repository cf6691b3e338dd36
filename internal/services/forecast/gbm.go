package forecast

import (
	"fmt"
	"math/rand"
)

// GBM is a gradient boosting regressor over depth-limited trees with a
// squared error loss.
type GBM struct {
	Base         float64     `json:"base"`
	LearningRate float64     `json:"lr"`
	MaxDepth     int         `json:"depth"`
	NTrees       int         `json:"n_trees"`
	Trees        []*TreeNode `json:"trees"`
	Seed         int64       `json:"seed"`
}

func NewGBM(nTrees, maxDepth int, learningRate float64, seed int64) *GBM {
	return &GBM{
		LearningRate: learningRate,
		MaxDepth:     maxDepth,
		NTrees:       nTrees,
		Seed:         seed,
	}
}

func (g *GBM) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("gbm: empty or mismatched training data")
	}
	rng := rand.New(rand.NewSource(g.Seed))

	g.Base = mean(y)
	g.Trees = g.Trees[:0]

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = g.Base
	}

	residual := make([]float64, len(y))
	params := treeParams{maxDepth: g.MaxDepth, minSamplesSplit: 2, minSamplesLeaf: 1}
	for t := 0; t < g.NTrees; t++ {
		for i := range y {
			residual[i] = y[i] - pred[i]
		}
		tree := buildTree(x, residual, idx, 0, params, rng)
		g.Trees = append(g.Trees, tree)
		for i := range pred {
			pred[i] += g.LearningRate * tree.Predict(x[i])
		}
	}
	return nil
}

func (g *GBM) Predict(row []float64) float64 {
	out := g.Base
	for _, tree := range g.Trees {
		out += g.LearningRate * tree.Predict(row)
	}
	return out
}

// Score reports the coefficient of determination on the given set.
func (g *GBM) Score(x [][]float64, y []float64) float64 {
	pred := make([]float64, len(y))
	for i, row := range x {
		pred[i] = g.Predict(row)
	}
	return rSquared(y, pred)
}
