// Package classifier implements the trainable three-class outcome predictor:
// a random forest of CART trees fitted on engineered form features. The rest
// of the system treats it as opaque; it only relies on Fit, Predict and
// PredictProba, and on the forest being deterministic for a fixed seed.
package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/yourusername/matchcast/internal/models"
)

// Config holds the forest hyperparameters.
type Config struct {
	NumTrees        int   `json:"num_trees"`
	MinSamplesSplit int   `json:"min_samples_split"`
	MaxDepth        int   `json:"max_depth"` // 0 means unbounded
	Seed            int64 `json:"seed"`
}

// DefaultConfig mirrors the hyperparameters the model was originally tuned
// with: 50 trees, minimum 10 samples to split, fixed seed 42.
func DefaultConfig() Config {
	return Config{
		NumTrees:        50,
		MinSamplesSplit: 10,
		Seed:            42,
	}
}

// Forest is a fitted random forest. The exported fields make the model
// JSON-serializable as part of the persisted artifact.
type Forest struct {
	Params     Config      `json:"params"`
	NumClasses int         `json:"num_classes"`
	Trees      []*treeNode `json:"trees"`
}

// New creates an unfitted forest with the given configuration.
func New(cfg Config) *Forest {
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = DefaultConfig().NumTrees
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	return &Forest{Params: cfg, NumClasses: models.OutcomeClassCount}
}

// Fit trains the forest on the given feature rows and labels. Each tree is
// grown on a bootstrap sample with sqrt(features) candidate features per
// split; all randomness flows from the configured seed.
func (f *Forest) Fit(rows [][]float64, labels []models.Outcome) error {
	if len(rows) == 0 {
		return fmt.Errorf("no training rows: %w", models.ErrEmptyLedger)
	}
	if len(rows) != len(labels) {
		return fmt.Errorf("row/label length mismatch: %d vs %d", len(rows), len(labels))
	}

	width := len(rows[0])
	intLabels := make([]int, len(labels))
	for i, label := range labels {
		if !label.Valid() {
			return fmt.Errorf("invalid outcome label %d at row %d", int(label), i)
		}
		if len(rows[i]) != width {
			return fmt.Errorf("ragged feature row at %d: got %d columns, want %d", i, len(rows[i]), width)
		}
		intLabels[i] = int(label)
	}

	rng := rand.New(rand.NewSource(f.Params.Seed))
	featuresPerSplit := int(math.Ceil(math.Sqrt(float64(width))))

	trees := make([]*treeNode, f.Params.NumTrees)
	n := len(rows)
	for t := 0; t < f.Params.NumTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		builder := &treeBuilder{
			rows:             rows,
			labels:           intLabels,
			numClasses:       f.NumClasses,
			minSamplesSplit:  f.Params.MinSamplesSplit,
			maxDepth:         f.Params.MaxDepth,
			featuresPerSplit: featuresPerSplit,
			rng:              rng,
		}
		trees[t] = builder.build(sample, 0)
	}

	f.Trees = trees
	return nil
}

// Fitted reports whether the forest has been trained.
func (f *Forest) Fitted() bool {
	return len(f.Trees) > 0
}

// PredictProba returns the class probabilities for one feature row, in
// ascending class-code order (AwayWin, HomeWin, Draw). Probabilities are the
// average of the per-tree leaf distributions.
func (f *Forest) PredictProba(row []float64) ([]float64, error) {
	if !f.Fitted() {
		return nil, fmt.Errorf("forest is not fitted: %w", models.ErrNoArtifact)
	}

	probs := make([]float64, f.NumClasses)
	for _, tree := range f.Trees {
		leaf := tree.predict(row)
		for c := 0; c < f.NumClasses && c < len(leaf); c++ {
			probs[c] += leaf[c]
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs, nil
}

// Predict returns the most probable outcome for one feature row. Ties break
// toward the lower class code, matching the probability ordering.
func (f *Forest) Predict(row []float64) (models.Outcome, error) {
	probs, err := f.PredictProba(row)
	if err != nil {
		return 0, err
	}

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return models.Outcome(best), nil
}
