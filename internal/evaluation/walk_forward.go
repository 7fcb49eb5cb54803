// Package evaluation measures out-of-sample model quality with a rolling
// walk-forward scheme: repeated chronological cutoffs, each training on
// history strictly before the cutoff and scoring on the window after it.
package evaluation

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
	"github.com/yourusername/matchcast/internal/training"
)

// Config configures a walk-forward run.
type Config struct {
	// Step is both the distance between consecutive cutoffs and the width of
	// each test window.
	Step time.Duration
	// MinTrainRows skips early windows without enough history to fit on.
	MinTrainRows int
	// MinTestRows skips windows whose test slice is too thin to score.
	MinTestRows int
	// Training carries the form window and forest hyperparameters; its
	// SplitDate is overwritten per window.
	Training training.Config
}

// DefaultConfig returns a sensible walk-forward setup: four-week steps with
// enough rows on both sides for the accuracy to mean something.
func DefaultConfig(trainCfg training.Config) Config {
	return Config{
		Step:         28 * 24 * time.Hour,
		MinTrainRows: 30,
		MinTestRows:  5,
		Training:     trainCfg,
	}
}

// Window is the scored result of one cutoff.
type Window struct {
	ID        int       `json:"id"`
	Cutoff    time.Time `json:"cutoff"`
	TestEnd   time.Time `json:"test_end"`
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
	Accuracy  float64   `json:"accuracy"`
}

// Result aggregates all scored windows.
type Result struct {
	Windows      []Window `json:"windows"`
	MeanAccuracy float64  `json:"mean_accuracy"`
	StdDev       float64  `json:"std_dev"`
	// Consistency is the fraction of windows that beat a uniform
	// three-way guess.
	Consistency float64 `json:"consistency"`
}

// uniformGuess is the accuracy of picking among the outcome classes at
// random.
const uniformGuess = 1.0 / float64(models.OutcomeClassCount)

// RunWalkForward slides a cutoff through the ledger and retrains at every
// step. Each window only ever sees matches dated before its own cutoff, so
// the scheme replays exactly what the service would have known at the time.
func RunWalkForward(l *ledger.Ledger, cfg Config, logger *logrus.Logger) (Result, error) {
	if l.Len() == 0 {
		return Result{}, models.ErrEmptyLedger
	}
	if cfg.Step <= 0 {
		cfg.Step = 28 * 24 * time.Hour
	}

	first, last := l.Span()
	windows := []Window{}
	id := 0

	for cutoff := first.Add(cfg.Step); cutoff.Before(last); cutoff = cutoff.Add(cfg.Step) {
		testEnd := cutoff.Add(cfg.Step)

		// Truncate the ledger at the window end so later matches cannot
		// influence encoding or features.
		visible := ledger.New(l.Before(testEnd), testEnd)

		trainCfg := cfg.Training
		trainCfg.SplitDate = cutoff
		pipeline := training.NewPipeline(trainCfg, logger)

		result, err := pipeline.Run(visible)
		if err != nil {
			return Result{}, fmt.Errorf("window at %s: %w", cutoff.Format("2006-01-02"), err)
		}
		if result.TrainCount < cfg.MinTrainRows || result.TestCount < cfg.MinTestRows {
			continue
		}

		id++
		windows = append(windows, Window{
			ID:        id,
			Cutoff:    cutoff,
			TestEnd:   testEnd,
			TrainRows: result.TrainCount,
			TestRows:  result.TestCount,
			Accuracy:  result.TestAccuracy,
		})
	}

	res := Result{Windows: windows}
	res.MeanAccuracy, res.StdDev = accuracyMoments(windows)
	res.Consistency = consistency(windows)

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"windows":       len(windows),
			"mean_accuracy": fmt.Sprintf("%.3f", res.MeanAccuracy),
			"consistency":   fmt.Sprintf("%.3f", res.Consistency),
		}).Info("Walk-forward evaluation complete")
	}

	return res, nil
}

func accuracyMoments(windows []Window) (mean, stddev float64) {
	if len(windows) == 0 {
		return 0, 0
	}
	for _, w := range windows {
		mean += w.Accuracy
	}
	mean /= float64(len(windows))

	for _, w := range windows {
		d := w.Accuracy - mean
		stddev += d * d
	}
	return mean, math.Sqrt(stddev / float64(len(windows)))
}

func consistency(windows []Window) float64 {
	if len(windows) == 0 {
		return 0
	}
	better := 0
	for _, w := range windows {
		if w.Accuracy > uniformGuess {
			better++
		}
	}
	return float64(better) / float64(len(windows))
}
