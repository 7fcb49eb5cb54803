// Package training orchestrates the end-to-end model build: ledger in,
// fitted classifier out, with a chronological train/test split and an
// accuracy report.
package training

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchcast/internal/classifier"
	"github.com/yourusername/matchcast/internal/features"
	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/logger"
	"github.com/yourusername/matchcast/internal/models"
)

// Config controls one pipeline run.
type Config struct {
	// Window is the rolling form window used for every training row.
	Window int
	// SplitDate is the chronological cutoff: rows before it train the model,
	// rows on or after it measure accuracy. The split must be by date, never
	// random; a random split would leak future matches into the training
	// windows.
	SplitDate time.Time
	// Classifier holds the forest hyperparameters.
	Classifier classifier.Config
}

// DefaultWindow is the rolling window used when none is configured.
const DefaultWindow = 10

// Result is the output of one pipeline run.
type Result struct {
	Forest       *classifier.Forest
	Encoding     models.TeamEncoding
	Rows         []models.TrainingRow
	TrainCount   int
	TestCount    int
	TestAccuracy float64 // meaningful only when TestCount > 0
}

// Pipeline fits a classifier from a ledger.
type Pipeline struct {
	cfg    Config
	logger *logrus.Entry
}

// NewPipeline creates a training pipeline.
func NewPipeline(cfg Config, log *logrus.Logger) *Pipeline {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Classifier.NumTrees <= 0 {
		cfg.Classifier = classifier.DefaultConfig()
	}
	return &Pipeline{cfg: cfg, logger: logger.WithComponent(log, "trainer")}
}

// Run engineers features for every ledger match at that match's own date,
// splits chronologically, fits the forest on the training side and reports
// accuracy on the test side. An empty test split is not an error.
func (p *Pipeline) Run(l *ledger.Ledger) (*Result, error) {
	if l.Len() == 0 {
		return nil, models.ErrEmptyLedger
	}

	encoding := features.BuildEncoding(l)
	asm := features.NewAssembler(l, encoding)

	rows := make([]models.TrainingRow, 0, l.Len())
	for _, rec := range l.Records() {
		assembled, err := asm.Assemble(rec.HomeTeam, rec.AwayTeam, rec.Date, p.cfg.Window)
		if err != nil {
			return nil, fmt.Errorf("assembling features for %s v %s: %w", rec.HomeTeam, rec.AwayTeam, err)
		}
		rows = append(rows, models.TrainingRow{
			Date:     rec.Date,
			HomeTeam: rec.HomeTeam,
			AwayTeam: rec.AwayTeam,
			Features: assembled.Vector,
			Label:    rec.Result,
		})
	}

	p.logger.WithField("rows", len(rows)).Info("Features engineered")

	train, test := splitByDate(rows, p.cfg.SplitDate)
	p.logger.WithFields(logrus.Fields{
		"train":      len(train),
		"test":       len(test),
		"split_date": p.cfg.SplitDate.Format("2006-01-02"),
	}).Info("Chronological split")

	if len(train) == 0 {
		return nil, fmt.Errorf("no rows before split date %s: %w",
			p.cfg.SplitDate.Format("2006-01-02"), models.ErrEmptyLedger)
	}

	forest := classifier.New(p.cfg.Classifier)
	if err := forest.Fit(columns(train), labels(train)); err != nil {
		return nil, fmt.Errorf("fitting classifier: %w", err)
	}

	result := &Result{
		Forest:     forest,
		Encoding:   encoding,
		Rows:       rows,
		TrainCount: len(train),
		TestCount:  len(test),
	}

	if len(test) > 0 {
		accuracy, err := evaluate(forest, test)
		if err != nil {
			return nil, fmt.Errorf("evaluating test split: %w", err)
		}
		result.TestAccuracy = accuracy
		p.logger.WithField("accuracy", fmt.Sprintf("%.3f", accuracy)).Info("Test accuracy")
	} else {
		p.logger.Info("Test split empty, skipping accuracy report")
	}

	return result, nil
}

// splitByDate partitions rows at the cutoff: strictly-before trains, on-or-
// after tests.
func splitByDate(rows []models.TrainingRow, cutoff time.Time) (train, test []models.TrainingRow) {
	for _, row := range rows {
		if row.Date.Before(cutoff) {
			train = append(train, row)
		} else {
			test = append(test, row)
		}
	}
	return train, test
}

func columns(rows []models.TrainingRow) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = row.Features.Columns()
	}
	return out
}

func labels(rows []models.TrainingRow) []models.Outcome {
	out := make([]models.Outcome, len(rows))
	for i, row := range rows {
		out[i] = row.Label
	}
	return out
}

func evaluate(forest *classifier.Forest, test []models.TrainingRow) (float64, error) {
	correct := 0
	for _, row := range test {
		pred, err := forest.Predict(row.Features.Columns())
		if err != nil {
			return 0, err
		}
		if pred == row.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(test)), nil
}
