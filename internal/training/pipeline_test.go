package training

import (
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func day(offset int) time.Time {
	return time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// seasonLedger simulates a small league season: Alpha strong, Delta weak.
func seasonLedger(matches int) *ledger.Ledger {
	teams := []string{"Alpha", "Bravo", "Charlie", "Delta"}
	strength := map[string]int{"Alpha": 3, "Bravo": 2, "Charlie": 1, "Delta": 0}
	rng := rand.New(rand.NewSource(1))

	records := make([]models.MatchRecord, 0, matches)
	for i := 0; i < matches; i++ {
		home := teams[rng.Intn(len(teams))]
		away := teams[rng.Intn(len(teams))]
		for away == home {
			away = teams[rng.Intn(len(teams))]
		}
		diff := strength[home] - strength[away]
		homeGoals := rng.Intn(2)
		awayGoals := rng.Intn(2)
		if diff > 0 {
			homeGoals += diff
		} else {
			awayGoals -= diff
		}
		records = append(records, models.MatchRecord{
			Date:      day(i),
			HomeTeam:  home,
			AwayTeam:  away,
			HomeGoals: homeGoals,
			AwayGoals: awayGoals,
		})
	}
	return ledger.New(records, day(matches+1))
}

func TestRunProducesRowPerMatch(t *testing.T) {
	l := seasonLedger(60)
	p := NewPipeline(Config{SplitDate: day(45)}, quietLogger())

	result, err := p.Run(l)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if len(result.Rows) != l.Len() {
		t.Fatalf("expected %d rows, got %d", l.Len(), len(result.Rows))
	}
	if result.TrainCount+result.TestCount != len(result.Rows) {
		t.Fatalf("split counts do not add up: %d + %d != %d",
			result.TrainCount, result.TestCount, len(result.Rows))
	}
	if result.TestCount == 0 {
		t.Fatal("expected non-empty test split for split date inside the season")
	}
	if !result.Forest.Fitted() {
		t.Fatal("expected a fitted forest")
	}
	if len(result.Encoding) != 4 {
		t.Fatalf("expected 4 encoded teams, got %d", len(result.Encoding))
	}
}

func TestRunSplitsChronologically(t *testing.T) {
	l := seasonLedger(40)
	cutoff := day(30)
	p := NewPipeline(Config{SplitDate: cutoff}, quietLogger())

	result, err := p.Run(l)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	for i, row := range result.Rows {
		if i < result.TrainCount && !row.Date.Before(cutoff) {
			t.Fatalf("training row %d dated %s is not before the cutoff", i, row.Date)
		}
		if i >= result.TrainCount && row.Date.Before(cutoff) {
			t.Fatalf("test row %d dated %s is before the cutoff", i, row.Date)
		}
	}
}

func TestRunEmptyTestSplitIsNotAnError(t *testing.T) {
	l := seasonLedger(30)
	p := NewPipeline(Config{SplitDate: day(1000)}, quietLogger())

	result, err := p.Run(l)
	if err != nil {
		t.Fatalf("pipeline failed on empty test split: %v", err)
	}
	if result.TestCount != 0 {
		t.Fatalf("expected empty test split, got %d", result.TestCount)
	}
}

func TestRunEmptyLedger(t *testing.T) {
	l := ledger.New(nil, day(0))
	p := NewPipeline(Config{SplitDate: day(10)}, quietLogger())

	if _, err := p.Run(l); !errors.Is(err, models.ErrEmptyLedger) {
		t.Fatalf("expected empty ledger error, got %v", err)
	}
}

func TestRunFeaturesComputedAtOwnDate(t *testing.T) {
	// The very first match of the season has no history on either side, so
	// its row must carry the neutral defaults regardless of everything that
	// happened later.
	l := seasonLedger(50)
	p := NewPipeline(Config{SplitDate: day(40)}, quietLogger())

	result, err := p.Run(l)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	first := result.Rows[0].Features
	if first.HomePPG != 1.0 || first.AwayPPG != 1.0 {
		t.Fatalf("first row must use neutral ppg defaults, got %+v", first)
	}
	if first.HomeGoalDiff != 0 || first.AwayGoalDiff != 0 {
		t.Fatalf("first row must have zero goal-diff cross terms, got %+v", first)
	}
}
