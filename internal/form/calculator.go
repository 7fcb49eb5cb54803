// Package form computes point-in-time team form statistics from the match
// ledger. Every snapshot is bounded by the reference date with a strict
// inequality so that no statistic ever includes information from the
// reference date itself or later.
package form

import (
	"fmt"
	"time"

	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
)

// Calculator derives rolling form snapshots from a fixed ledger.
type Calculator struct {
	ledger *ledger.Ledger
}

// NewCalculator creates a calculator over the given ledger.
func NewCalculator(l *ledger.Ledger) *Calculator {
	return &Calculator{ledger: l}
}

// Snapshot computes the team's form over its last `window` matches played
// strictly before referenceDate. If the team played fewer matches, all of
// them are used; with no prior matches the neutral default applies
// (ppg=1.0, goal stats zero).
func (c *Calculator) Snapshot(team string, referenceDate time.Time, window int) (models.TeamFormSnapshot, error) {
	if window <= 0 {
		return models.TeamFormSnapshot{}, fmt.Errorf("window must be positive, got %d: %w", window, models.ErrValidation)
	}

	matches := c.ledger.TeamMatchesBefore(team, referenceDate)
	if len(matches) > window {
		matches = matches[len(matches)-window:]
	}
	if len(matches) == 0 {
		return models.NeutralForm(), nil
	}

	var points, scored, conceded int
	for _, m := range matches {
		points += m.PointsFor(team)
		s, g := m.GoalsFor(team)
		scored += s
		conceded += g
	}

	n := float64(len(matches))
	scoredAvg := float64(scored) / n
	concededAvg := float64(conceded) / n

	return models.TeamFormSnapshot{
		PointsPerGame:     float64(points) / n,
		GoalsScoredAvg:    scoredAvg,
		GoalsConcededAvg:  concededAvg,
		GoalDiff:          scoredAvg - concededAvg,
		MatchesConsidered: len(matches),
	}, nil
}
