// Package features turns a pair of teams and a reference date into the
// fixed-shape numeric vector the classifier consumes. There is exactly one
// assembly routine: the training pipeline and the prediction service both go
// through Assemble, so the two paths cannot drift apart.
package features

import (
	"fmt"
	"time"

	"github.com/yourusername/matchcast/internal/form"
	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/models"
)

// Assembler builds feature vectors against one ledger and one team encoding.
type Assembler struct {
	calc     *form.Calculator
	encoding models.TeamEncoding
}

// NewAssembler creates an assembler over the given ledger and encoding.
func NewAssembler(l *ledger.Ledger, encoding models.TeamEncoding) *Assembler {
	return &Assembler{
		calc:     form.NewCalculator(l),
		encoding: encoding,
	}
}

// Assembled bundles a feature vector with the form snapshots it was derived
// from, so callers can expose the underlying statistics.
type Assembled struct {
	Vector   models.FeatureVector
	HomeForm models.TeamFormSnapshot
	AwayForm models.TeamFormSnapshot
}

// Assemble computes the feature vector for a fixture as of referenceDate.
// Both sides use the identical window and reference date. The goal-diff
// columns are cross terms: each side's rolling goal differential minus the
// opposing side's scoring average. Do not simplify the formula on one path
// without re-deriving both; the trained model expects exactly this shape.
func (a *Assembler) Assemble(homeTeam, awayTeam string, referenceDate time.Time, window int) (Assembled, error) {
	homeCode, ok := a.encoding.Code(homeTeam)
	if !ok {
		return Assembled{}, fmt.Errorf("%q: %w", homeTeam, models.ErrUnknownTeam)
	}
	awayCode, ok := a.encoding.Code(awayTeam)
	if !ok {
		return Assembled{}, fmt.Errorf("%q: %w", awayTeam, models.ErrUnknownTeam)
	}

	homeForm, err := a.calc.Snapshot(homeTeam, referenceDate, window)
	if err != nil {
		return Assembled{}, err
	}
	awayForm, err := a.calc.Snapshot(awayTeam, referenceDate, window)
	if err != nil {
		return Assembled{}, err
	}

	return Assembled{
		Vector: models.FeatureVector{
			HomeTeamCode: homeCode,
			AwayTeamCode: awayCode,
			HomePPG:      homeForm.PointsPerGame,
			AwayPPG:      awayForm.PointsPerGame,
			HomeGoalDiff: homeForm.GoalDiff - awayForm.GoalsScoredAvg,
			AwayGoalDiff: awayForm.GoalDiff - homeForm.GoalsScoredAvg,
		},
		HomeForm: homeForm,
		AwayForm: awayForm,
	}, nil
}

// Form exposes a single team's snapshot for the team-form endpoint. The team
// must exist in the encoding.
func (a *Assembler) Form(team string, referenceDate time.Time, window int) (models.TeamFormSnapshot, error) {
	if _, ok := a.encoding.Code(team); !ok {
		return models.TeamFormSnapshot{}, fmt.Errorf("%q: %w", team, models.ErrUnknownTeam)
	}
	return a.calc.Snapshot(team, referenceDate, window)
}

// Encoding returns the team encoding this assembler was built with.
func (a *Assembler) Encoding() models.TeamEncoding {
	return a.encoding
}
