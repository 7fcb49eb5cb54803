package models

import (
	"fmt"
	"time"
)

// Outcome is the result class of a match from the home side's perspective.
// The integer codes are part of the trained model contract and must not change:
// the classifier is fitted against these values and emits probabilities in
// ascending code order.
type Outcome int

const (
	AwayWin Outcome = 0
	HomeWin Outcome = 1
	Draw    Outcome = 2
)

// OutcomeClassCount is the number of outcome classes.
const OutcomeClassCount = 3

// String returns the human-readable label used in API responses.
func (o Outcome) String() string {
	switch o {
	case HomeWin:
		return "Home Win"
	case AwayWin:
		return "Away Win"
	case Draw:
		return "Draw"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// Valid reports whether the outcome is one of the three known classes.
func (o Outcome) Valid() bool {
	return o == AwayWin || o == HomeWin || o == Draw
}

// MatchRecord represents one resolved historical match. Records are immutable
// once ingested into a ledger.
type MatchRecord struct {
	Date        time.Time `json:"date" db:"match_date" validate:"required"`
	Competition string    `json:"competition,omitempty" db:"competition"`
	HomeTeam    string    `json:"home_team" db:"home_team" validate:"required"`
	AwayTeam    string    `json:"away_team" db:"away_team" validate:"required"`
	HomeGoals   int       `json:"home_goals" db:"home_goals" validate:"gte=0"`
	AwayGoals   int       `json:"away_goals" db:"away_goals" validate:"gte=0"`
	Result      Outcome   `json:"result" db:"result"`
}

// ResultFromGoals derives the outcome class from a final score.
func ResultFromGoals(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return HomeWin
	case homeGoals < awayGoals:
		return AwayWin
	default:
		return Draw
	}
}

// Involves reports whether the given team played on either side.
func (m *MatchRecord) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// PointsFor returns the league points the given team earned from this match:
// 3 for a win, 1 for a draw, 0 for a loss or if the team did not play.
func (m *MatchRecord) PointsFor(team string) int {
	switch {
	case m.Result == Draw && m.Involves(team):
		return 1
	case m.Result == HomeWin && m.HomeTeam == team:
		return 3
	case m.Result == AwayWin && m.AwayTeam == team:
		return 3
	default:
		return 0
	}
}

// GoalsFor returns the goals scored and conceded by the given team in this
// match. Both are zero if the team did not play.
func (m *MatchRecord) GoalsFor(team string) (scored, conceded int) {
	switch team {
	case m.HomeTeam:
		return m.HomeGoals, m.AwayGoals
	case m.AwayTeam:
		return m.AwayGoals, m.HomeGoals
	default:
		return 0, 0
	}
}
