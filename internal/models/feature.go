package models

import "time"

// FeatureVector is the fixed-shape numeric input consumed by the classifier.
// The shape and the column order must be identical between training and
// serving; Columns is the single place that defines that order.
type FeatureVector struct {
	HomeTeamCode int     `json:"home_team_code"`
	AwayTeamCode int     `json:"away_team_code"`
	HomePPG      float64 `json:"home_ppg"`
	AwayPPG      float64 `json:"away_ppg"`
	HomeGoalDiff float64 `json:"home_goal_diff"`
	AwayGoalDiff float64 `json:"away_goal_diff"`
}

// FeatureCount is the width of a feature vector.
const FeatureCount = 6

// Columns returns the vector as an ordered float slice for the classifier.
func (f FeatureVector) Columns() []float64 {
	return []float64{
		float64(f.HomeTeamCode),
		float64(f.AwayTeamCode),
		f.HomePPG,
		f.AwayPPG,
		f.HomeGoalDiff,
		f.AwayGoalDiff,
	}
}

// TrainingRow is one labelled feature row produced by the training pipeline.
// Features are computed as of the match's own date.
type TrainingRow struct {
	Date     time.Time     `json:"date"`
	HomeTeam string        `json:"home_team"`
	AwayTeam string        `json:"away_team"`
	Features FeatureVector `json:"features"`
	Label    Outcome       `json:"label"`
}

// TeamEncoding is a stable bijection between team names and dense integer
// codes. It is rebuilt from scratch on every retrain and never mutated
// incrementally.
type TeamEncoding map[string]int

// Code looks up the integer code for a team name.
func (e TeamEncoding) Code(team string) (int, bool) {
	code, ok := e[team]
	return code, ok
}

// Teams returns all encoded team names in code order.
func (e TeamEncoding) Teams() []string {
	names := make([]string, len(e))
	for name, code := range e {
		names[code] = name
	}
	return names
}
