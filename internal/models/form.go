package models

// TeamFormSnapshot summarises a team's recent form as of one reference date
// and one window size. Snapshots are ephemeral: computed on demand, never
// persisted.
type TeamFormSnapshot struct {
	PointsPerGame     float64 `json:"ppg"`
	GoalsScoredAvg    float64 `json:"goals_scored_avg"`
	GoalsConcededAvg  float64 `json:"goals_conceded_avg"`
	GoalDiff          float64 `json:"goal_difference"`
	MatchesConsidered int     `json:"matches_played"`
}

// NeutralForm is the snapshot returned for a team with no prior matches.
// PPG defaults to 1.0 (average form) rather than 0.0 so that unseen teams are
// not treated as guaranteed losers; the goal statistics stay at zero. The
// asymmetry is deliberate and baked into the trained model.
func NeutralForm() TeamFormSnapshot {
	return TeamFormSnapshot{PointsPerGame: 1.0}
}
