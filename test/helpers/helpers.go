// Package helpers provides shared fixtures for integration and e2e tests.
package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// FixtureEntry mirrors one entry in a matches.json file. Score is either a
// [home, away] pair or the string "SCHEDULED".
type FixtureEntry struct {
	Date     string      `json:"date"`
	HomeTeam string      `json:"home_team"`
	AwayTeam string      `json:"away_team"`
	Score    interface{} `json:"score"`
}

// SeasonFixtures generates a deterministic round-robin season of completed
// fixtures starting at the given date, one match per day.
func SeasonFixtures(start time.Time, days int) []FixtureEntry {
	teams := []string{"Arsenal", "Chelsea", "Liverpool", "Spurs"}

	entries := make([]FixtureEntry, 0, days)
	for i := 0; i < days; i++ {
		entries = append(entries, FixtureEntry{
			Date:     start.AddDate(0, 0, i).Format("2006-01-02"),
			HomeTeam: teams[i%len(teams)],
			AwayTeam: teams[(i+1)%len(teams)],
			Score:    []int{i % 3, (i + 1) % 2},
		})
	}
	return entries
}

// WriteMatchFile writes fixtures to a matches.json file in a temp directory
// and returns its path.
func WriteMatchFile(t *testing.T, entries []FixtureEntry) string {
	t.Helper()

	data, err := json.Marshal(entries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "matches.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// ScheduledFixture returns an unplayed fixture entry for the given teams.
func ScheduledFixture(date time.Time, home, away string) FixtureEntry {
	return FixtureEntry{
		Date:     date.Format("2006-01-02"),
		HomeTeam: home,
		AwayTeam: away,
		Score:    "SCHEDULED",
	}
}

// RequireJSON decodes a JSON body into a map, failing the test on error.
func RequireJSON(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body), fmt.Sprintf("invalid JSON: %s", string(data)))
	return body
}
