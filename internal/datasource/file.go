package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/models"
)

// FileSource reads completed matches from a JSON file on disk. The file is an
// array of fixture entries; scheduled fixtures carry the string "SCHEDULED"
// in place of a score and are skipped.
type FileSource struct {
	path   string
	logger *logrus.Logger
}

// NewFileSource creates a file-backed match source
func NewFileSource(path string, logger *logrus.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// Name identifies the source
func (s *FileSource) Name() string {
	return "file"
}

// fileEntry mirrors one fixture entry in the JSON file. Score is either a
// two-element [home, away] array or the string "SCHEDULED".
type fileEntry struct {
	Date        string          `json:"date"`
	Competition string          `json:"competition"`
	HomeTeam    string          `json:"home_team"`
	AwayTeam    string          `json:"away_team"`
	Score       json.RawMessage `json:"score"`
}

// dateLayouts are accepted in order. Plain dates are the common case.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// FetchMatches reads and parses the match file, returning completed fixtures
func (s *FileSource) FetchMatches(ctx context.Context) ([]models.MatchRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read match file %s: %w", s.path, err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse match file %s: %w", s.path, err)
	}

	matches := make([]models.MatchRecord, 0, len(entries))
	skipped := 0
	for i, e := range entries {
		var score [2]int
		if err := json.Unmarshal(e.Score, &score); err != nil {
			// Anything that is not a numeric pair is an unplayed fixture
			skipped++
			continue
		}

		date, err := parseMatchDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		matches = append(matches, models.MatchRecord{
			Date:        date,
			Competition: e.Competition,
			HomeTeam:    e.HomeTeam,
			AwayTeam:    e.AwayTeam,
			HomeGoals:   score[0],
			AwayGoals:   score[1],
			Result:      models.ResultFromGoals(score[0], score[1]),
		})
	}

	s.logger.WithFields(logrus.Fields{
		"file":    s.path,
		"matches": len(matches),
		"skipped": skipped,
	}).Info("Loaded matches from file")

	return matches, nil
}

func parseMatchDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable match date %q", value)
}
