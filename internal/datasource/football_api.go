package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/config"
	"github.com/yourusername/matchcast/internal/models"
)

// FootballAPISource fetches completed fixtures from an external results API.
// One request is made per configured competition; only fixtures reported as
// FINISHED are converted into match records.
type FootballAPISource struct {
	client       *RateLimitedHTTPClient
	baseURL      string
	apiKey       string
	competitions []string
	season       int
	logger       *logrus.Logger
}

// NewFootballAPISource creates an API-backed match source
func NewFootballAPISource(cfg config.ResultsAPIConfig, client *RateLimitedHTTPClient, logger *logrus.Logger) *FootballAPISource {
	return &FootballAPISource{
		client:       client,
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		competitions: cfg.Competitions,
		season:       cfg.Season,
		logger:       logger,
	}
}

// Name identifies the source
func (s *FootballAPISource) Name() string {
	return "football_api"
}

// apiMatch mirrors one fixture in the API response
type apiMatch struct {
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
	HomeTeam struct {
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam struct {
		Name string `json:"name"`
	} `json:"awayTeam"`
	Score struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type apiMatchesResponse struct {
	Matches []apiMatch `json:"matches"`
}

// FetchMatches retrieves completed fixtures for every configured competition
func (s *FootballAPISource) FetchMatches(ctx context.Context) ([]models.MatchRecord, error) {
	var all []models.MatchRecord

	for _, comp := range s.competitions {
		matches, err := s.fetchCompetition(ctx, comp)
		if err != nil {
			return nil, fmt.Errorf("competition %s: %w", comp, err)
		}
		all = append(all, matches...)
	}

	s.logger.WithFields(logrus.Fields{
		"competitions": len(s.competitions),
		"matches":      len(all),
	}).Info("Fetched matches from results API")

	return all, nil
}

func (s *FootballAPISource) fetchCompetition(ctx context.Context, competition string) ([]models.MatchRecord, error) {
	url := fmt.Sprintf("%s/competitions/%s/matches", s.baseURL, competition)
	if s.season > 0 {
		url = fmt.Sprintf("%s?season=%d", url, s.season)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Auth-Token", s.apiKey)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var payload apiMatchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	matches := make([]models.MatchRecord, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		if m.Status != "FINISHED" || m.Score.FullTime.Home == nil || m.Score.FullTime.Away == nil {
			continue
		}

		date, err := time.Parse(time.RFC3339, m.UTCDate)
		if err != nil {
			s.logger.WithField("date", m.UTCDate).Warn("Skipping fixture with unparseable date")
			continue
		}

		home, away := *m.Score.FullTime.Home, *m.Score.FullTime.Away
		matches = append(matches, models.MatchRecord{
			Date:        date,
			Competition: competition,
			HomeTeam:    m.HomeTeam.Name,
			AwayTeam:    m.AwayTeam.Name,
			HomeGoals:   home,
			AwayGoals:   away,
			Result:      models.ResultFromGoals(home, away),
		})
	}

	return matches, nil
}
