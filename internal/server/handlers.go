package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/service"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc         *service.PredictionService
	serviceName string
	logger      *logrus.Logger
}

// NewHandler creates a new handler with dependencies
func NewHandler(svc *service.PredictionService, serviceName string, logger *logrus.Logger) *Handler {
	return &Handler{
		svc:         svc,
		serviceName: serviceName,
		logger:      logger,
	}
}

type formSummary struct {
	HomePPG float64 `json:"home_ppg"`
	AwayPPG float64 `json:"away_ppg"`
}

type goalsStats struct {
	HomeScoredAvg   float64 `json:"home_scored_avg"`
	HomeConcededAvg float64 `json:"home_conceded_avg"`
	HomeGoalDiff    float64 `json:"home_goal_diff"`
	AwayScoredAvg   float64 `json:"away_scored_avg"`
	AwayConcededAvg float64 `json:"away_conceded_avg"`
	AwayGoalDiff    float64 `json:"away_goal_diff"`
}

type predictionResponse struct {
	HomeTeam      string             `json:"home_team"`
	AwayTeam      string             `json:"away_team"`
	Prediction    string             `json:"prediction"`
	Probabilities map[string]float64 `json:"probabilities"`
	Form          formSummary        `json:"form"`
	GoalsStats    goalsStats         `json:"goals_stats"`
	Confidence    float64            `json:"confidence"`
	Timestamp     string             `json:"timestamp"`
}

func toPredictionResponse(f *service.Forecast) predictionResponse {
	return predictionResponse{
		HomeTeam:      f.HomeTeam,
		AwayTeam:      f.AwayTeam,
		Prediction:    f.Predicted.String(),
		Probabilities: f.Probabilities,
		Form: formSummary{
			HomePPG: f.HomeForm.PointsPerGame,
			AwayPPG: f.AwayForm.PointsPerGame,
		},
		GoalsStats: goalsStats{
			HomeScoredAvg:   f.HomeForm.GoalsScoredAvg,
			HomeConcededAvg: f.HomeForm.GoalsConcededAvg,
			HomeGoalDiff:    f.HomeForm.GoalDiff,
			AwayScoredAvg:   f.AwayForm.GoalsScoredAvg,
			AwayConcededAvg: f.AwayForm.GoalsConcededAvg,
			AwayGoalDiff:    f.AwayForm.GoalDiff,
		},
		Confidence: f.Confidence,
		Timestamp:  f.GeneratedAt.Format(time.RFC3339),
	}
}

// HealthCheck reports service liveness and whether a model is loaded
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	loaded, teams := h.svc.Status()

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"service":         h.serviceName,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"teams_available": teams,
		"model_loaded":    loaded,
	})
}

// GetTeams returns all team names the active model can predict
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.Teams()
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

type predictRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	// Window distinguishes "absent" from an explicit zero, which is invalid.
	Window *int `json:"window"`
}

// Predict serves a single fixture prediction
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "request body required")
		return
	}

	window := 0
	if req.Window != nil {
		if *req.Window < service.MinWindow {
			respondError(w, h.logger, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = *req.Window
	}

	forecast, err := h.svc.Predict(r.Context(), req.HomeTeam, req.AwayTeam, window)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toPredictionResponse(forecast))
}

type batchPredictRequest struct {
	Matches []service.FixtureRequest `json:"matches"`
	Window  int                      `json:"window"`
}

// BatchPredict serves up to 50 fixture predictions in one request
func (h *Handler) BatchPredict(w http.ResponseWriter, r *http.Request) {
	var req batchPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "request body required")
		return
	}

	result, err := h.svc.PredictBatch(r.Context(), req.Matches, req.Window)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	predictions := make([]predictionResponse, 0, len(result.Forecasts))
	for _, f := range result.Forecasts {
		predictions = append(predictions, toPredictionResponse(f))
	}
	errs := result.Errors
	if errs == nil {
		errs = []service.BatchItemError{}
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"predictions":     predictions,
		"errors":          errs,
		"total_requested": result.Requested,
		"successful":      len(predictions),
		"failed":          len(errs),
	})
}

// Retrain triggers a synchronous model retrain
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Manual retraining triggered")

	teams, err := h.svc.Retrain(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"message":     "Model retrained successfully",
		"teams_count": teams,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetTeamForm returns one team's rolling form snapshot
func (h *Handler) GetTeamForm(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")

	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < service.MinWindow {
			respondError(w, h.logger, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = parsed
	}

	snap, err := h.svc.TeamForm(r.Context(), team, window)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"team": team,
		"form": snap,
	})
}
