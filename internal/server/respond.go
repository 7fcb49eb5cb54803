package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/models"
)

// errorResponse is the uniform error body returned by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, logger *logrus.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, logger *logrus.Logger, status int, message string) {
	respondJSON(w, logger, status, errorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP status codes. Unexpected
// errors are logged and masked behind a generic message.
func respondServiceError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(w, logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnknownTeam):
		respondError(w, logger, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrNoArtifact):
		respondError(w, logger, http.StatusServiceUnavailable, "model not loaded")
	default:
		logger.WithError(err).Error("Request failed")
		respondError(w, logger, http.StatusInternalServerError, "internal error")
	}
}
