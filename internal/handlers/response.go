package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/mapquest/pkg/domain"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeDomainError maps a game error to its HTTP status.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Unexpected engine error", "error", err)
		writeError(w, logger, status, "Internal server error")
		return
	}
	logger.Debug("Request rejected", "status", status, "error", err)
	writeError(w, logger, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownPointOfInterest):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrNotAMonster),
		errors.Is(err, domain.ErrNotAStore):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoActiveAdventurer),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrItemNotAvailable),
		errors.Is(err, domain.ErrTargetAlreadyResolved),
		errors.Is(err, domain.ErrNoOpenEncounter),
		errors.Is(err, domain.ErrEncounterInProgress),
		errors.Is(err, domain.ErrEncounterClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
