package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jawago/server/internal/model"
)

type errorResponse struct {
	Error          string   `json:"error"`
	Message        string   `json:"message"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Contention
// outcomes (TooFar, SpawnGone, AlreadyVisited) are structured results the
// client branches on; only operational failures log at error level.
func writeDomainError(w http.ResponseWriter, err error) {
	var tooFar *model.TooFarError
	switch {
	case errors.As(err, &tooFar):
		d := tooFar.DistanceMeters
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error:          "too_far",
			Message:        tooFar.Error(),
			DistanceMeters: &d,
		})
	case errors.Is(err, model.ErrSpawnGone):
		writeError(w, http.StatusNotFound, "spawn_gone", "spawn already claimed or expired, refresh the spawn list")
	case errors.Is(err, model.ErrLandmarkNotFound):
		writeError(w, http.StatusNotFound, "landmark_not_found", "unknown landmark")
	case errors.Is(err, model.ErrAlreadyVisited):
		writeError(w, http.StatusConflict, "already_visited", "landmark already checked in")
	case errors.Is(err, model.ErrEmptyCatalog):
		slog.Error("refill against empty catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "empty_catalog", "no species to draw from")
	case errors.Is(err, model.ErrProfileNotFound):
		slog.Error("profile missing for verified identity", "error", err)
		writeError(w, http.StatusInternalServerError, "profile_not_found", "player profile missing")
	case errors.Is(err, model.ErrStoreUnavailable):
		slog.Error("store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "storage temporarily unavailable, retry with backoff")
	default:
		slog.Error("unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
