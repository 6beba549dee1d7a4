package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("admin request failed", "error", err)
	}
	respondWithJSON(w, code, response.ErrorResponse{Success: false, Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidShave):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrShaveNotFound),
		errors.Is(err, domain.ErrTrackingCodeNotFound),
		errors.Is(err, domain.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTrackingCodeExists), errors.Is(err, domain.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTrackingAPIUnauthorized), errors.Is(err, domain.ErrTrackingAPIUnavailable),
		errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.Join(domain.ErrInvalidInput, err)
	}
	return nil
}

// parseDay reads a YYYY-MM-DD query value in location; empty means today.
func parseDay(value string, location *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		return domain.StartOfDay(now.In(location)), nil
	}
	day, err := time.ParseInLocation(time.DateOnly, value, location)
	if err != nil {
		return time.Time{}, errors.Join(domain.ErrInvalidInput, err)
	}
	return day, nil
}
