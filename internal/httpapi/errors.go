package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"example.com/mastermind/internal/game"
	"example.com/mastermind/internal/session"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorResponse{Code: errCode, Message: msg})
}

// classify maps a service error onto an HTTP status and a stable error code.
// Supply errors are checked first: a malformed remote code is a supply
// failure even though its cause is a validation error.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, game.ErrQuotaExceeded):
		return http.StatusServiceUnavailable, "quota_exceeded"
	case game.IsSupply(err):
		return http.StatusBadGateway, "supply_failed"
	case game.IsValidation(err):
		return http.StatusBadRequest, "invalid_input"
	case game.IsState(err):
		return http.StatusConflict, "game_over"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeGameError(w http.ResponseWriter, err error) {
	code, errCode := classify(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, code, errCode, msg)
}
