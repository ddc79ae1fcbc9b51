package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
)

// RespondJSON writes payload as JSON with the given status.
//
// A 204 status still gets the payload written; net/http discards it on a
// live connection, which is not treated as a failure.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		log.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// RespondError writes {"message": ...} with the status carried by err.
func RespondError(w http.ResponseWriter, err error) {
	httpErr := errs.From(err)
	if httpErr == nil {
		httpErr = errs.NewInternalServerError("")
	}
	RespondJSON(w, errs.StatusOf(httpErr), httpErr)
}

// RespondMessage writes {"message": message} with the given status.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"message": message})
}
