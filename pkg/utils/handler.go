package utils

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error
// instead of writing the error response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to net/http. Any returned error is logged and rendered as
// {"message": ...} with the status it carries, 500 when it carries none.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		httpErr := errs.From(err)
		status := errs.StatusOf(httpErr)
		logger := zerolog.Ctx(r.Context())

		e := logger.Warn()
		if status >= http.StatusInternalServerError {
			e = logger.Error()
		}
		e.Err(err).
			Int("status", status).
			Str("error_code", httpErr.Code).
			Msg("request failed")

		RespondError(w, httpErr)
	}
}
