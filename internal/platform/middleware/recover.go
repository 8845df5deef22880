package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "lookalike/pkg/domain-errors"
	"lookalike/pkg/platform/httputil"
)

// Recover turns a handler panic into a logged internal error response.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "handler panic",
					"request_id", GetRequestID(r.Context()),
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "unexpected failure"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
