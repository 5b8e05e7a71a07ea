package middleware

import (
	"log/slog"
	"net/http"

	"github.com/portcullis-auth/portcullis/internal/api/response"
)

// Recovery is middleware that recovers from panics and returns a generic
// failure body; internals are logged, never surfaced to the caller.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered", "error", err, "requestId", GetRequestID(r.Context()))
				response.FailEmpty(w, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
