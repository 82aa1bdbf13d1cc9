package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/afterglow3292/portops/internal/api/respond"
)

// Middleware intercepts panics from downstream handlers, logs the stack, and
// answers with an opaque INTERNAL error body. Details never reach the caller.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("remote", r.RemoteAddr).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteJSON(w, http.StatusInternalServerError, respond.ErrorResponse{
					Kind:    "INTERNAL",
					Error:   http.StatusText(http.StatusInternalServerError),
					Code:    http.StatusInternalServerError,
					Message: "internal error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
