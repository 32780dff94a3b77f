package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/httputil"
)

// Recovery recovers from panics and returns a 500 error instead of crashing.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					httputil.WriteMessage(w, http.StatusInternalServerError, "an internal error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
