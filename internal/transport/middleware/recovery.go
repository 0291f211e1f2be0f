package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware provides panic recovery with detailed logging. Panic
// details and stack traces reach the response only outside production.
func RecoveryMiddleware(logger *slog.Logger, environment string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := string(debug.Stack())
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", stack)

					body := map[string]interface{}{
						"error": map[string]interface{}{
							"message": "Internal server error",
							"status":  http.StatusInternalServerError,
						},
					}
					if environment != "production" {
						body["panic"] = err
						body["stack"] = stack
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
