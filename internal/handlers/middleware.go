package handlers

import (
	"net/http"

	"github.com/hivelabs/hivesync/internal/metrics"
	"github.com/hivelabs/hivesync/internal/services"
)

// RequireSecret rejects requests that fail authentication before any body
// parsing or store access happens. The secret value itself is never logged.
func RequireSecret(auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Authenticate(r); err != nil {
				metrics.AuthFailuresTotal.Inc()
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
