package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the configured origins. Credentials are only allowed for explicit
// origins since browsers reject them with a wildcard.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}

	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
	if wildcard {
		opts.AllowedOrigins = []string{"*"}
	}

	return cors.New(opts).Handler
}
