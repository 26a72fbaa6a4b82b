package middleware

import (
	"net/http"
	"slices"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// corsPreflightCache is how long browsers may reuse a preflight answer.
const corsPreflightCache = 10 * time.Minute

// NewCORS lets browser clients from allowedOrigins call the API.
// The request ID header is accepted and exposed so a client can correlate log lines.
// A "*" entry allows any origin; credentials are then never allowed.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", chimw.RequestIDHeader},
		ExposedHeaders:   []string{chimw.RequestIDHeader},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		MaxAge:           int(corsPreflightCache.Seconds()),
	})
}
