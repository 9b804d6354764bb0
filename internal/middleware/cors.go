package middleware

import (
	"net/http"

	"github.com/platewise/staffhub-backend/internal/config"
	"github.com/go-chi/cors"
)

// NewCORSHandler builds the CORS middleware from config. Content-Disposition
// stays in the exposed headers so browsers can read the report export
// filename.
func NewCORSHandler(cfg *config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
