package router

import (
	"tamapet-data-api/internal/handler"
	"tamapet-data-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	HealthHandler *handler.HealthHandler
	PetHandler    *handler.PetHandler
	ShopHandler   *handler.ShopHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unified status endpoint for bot monitoring
	if cfg.HealthHandler != nil {
		r.Get("/api/status", cfg.HealthHandler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.HealthHandler != nil {
			r.Get("/health", cfg.HealthHandler.Health)
			r.Get("/ready", cfg.HealthHandler.Ready)
		}

		if cfg.PetHandler != nil {
			r.Route("/pets", func(r chi.Router) {
				// fixed route first so chi doesn't treat "stale" as an id
				r.Get("/stale", cfg.PetHandler.Stale)

				r.Route("/{discord_id}", func(r chi.Router) {
					r.Post("/", cfg.PetHandler.Create)
					r.Get("/", cfg.PetHandler.Get)
					r.Patch("/", cfg.PetHandler.Update)
					r.Post("/items/{item}/adjust", cfg.PetHandler.AdjustItem)
					r.Post("/games", cfg.PetHandler.RecordGame)
					r.Get("/games", cfg.PetHandler.ListGames)
				})
			})
		}

		if cfg.ShopHandler != nil {
			r.Route("/shop", func(r chi.Router) {
				r.Get("/items", cfg.ShopHandler.ListItems)
				r.Post("/{discord_id}/purchase", cfg.ShopHandler.Purchase)
			})
		}
	})

	return r
}
