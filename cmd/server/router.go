package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/logspool/logspool/internal/api"
	apiMiddleware "github.com/logspool/logspool/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.jwtService,
		app.apiKeys,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	ingestHandler := api.NewIngestHandler(app.spool)
	spoolHandler := api.NewSpoolHandler(app.spool, app.worker)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Token exchange (public)
		r.Post("/auth/token", authHandler.Token)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/logs", ingestHandler.Ingest)

			// History is only served when the database sink is configured.
			if app.entryStore != nil {
				historyHandler := api.NewHistoryHandler(app.entryStore)
				r.Get("/logs/recent", historyHandler.Recent)
			}

			r.Post("/spool/flush", spoolHandler.Flush)
			r.Post("/spool/dump", spoolHandler.Dump)
			r.Get("/spool/stats", spoolHandler.Stats)
		})
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
