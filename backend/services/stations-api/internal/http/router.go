package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"evdash/backend/libs/httpx"
	"evdash/backend/services/stations-api/internal/http/handlers"
)

// Routes aggregates handlers and guards for the HTTP server.
type Routes struct {
	Auth         *handlers.AuthHandler
	Stations     *handlers.StationsHandler
	Health       *handlers.HealthHandler
	RequireAdmin func(http.Handler) http.Handler
}

// NewRouter wires all HTTP routes.
func NewRouter(routes Routes) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Not Found", "The requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "The method is not allowed for the requested URL")
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", routes.Auth.Register)
		r.Post("/login", routes.Auth.Login)
		r.Get("/verify", routes.Auth.Verify)
		r.Get("/profile", routes.Auth.Profile)
		r.Get("/permissions", routes.Auth.Permissions)
	})

	stations := func(r chi.Router) {
		r.Get("/", routes.Stations.List)
		r.Get("/stats", routes.Stations.Stats)
		r.Get("/by-location", routes.Stations.ByLocation)
		r.Get("/by-status/{status}", routes.Stations.ByStatus)
		r.Get("/by-type/{type}", routes.Stations.ByType)
		r.Get("/{id}", routes.Stations.Get)

		r.Group(func(r chi.Router) {
			r.Use(routes.RequireAdmin)
			r.Post("/", routes.Stations.Create)
			r.Put("/{id}", routes.Stations.Update)
			r.Delete("/{id}", routes.Stations.Delete)
		})
	}
	r.Route("/cargas", stations)
	r.Route("/api/cargas", stations)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", routes.Health.Check)
		r.Get("/check", routes.Health.Check)
		r.Get("/live", routes.Health.Live)
		r.Get("/ready", routes.Health.Ready)
		r.Get("/detailed", routes.Health.Detailed)
	})

	return r
}
