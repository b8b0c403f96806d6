package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"moleculehub/internal/api"
	"moleculehub/internal/middleware"
	"moleculehub/internal/ui"
)

// NewRouter builds the HTTP router: the JSON API under /v1, the HTML pages
// under /ui and an unauthenticated /healthz probe.
func (a *App) NewRouter() http.Handler {
	cfg := a.Cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.PrincipalHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui", http.StatusFound)
	})

	apiHandler := api.NewHandler(
		a.Services.Import, a.Services.Molecule, a.Services.Audit,
		a.Logger.With("component", "api"), cfg.Import.MaxUploadBytes,
	)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Principal)
		apiHandler.Routes(r)
	})

	uiHandler := ui.NewHandler(a.Services.Import, a.Services.Molecule, cfg.IsProduction(), cfg.Import.MaxUploadBytes)
	r.Route("/ui", func(r chi.Router) {
		r.Use(middleware.Principal)
		ui.MountRoutes(r, uiHandler)
	})

	return r
}
