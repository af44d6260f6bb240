// Package api provides the HTTP server and handlers for tublog.
//
// Every page is a huma operation on a chi router. Pages answer with JSON
// page documents; successful form submissions answer 303 See Other with a
// Location header, the way the browser flow redirects after a POST.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tublog/tublog-server/internal/config"
	"github.com/tublog/tublog-server/internal/logger"
	"github.com/tublog/tublog-server/internal/ratelimit"
	"github.com/tublog/tublog-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	limiter  *ratelimit.KeyedRateLimiter
	config   *config.Config
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// A nil limiter disables login and signup throttling.
func NewServer(st store.Store, services *Services, limiter *ratelimit.KeyedRateLimiter, cfg *config.Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		store:    st,
		services: services,
		limiter:  limiter,
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   log.Logger,
	}

	s.setupMiddleware(log)

	humaConfig := huma.DefaultConfig(cfg.App.SiteName, "1.0.0")
	humaConfig.Info.Description = "Blog posts, taxonomies, profiles and search."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
		"cookie": {
			Type: "apiKey",
			In:   "cookie",
			Name: SessionCookieName,
		},
	}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(log *logger.Logger) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(log.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "Retry-After"},
		AllowCredentials: !allowsAnyOrigin(s.config.Server.CORSOrigins),
		MaxAge:           300,
	}))
	s.router.Use(clientMiddleware)
	s.router.Use(authMiddleware(s.services.Auth))
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerHomeRoutes()
	s.registerAuthRoutes()
	s.registerPostRoutes()
	s.registerTaxonomyRoutes()
	s.registerSearchRoutes()
	s.registerProfileRoutes()
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
