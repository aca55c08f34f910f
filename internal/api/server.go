// Package api provides the HTTP API server and handlers for QuestLog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/questlogapp/questlog-server/internal/http/response"
	"github.com/questlogapp/questlog-server/internal/service"
	"github.com/questlogapp/questlog-server/internal/store"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Library        *service.LibraryService
	Recommendation *service.RecommendationService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("QuestLog API", "1.0.0")
	humaConfig.DocsPath = "/api/v1/docs"

	s := &Server{
		store:    st,
		services: services,
		router:   router,
		logger:   logger,
	}

	s.setupMiddleware()

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	// Health stays a plain chi handler so it works even if the huma
	// layer is misconfigured.
	router.Get("/health", s.handleHealthCheck)

	s.registerProfileRoutes()
	s.registerLibraryRoutes()
	s.registerGameRoutes()
	s.registerRecommendationRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
