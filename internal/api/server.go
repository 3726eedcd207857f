package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agrichain/agrichain/internal/domain"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg domain.ServerConfig, svc Services) *Server {
	handler := NewHandler(svc)
	router := chi.NewRouter()

	router.Use(CORSMiddleware)
	router.Use(RecoverMiddleware(handler.logger))
	router.Use(TracingMiddleware)
	router.Use(LoggingMiddleware(handler.logger))
	router.Use(middleware.RealIP)
	router.Use(middleware.Compress(5))

	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	// Reference data
	router.Get("/crops", handler.ListCrops)
	router.Get("/storage-types", handler.ListStorageTypes)
	router.Get("/micronutrients/{district}", handler.Micronutrients)

	// Individual assessments
	router.Post("/spoilage", handler.Spoilage)
	router.Post("/bypass-score", handler.BypassScore)
	router.Post("/arrival-prediction", handler.ArrivalPrediction)
	router.Get("/price-trend", handler.PriceTrend)
	router.Get("/best-markets", handler.BestMarkets)
	router.Post("/explain", handler.Explain)

	// Composed insights
	router.Post("/insights", handler.ComposeInsight)
	router.Post("/insights/async", handler.ComposeInsightAsync)
	router.Get("/insights/{id}", handler.GetInsight)

	// Market observations
	router.Post("/arrivals", handler.SaveArrivals)

	// Advisory rule management
	router.Get("/advisory-rules", handler.ListAdvisoryRules)
	router.Post("/advisory-rules", handler.CreateAdvisoryRule)
	router.Post("/advisory-rules/reload", handler.ReloadAdvisoryRules)
	router.Delete("/advisory-rules/{id}", handler.DeleteAdvisoryRule)

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
