// internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"orion-enrichment/internal/common/config"
	"orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/models"
	"orion-enrichment/pkg/registry"
)

// ItineraryEnricher is the orchestrator the HTTP layer hands validated
// itineraries to.
type ItineraryEnricher interface {
	Execute(ctx context.Context, itinerary *models.BaseItinerary) (*models.EnrichedItinerary, error)
}

type Server struct {
	config     *config.ServerConfig
	enricher   ItineraryEnricher
	schema     map[string]interface{}
	logger     logger.Logger
	errors     *errors.ErrorHandler
	httpServer *http.Server
}

func New(cfg *config.ServerConfig, enricher ItineraryEnricher, log logger.Logger) *Server {
	s := &Server{
		config:   cfg,
		enricher: enricher,
		schema:   registry.ItinerarySchema,
		logger:   log,
		errors:   errors.NewErrorHandler(log),
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	return s
}

// Handler builds the full middleware chain: logging, security headers, CORS,
// then the router. Exposed so tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", s.handleIndex)
	router.POST("/enrich", s.handleEnrich)

	allowedOrigins := s.config.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	return s.loggingMiddleware(securityHeaders(corsHandler))
}

func (s *Server) Start() error {
	s.logger.Info("server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
