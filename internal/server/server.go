package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	router http.Handler
}

// New creates a new Server instance with all dependencies
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	router, err := SetupRouter(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}, nil
}

// HTTPServer creates and configures the HTTP server. The write timeout
// leaves room for the create-then-list round trip to the ticket API.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*s.cfg.API.Timeout + 10*time.Second,
	}
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}
