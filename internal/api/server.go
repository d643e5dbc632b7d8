// Package api provides the HTTP parsing/query service for ostexplorer.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/varunsharma/ostexplorer/internal/config"
	"github.com/varunsharma/ostexplorer/internal/model"
)

// ArchiveParser decodes an archive file into email records. A nil parser
// means the capability is unavailable and upload/browse answer 501.
type ArchiveParser interface {
	Parse(ctx context.Context, path string) ([]model.Email, error)
}

// Server represents the HTTP service.
type Server struct {
	cfg    *config.Config
	parser ArchiveParser
	logger *slog.Logger
	router chi.Router
	server *http.Server

	// Parsed emails from the most recent ingestion, held in memory for
	// search-emails. Replaced wholesale, never appended to.
	mu    sync.Mutex
	cache []model.Email
}

// NewServer creates a new service. parser may be nil.
func NewServer(cfg *config.Config, parser ArchiveParser, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		parser: parser,
		logger: logger,
	}
	s.router = s.setupRouter()
	return s
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.loggerMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(120 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Post("/upload-ost", s.handleUpload)
		r.Post("/browse-file", s.handleBrowse)
		r.Post("/search-emails", s.handleSearch)
		r.Get("/load-sample-data", s.handleSampleData)
	})

	return r
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	bindAddr := s.cfg.Server.BindAddr
	if bindAddr == "" {
		bindAddr = "127.0.0.1"
	}
	addr := net.JoinHostPort(bindAddr, strconv.Itoa(s.cfg.Server.APIPort))

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting parse service", "addr", addr, "parser_available", s.parser != nil)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down parse service")
	return s.server.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// setCache replaces the in-memory email set.
func (s *Server) setCache(emails []model.Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = emails
}

// getCache returns the current in-memory email set.
func (s *Server) getCache() []model.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache
}

// loggerMiddleware logs HTTP requests.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
