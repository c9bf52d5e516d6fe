// Package adminserver exposes health, metrics and read-only form views over
// HTTP.
package adminserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specialistvlad/formgrid/internal/form"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
)

// Server wraps the chi router and the form registry it reports on.
type Server struct {
	router     *chi.Mux
	forms      *form.Registry
	logger     *slog.Logger
	addr       string
	httpServer *http.Server
	listener   net.Listener
}

// New configures a server for addr, e.g. ":8080" or "127.0.0.1:0".
func New(addr string, forms *form.Registry, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		forms:  forms,
		logger: logger,
		addr:   addr,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(metricsMiddleware)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Get("/{name}", s.handleGetForm)
		r.Get("/{name}/fields/*", s.handleGetField)
	})
}

// Router returns the chi router.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the bound address once Start succeeded, the configured one
// before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	go func() {
		s.logger.Info("🩺 Admin server starting", "address", fmt.Sprintf("http://%s/health", ln.Addr()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Admin server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the server, waiting at most shutdownTimeout for in-flight
// requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		s.logger.Debug("Admin server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.logger.Info("🩺 Shutting down admin server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Admin server shutdown failed", "error", err)
		return err
	}
	s.logger.Debug("Admin server shut down gracefully.")
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("Admin request served.",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
