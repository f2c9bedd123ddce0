// Package server exposes the chart pipeline and branch administration over
// HTTP. Handlers are thin: they decode the request, call the chart service,
// and encode the response; authorization and caching live in the service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campusgrid/orgcanvas/pkg/chart"
	"github.com/campusgrid/orgcanvas/pkg/config"
)

// SubjectHeader carries the authenticated subject set by the fronting proxy.
// Requests without it are treated as the anonymous subject, which the policy
// backend denies unless explicitly granted.
const SubjectHeader = "X-Subject"

// Server wires the chart service into an HTTP API.
type Server struct {
	svc    *chart.Service
	logger *log.Logger
	http   *http.Server
}

// New creates a server around the given service.
func New(svc *chart.Service, cfg config.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{svc: svc, logger: logger}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
	return s
}

// Router builds the route table. Exposed separately so tests can drive the
// handlers through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/orgs/{companyID}", func(r chi.Router) {
		r.Get("/tree", s.handleTree)
		r.Get("/chart.svg", s.handleChartSVG)
		r.Get("/chart.dot", s.handleChartDOT)
		r.Get("/nodes/{nodeID}/children", s.handleChildren)

		r.Route("/branches", func(r chi.Router) {
			r.Post("/", s.handleCreateBranch)
			r.Put("/{branchID}", s.handleUpdateBranch)
			r.Delete("/{branchID}", s.handleDeleteBranch)
		})
	})

	return r
}

// ListenAndServe blocks until the context is canceled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// subject extracts the authorization subject from the request.
func subject(r *http.Request) string {
	return r.Header.Get(SubjectHeader)
}
