// Package api serves the seating engine over HTTP for the browser editor.
//
// Handlers are thin: they decode the request, call [planner.Service] as the
// bearer token's user, and map coded errors to statuses (see [StatusOf]).
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seatplan/pkg/observability"
	"github.com/matzehuels/seatplan/pkg/planner"
)

// Server is the HTTP API.
type Server struct {
	planner *planner.Service
	auth    *Authenticator
	logger  *log.Logger
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds the router.
func New(svc *planner.Service, auth *Authenticator, opts ...Option) *Server {
	s := &Server{planner: svc, auth: auth}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.accessLog)
	r.Use(s.auth.Middleware)

	r.Get("/health", s.health)

	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.listMyLayouts)
		r.Post("/", s.createLayout)
		r.Get("/public", s.listPublicLayouts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getLayout)
			r.Put("/", s.replaceLayout)
			r.Patch("/", s.patchLayout)
			r.Delete("/", s.deleteLayout)
			r.Post("/duplicate", s.duplicateLayout)
			r.Get("/svg", s.layoutSVG)
		})
	})

	r.Route("/weddings", func(r chi.Router) {
		r.Post("/", s.createWedding)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getWedding)
			r.Put("/layout", s.selectLayout)
			r.Delete("/seats", s.clearSeats)
			r.Put("/seats/{seatId}", s.assignSeat)
			r.Delete("/seats/{seatId}", s.unassignSeat)
		})
	})
	return r
}

// accessLog logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status,
			"duration", elapsed.Round(time.Microsecond), "request_id", chimiddleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
