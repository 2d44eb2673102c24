// Package server exposes the dashboard state over a JSON HTTP API.
//
// Every mutating request is applied through the dashboard reducer and the
// resulting state is persisted to the configured storage backend. Storage
// failures are logged and do not fail the request; the in-memory state
// stays authoritative until the next successful save.
//
// Routes:
//
//	GET    /api/widgets
//	GET    /api/state
//	PUT    /api/state
//	POST   /api/dashboards
//	DELETE /api/dashboards/{id}
//	POST   /api/dashboards/{id}/activate
//	PATCH  /api/dashboards/{id}/settings
//	POST   /api/dashboards/{id}/widgets
//	DELETE /api/dashboards/{id}/widgets/{widgetID}
//	PATCH  /api/dashboards/{id}/widgets/{widgetID}
//	PUT    /api/dashboards/{id}/layouts
//	GET    /api/dashboards/{id}/share
//	GET    /api/share/{token}
//	POST   /api/share/{token}/load
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	"github.com/matzehuels/situationroom/pkg/observability"
	"github.com/matzehuels/situationroom/pkg/registry"
	"github.com/matzehuels/situationroom/pkg/share"
	"github.com/matzehuels/situationroom/pkg/storage"
)

// Server serves the dashboard API.
type Server struct {
	registry *registry.Registry
	store    *dashboard.Store
	storage  storage.Store
	codec    *share.Codec
	baseURL  string
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBaseURL sets the base URL used to build share links.
func WithBaseURL(u string) Option {
	return func(s *Server) { s.baseURL = u }
}

// New creates a server over store that persists to st.
func New(reg *registry.Registry, store *dashboard.Store, st storage.Store, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		store:    store,
		storage:  st,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codec = share.New(reg, share.WithLogger(s.logger))
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/widgets", s.listWidgets)

		r.Get("/state", s.getState)
		r.Put("/state", s.putState)

		r.Route("/dashboards", func(r chi.Router) {
			r.Post("/", s.createDashboard)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.deleteDashboard)
				r.Post("/activate", s.activateDashboard)
				r.Patch("/settings", s.updateSettings)
				r.Put("/layouts", s.updateLayouts)
				r.Get("/share", s.shareDashboard)

				r.Route("/widgets", func(r chi.Router) {
					r.Post("/", s.addWidget)
					r.Delete("/{widgetID}", s.removeWidget)
					r.Patch("/{widgetID}", s.updateWidget)
				})
			})
		})

		r.Route("/share/{token}", func(r chi.Router) {
			r.Get("/", s.decodeShare)
			r.Post("/load", s.loadShare)
		})
	})
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// dispatch applies a and persists the result.
func (s *Server) dispatch(ctx context.Context, a dashboard.Action) (dashboard.State, error) {
	st, err := s.store.Dispatch(a)
	if err != nil {
		return st, err
	}
	s.persist(ctx, st)
	return st, nil
}

func (s *Server) persist(ctx context.Context, st dashboard.State) {
	if s.storage == nil {
		return
	}
	start := time.Now()
	err := s.storage.Save(ctx, st)
	observability.Storage().OnSave(ctx, storage.Name(s.storage), time.Since(start), err)
	if err != nil {
		s.logger.Error("failed to persist state", "error", err)
	}
}
