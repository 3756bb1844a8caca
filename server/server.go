// Package server exposes the simulator over a JSON HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpusched/sim"
	"github.com/inference-sim/cpusched/store"
)

// maxBodyBytes caps request bodies; process sets are small.
const maxBodyBytes = 1 << 20

// Server is the simulator REST API server.
type Server struct {
	router    chi.Router
	logger    *logrus.Entry
	engine    sim.EngineConfig
	store     store.Store // optional; nil disables run history
	startTime time.Time
}

// New creates a new Server with all routes registered.
// engine supplies the defaults for requests that omit quantum or max_ticks.
// st may be nil, in which case runs are not persisted and the /runs
// endpoints answer 503.
func New(engine sim.EngineConfig, st store.Store) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logrus.WithField("component", "server"),
		engine:    engine,
		store:     st,
		startTime: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/policies", s.handleListPolicies)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/compare", s.handleCompare)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
		})
	})
}
