package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/config"
	"github.com/bindlehq/bindle/pkg/httputil"
	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/resolver"
)

// Resolver resolves a set of workbooks into pinned requirements.
type Resolver interface {
	Resolve(ctx context.Context, workbooks []string, primaryBranch, fallbackBranch string) (*resolver.Resolution, error)
}

// ReadyCheck reports whether a dependency of the service is usable.
type ReadyCheck func() error

// Server represents the resolution API server
type Server struct {
	resolver Resolver
	router   *mux.Router
	cfg      config.ServerConfig
	branches config.BranchesConfig
	log      *logrus.Logger
	metrics  *observability.Metrics
	checks   map[string]ReadyCheck
}

// NewServer creates a new resolution API server
func NewServer(res Resolver, cfg config.ServerConfig, branches config.BranchesConfig, log *logrus.Logger, metrics *observability.Metrics) *Server {
	if log == nil {
		log = logrus.New()
	}

	s := &Server{
		resolver: res,
		router:   mux.NewRouter(),
		cfg:      cfg,
		branches: branches,
		log:      log,
		metrics:  metrics,
		checks:   make(map[string]ReadyCheck),
	}

	s.setupRoutes()
	return s
}

// RegisterReadyCheck adds a named dependency check to the readiness probe.
func (s *Server) RegisterReadyCheck(name string, check ReadyCheck) {
	s.checks[name] = check
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.Use(httputil.RequestIDMiddleware)
	s.router.Use(httputil.RecoveryMiddleware(s.log))
	s.router.Use(httputil.LoggingMiddleware(s.log))
	if s.metrics != nil {
		s.router.Use(httputil.MetricsMiddleware(s.metrics))
	}

	// Resolution routes
	s.router.HandleFunc("/api/v1/resolve", s.resolve).Methods("POST")

	// Probe routes
	s.router.HandleFunc("/healthz", s.healthz).Methods("GET")
	s.router.HandleFunc("/readyz", s.readyz).Methods("GET")

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
