// Package api serves the directory over JSON/HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"llc-directory/internal/common/logger"
	"llc-directory/internal/directory"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	AppName    string
	AppVersion string
	// Checks run on /ready, keyed by dependency name.
	Checks map[string]ReadinessCheck
}

type Server struct {
	directory *directory.Service
	opts      Options
	logger    logger.Logger
	started   time.Time
}

func NewServer(svc *directory.Service, opts Options, log logger.Logger) *Server {
	return &Server{
		directory: svc,
		opts:      opts,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
		started:   time.Now(),
	}
}

// Routes returns the HTTP handler with every route and middleware mounted.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/services", s.handleServices)
	mux.HandleFunc("GET /api/top10", s.handleTop10)
	mux.HandleFunc("GET /api/states", s.handleStates)
	mux.HandleFunc("GET /api/data-summary", s.handleDataSummary)
	mux.HandleFunc("GET /api/service/{name}", s.handleProviderPage)
	mux.HandleFunc("GET /api/service/{name}/states", s.handleProviderStates)
	mux.HandleFunc("GET /api/service/{name}/{state}", s.handleProviderStatePage)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/stats/top", s.handleTopValues)
	mux.HandleFunc("GET /api/stats/states", s.handleStateCounts)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.requestID(s.recoverer(s.instrument(mux)))
}
