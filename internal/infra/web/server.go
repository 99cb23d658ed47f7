// Package web exposes the analyzer over HTTP.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/infra/metrics"
	"financial-document-analyzer/internal/usecase"
)

const analyzeRoute = "analyze"

type Server struct {
	analysisUC    usecase.AnalysisUseCase
	maxUploadSize int64
	limiter       Limiter
	limiterKey    KeyFunc
	log           *zerolog.Logger
}

type Option func(*Server)

// WithRateLimit guards /analyze with l.
func WithRateLimit(l Limiter, key KeyFunc) Option {
	return func(s *Server) {
		s.limiter = l
		s.limiterKey = key
	}
}

func NewServer(analysisUC usecase.AnalysisUseCase, maxUploadSize int64, logger *zerolog.Logger, opts ...Option) *Server {
	l := logger.With().Str("component", "web").Logger()
	s := &Server{
		analysisUC:    analysisUC,
		maxUploadSize: maxUploadSize,
		log:           &l,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))

	r.Get("/", rootHandler())
	r.Get("/health", healthHandler())
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimit(s.limiter, analyzeRoute, s.limiterKey, s.log))
		}
		r.Post("/analyze", analyzeHandler(s.analysisUC, s.maxUploadSize, s.log))
	})
	return r
}
