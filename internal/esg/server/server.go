// Package server exposes the scoring engine and assessment history over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/build-flow-labs/esgrate/internal/esg/achievements"
	"github.com/build-flow-labs/esgrate/internal/esg/advisor"
	"github.com/build-flow-labs/esgrate/internal/esg/dashboard"
	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/internal/esg/scorecard"
	"github.com/build-flow-labs/esgrate/internal/platform/config"
	"github.com/build-flow-labs/esgrate/internal/platform/logger"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr      string
	RateLimit config.RateLimitConfig
}

// Deps are the services behind the API.
type Deps struct {
	Store        history.Store
	Achievements *achievements.Engine
	Advisor      advisor.Advisor
	Scorecard    scorecard.Options
	Dashboard    *dashboard.Dashboard // optional HTML view mounted at /ui
}

// Server is the esgrate HTTP API.
type Server struct {
	cfg     Config
	deps    Deps
	log     *logger.Logger
	limiter *RateLimiter
	router  chi.Router
	now     func() time.Time

	requests    atomic.Int64
	scored      atomic.Int64
	stored      atomic.Int64
	lastScoreAt atomic.Value // time.Time
}

// New builds the router. A zero RateLimit.RPS disables rate limiting.
func New(cfg Config, deps Deps, log *logger.Logger) *Server {
	if deps.Advisor == nil {
		deps.Advisor = advisor.Static{}
	}
	s := &Server{
		cfg:  cfg,
		deps: deps,
		log:  log.With("component", "server"),
		now:  time.Now,
	}
	if cfg.RateLimit.RPS > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	if s.deps.Dashboard != nil {
		r.Mount("/ui", s.deps.Dashboard.Routes())
	}

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Post("/calculate-score", s.handleCalculateScore)
		r.Post("/improvement-suggestions", s.handleSuggestions)
		r.Post("/carbon-calculator", s.handleCarbon)
		r.Post("/gri-assessment", s.handleGRI)
		r.Post("/screening", s.handleScreening)
		r.Post("/activities/classify", s.handleClassify)
		r.Post("/questionnaire/rate", s.handleQuestionnaire)
		r.Post("/feedback", s.handleFeedback)
		r.Post("/scorecard.png", s.handleScorecard)

		r.Post("/assessments", s.handleSubmit)
		r.Route("/companies/{company}", func(r chi.Router) {
			r.Get("/assessments", s.handleList)
			r.Get("/assessments/{id}", s.handleGet)
			r.Get("/achievements", s.handleAchievements)
		})
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	if s.limiter != nil {
		g.Go(func() error {
			s.limiter.Run(ctx)
			return nil
		})
	}
	g.Go(func() error {
		s.log.Info("listener starting", "addr", s.cfg.Addr, "rate_limit_rps", s.cfg.RateLimit.RPS)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down listener")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) markScored() {
	s.scored.Add(1)
	s.lastScoreAt.Store(s.now())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"requests":           s.requests.Load(),
		"assessments_scored": s.scored.Load(),
		"assessments_stored": s.stored.Load(),
	}
	if t, ok := s.lastScoreAt.Load().(time.Time); ok {
		status["last_assessment_at"] = t.Format(time.RFC3339)
	}
	if s.limiter != nil {
		status["rate_limited_clients"] = s.limiter.size()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}
