// Package api exposes the contradiction pipeline over HTTP. Reading run
// output is public; curation endpoints require a reviewer token.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sspedowski/justice-document-pip/internal/auth"
	"github.com/sspedowski/justice-document-pip/internal/contradiction"
	"github.com/sspedowski/justice-document-pip/internal/rules"
	"github.com/sspedowski/justice-document-pip/internal/storage"
)

// Config holds server construction options.
type Config struct {
	DB             *sql.DB
	Logger         *zap.Logger
	JWTSecret      string
	SalientParties []string
	RateLimitRPS   float64
	RateLimitBurst int
	RuleTimeout    time.Duration
	MaxConcurrent  int
}

type Server struct {
	router *chi.Mux
	logger *zap.Logger

	authService   auth.Service
	documentRepo  storage.DocumentRepository
	statementRepo storage.StatementRepository
	recordRepo    storage.ContradictionRepository

	pipeline *contradiction.Pipeline
	scorer   *contradiction.Scorer
}

// NewServer wires the repositories, auth service, and pipeline onto a chi
// router.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authConfig := auth.DefaultConfig()
	if cfg.JWTSecret != "" {
		authConfig.SecretKey = cfg.JWTSecret
	}
	authService := auth.NewJWTService(authConfig, auth.NewPostgresRepository(cfg.DB))

	scorer := contradiction.NewScorer(contradiction.DefaultMetaTable(), cfg.SalientParties)

	pipeConfig := contradiction.DefaultConfig()
	pipeConfig.Logger = logger
	if cfg.RuleTimeout > 0 {
		pipeConfig.RuleTimeout = cfg.RuleTimeout
	}
	if cfg.MaxConcurrent > 0 {
		pipeConfig.MaxConcurrent = cfg.MaxConcurrent
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if cfg.RateLimitRPS > 0 {
		r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:        r,
		logger:        logger,
		authService:   authService,
		documentRepo:  storage.NewPostgresDocumentRepository(cfg.DB),
		statementRepo: storage.NewPostgresStatementRepository(cfg.DB),
		recordRepo:    storage.NewPostgresContradictionRepository(cfg.DB),
		pipeline:      contradiction.NewPipeline(rules.DefaultRegistry(), scorer, pipeConfig),
		scorer:        scorer,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	authHandlers := auth.NewHandlers(s.authService)

	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/login", authHandlers.Login)
		r.With(auth.Middleware(s.authService)).Get("/auth/me", authHandlers.Me)

		r.Route("/cases/{caseID}", func(r chi.Router) {
			// Ingest
			r.Post("/documents", s.handleUploadDocument)
			r.Get("/documents", s.handleListDocuments)
			r.Post("/statements", s.handleLoadStatements)
			r.Get("/statements", s.handleListStatements)

			// Analysis
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/contradictions", s.handleListContradictions)
			r.Get("/summary", s.handleSummary)
			r.Get("/annotations", s.handleListAnnotations)

			// Curation (reviewer token required)
			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(s.authService))
				r.Post("/contradictions/{contradictionID}/suppress", s.handleSuppress)
				r.Delete("/contradictions/{contradictionID}/suppress", s.handleUnsuppress)
				r.Put("/contradictions/{contradictionID}/annotation", s.handleAnnotate)
			})
		})
	})
}

// requestLogger logs each request with zap instead of chi's stdlib logger.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for testing and for servers that manage their
// own listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
