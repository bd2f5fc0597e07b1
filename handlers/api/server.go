package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/nijaru/yt-research/config"
	"github.com/nijaru/yt-research/middleware"
	"github.com/nijaru/yt-research/services/extract"
	"github.com/nijaru/yt-research/services/history"
	"github.com/nijaru/yt-research/validation"
	"github.com/sirupsen/logrus"
)

type Server struct {
	extract   *ExtractHandler
	history   *HistoryHandler
	config    *config.Config
	logger    *logrus.Logger
	server    *http.Server
	startTime time.Time
}

type ServerOption func(*Server)

// NewServer builds the API server. Limiter construction is the only thing
// that can fail.
func NewServer(cfg *config.Config, opts ...ServerOption) (*Server, error) {
	s := &Server{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	handler, err := s.routes()
	if err != nil {
		return nil, err
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

func WithServices(extractSvc extract.Service, historySvc history.Service) ServerOption {
	return func(s *Server) {
		validator := validation.NewValidator(s.config)
		s.extract = NewExtractHandler(extractSvc, validator)
		if historySvc != nil {
			s.history = NewHistoryHandler(historySvc)
		}
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() (http.Handler, error) {
	mux := http.NewServeMux()

	if err := s.addV1Routes(mux); err != nil {
		return nil, err
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.middleware(mux), nil
}

func (s *Server) addV1Routes(mux *http.ServeMux) error {
	const v1Prefix = "/api/v1"

	extractLimit, err := s.limiter(s.config.RateLimit)
	if err != nil {
		return err
	}
	historyLimit, err := s.limiter(s.config.HistoryRateLimit)
	if err != nil {
		return err
	}

	if s.extract != nil {
		mux.Handle("POST "+v1Prefix+"/extract", extractLimit(http.HandlerFunc(s.extract.HandleExtract)))
	}

	if s.history != nil {
		mux.Handle("GET "+v1Prefix+"/history", historyLimit(http.HandlerFunc(s.history.HandleList)))
		mux.Handle("POST "+v1Prefix+"/history", historyLimit(http.HandlerFunc(s.history.HandleSave)))
		mux.Handle("GET "+v1Prefix+"/history/{id}", historyLimit(http.HandlerFunc(s.history.HandleGet)))
	}

	return nil
}

// limiter returns a per-caller rate limiting wrapper, or a pass-through
// when limiting is off.
func (s *Server) limiter(cfg config.RateLimitConfig) (func(http.Handler) http.Handler, error) {
	if !s.config.Middleware.EnableRateLimit || !cfg.Enabled {
		return func(h http.Handler) http.Handler { return h }, nil
	}

	rl, err := middleware.NewRateLimiter(cfg)
	if err != nil {
		return nil, err
	}
	return rl.Middleware, nil
}

func (s *Server) middleware(handler http.Handler) http.Handler {
	mw := s.config.Middleware
	var middlewares []func(http.Handler) http.Handler

	if mw.EnableRecover {
		middlewares = append(middlewares, middleware.Recovery(s.logger))
	}
	if mw.EnableRequestID {
		middlewares = append(middlewares, middleware.RequestID())
	}
	if mw.EnableLogger {
		middlewares = append(middlewares, middleware.Logging(s.logger))
	}
	if mw.EnableCORS {
		middlewares = append(middlewares, middleware.CORS(s.config.CORS))
	}
	if mw.EnableTimeout && s.config.RequestTimeout > 0 {
		middlewares = append(middlewares, middleware.Timeout(s.config.RequestTimeout))
	}

	return middleware.Chain(handler, middlewares...)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":            "ok",
		"timestamp":         time.Now().UTC(),
		"version":           s.config.Version,
		"uptime":            time.Since(s.startTime).String(),
		"api_key_available": s.config.YouTube.APIKey != "",
		"history_enabled":   s.history != nil,
	}

	if s.config.Debug {
		status["debug"] = true
		status["goroutines"] = runtime.NumGoroutine()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		status["memory"] = map[string]interface{}{
			"allocated": m.Alloc,
			"total":     m.TotalAlloc,
			"system":    m.Sys,
			"gc_cycles": m.NumGC,
		}
	}

	respondJSON(w, r, http.StatusOK, status)
}
