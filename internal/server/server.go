// Package server provides the HTTP API for codenexus.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/codeservice"
	"github.com/ShayCichocki/codenexus/internal/telemetry"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

// Orchestrator is the subset of the orchestrator the HTTP surface needs.
type Orchestrator interface {
	Orchestrate(ctx context.Context, request string, opts models.Options) (*models.FinalResult, error)
	Agents() []models.AgentInfo
	Metrics() models.Metrics
	DefaultModel() string
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Orchestrator Orchestrator
	// Generator serves POST /api/generate.
	Generator api.Generator
	// Code serves the code assistants. Built over Generator when nil.
	Code *codeservice.Service
	// Catalog is listed by GET /api/models.
	Catalog  *api.Catalog
	MockMode bool
}

// Config holds HTTP server configuration.
type Config struct {
	Host       string
	Port       int
	Production bool
	// CORSOrigins apply in production; any origin is allowed otherwise.
	CORSOrigins []string
	BodyLimit   string
	// RateLimit requests per RateWindow per client IP on /api/ routes.
	// Zero disables the limiter.
	RateLimit  int
	RateWindow time.Duration
}

// Server provides HTTP endpoints for codenexus.
type Server struct {
	echo   *echo.Echo
	deps   Deps
	logger *zap.Logger
	config *Config
}

// NewServer creates a new HTTP server.
func NewServer(deps Deps, logger *zap.Logger, cfg *Config) (*Server, error) {
	if deps.Orchestrator == nil {
		return nil, errors.New("orchestrator cannot be nil")
	}
	if deps.Generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Port:       3001,
			BodyLimit:  "10M",
			RateLimit:  100,
			RateWindow: 15 * time.Minute,
		}
	}
	if deps.Catalog == nil {
		deps.Catalog = api.DefaultCatalog()
	}
	if deps.Code == nil {
		code, err := codeservice.New(deps.Generator, logger)
		if err != nil {
			return nil, fmt.Errorf("create code service: %w", err)
		}
		deps.Code = code
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	s := &Server{
		echo:   e,
		deps:   deps,
		logger: logger.Named("http"),
		config: cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)
	e.Use(middleware.Secure())
	e.Use(s.corsMiddleware())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	s.registerRoutes()
	return s, nil
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiGroup := s.echo.Group("/api")
	if mw := s.rateLimiter(); mw != nil {
		apiGroup.Use(mw)
	}
	apiGroup.GET("/models", s.handleModels)
	apiGroup.POST("/generate", s.handleGenerate)
	apiGroup.POST("/autocomplete", s.handleAutocomplete)

	multi := apiGroup.Group("/multiagent")
	multi.POST("/orchestrate", s.handleOrchestrate)
	multi.GET("/agents", s.handleAgents)
	multi.GET("/metrics", s.handleMetrics)
}

func (s *Server) corsMiddleware() echo.MiddlewareFunc {
	if s.config.Production {
		return middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     s.config.CORSOrigins,
			AllowCredentials: true,
		})
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
	})
}

// rateLimiter spreads RateLimit requests over RateWindow as a token bucket
// refilled at RateLimit/RateWindow with a burst of RateLimit.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	if s.config.RateLimit <= 0 || s.config.RateWindow <= 0 {
		return nil
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(s.config.RateLimit) / s.config.RateWindow.Seconds()),
		Burst:     s.config.RateLimit,
		ExpiresIn: s.config.RateWindow,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			s.logger.Warn("rate limit exceeded", zap.String("client", identifier))
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests, please try again later."})
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "unable to identify client"})
		},
	})
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		duration := time.Since(start)

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().Status
		telemetry.ObserveHTTP(c.Request().Method, route, status, duration)

		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server",
		zap.String("addr", addr),
		zap.Bool("mock_mode", s.deps.MockMode),
		zap.Int("agents", len(s.deps.Orchestrator.Agents())),
	)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
