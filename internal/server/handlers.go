package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/internal/codeservice"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	MockMode bool   `json:"mockMode"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Generation types accepted by POST /api/generate. An empty or unknown
// type is a plain generation.
const (
	GenerateComponent = "component"
	GenerateFullstack = "fullstack"
	GenerateDebug     = "debug"
	GenerateExplain   = "explain"
	GenerateFix       = "fix"
)

// GenerateRequest is the request body for POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Type   string `json:"type"`
	// Code is the snippet for debug, explain and fix.
	Code string `json:"code"`
	// Error is the error message for fix.
	Error string `json:"error"`
}

// AutocompleteRequest is the request body for POST /api/autocomplete.
type AutocompleteRequest struct {
	Code   string             `json:"code"`
	Cursor codeservice.Cursor `json:"cursor"`
	Model  string             `json:"model"`
}

// OrchestrateRequest is the request body for POST /api/multiagent/orchestrate.
type OrchestrateRequest struct {
	Prompt  string         `json:"prompt"`
	Options models.Options `json:"options"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", MockMode: s.deps.MockMode})
}

func (s *Server) handleModels(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Catalog.Models())
}

// handleGenerate dispatches on the request type: a plain generation, a
// multi-agent run for fullstack, or one of the code assistants.
func (s *Server) handleGenerate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid generate request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if msg := validateGenerate(req); msg != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
	}

	model := req.Model
	if model == "" {
		model = s.deps.Orchestrator.DefaultModel()
	}
	s.logger.Info("generate request",
		zap.String("type", req.Type),
		zap.String("model", model),
		zap.String("prompt", api.Truncate(req.Prompt, 50)),
	)

	ctx := context.WithoutCancel(c.Request().Context())
	var (
		result any
		err    error
	)
	switch req.Type {
	case GenerateFullstack:
		result, err = s.deps.Orchestrator.Orchestrate(ctx, req.Prompt, models.Options{Model: model})
	case GenerateDebug:
		result, err = s.deps.Code.DebugCode(ctx, req.Code, req.Prompt, model)
	case GenerateExplain:
		result, err = s.deps.Code.ExplainCode(ctx, req.Code, model)
	case GenerateFix:
		result, err = s.deps.Code.FixCode(ctx, req.Code, req.Error, model)
	default:
		result, err = s.deps.Generator.Generate(ctx, req.Prompt, model)
	}
	if err != nil {
		return s.failure(c, generationStatus(err), "generation failed", err)
	}
	return c.JSON(http.StatusOK, result)
}

// validateGenerate returns the reason a request is unusable, or "".
func validateGenerate(req GenerateRequest) string {
	needsCode := req.Type == GenerateDebug || req.Type == GenerateExplain || req.Type == GenerateFix
	if needsCode && strings.TrimSpace(req.Code) == "" {
		return "code is required"
	}
	needsPrompt := req.Type != GenerateExplain && req.Type != GenerateFix
	if needsPrompt && strings.TrimSpace(req.Prompt) == "" {
		return "prompt is required"
	}
	return ""
}

// handleAutocomplete returns completions for the code at the cursor.
func (s *Server) handleAutocomplete(c echo.Context) error {
	var req AutocompleteRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid autocomplete request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	suggestions, err := s.deps.Code.Autocomplete(c.Request().Context(), req.Code, req.Cursor, req.Model)
	if err != nil {
		return s.failure(c, generationStatus(err), "autocomplete failed", err)
	}
	return c.JSON(http.StatusOK, suggestions)
}

func generationStatus(err error) int {
	if errors.Is(err, api.ErrUnknownModel) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handleOrchestrate runs the full multi-agent pipeline. The run is detached
// from the request context and completes even if the client goes away.
func (s *Server) handleOrchestrate(c echo.Context) error {
	var req OrchestrateRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid orchestrate request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "prompt is required"})
	}

	s.logger.Info("multi-agent orchestration request", zap.String("prompt", api.Truncate(req.Prompt, 50)))

	result, err := s.deps.Orchestrator.Orchestrate(context.WithoutCancel(c.Request().Context()), req.Prompt, req.Options)
	if err != nil {
		return s.failure(c, http.StatusInternalServerError, "multi-agent orchestration failed", err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAgents(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Orchestrator.Agents())
}

func (s *Server) handleMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Orchestrator.Metrics())
}

// failure logs err and writes it as an ErrorResponse. The error chain is
// included as details outside production.
func (s *Server) failure(c echo.Context, status int, msg string, err error) error {
	s.logger.Error(msg, zap.Error(err), zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))

	resp := ErrorResponse{Error: err.Error()}
	if !s.config.Production {
		resp.Details = errorChain(err)
	}
	return c.JSON(status, resp)
}

// errorChain renders each wrapped layer of err with its type.
func errorChain(err error) string {
	var layers []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		layers = append(layers, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(layers, "\n")
}

// errorHandler renders framework errors (404, 413, panics) in the same
// shape as handler errors.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := http.StatusText(status)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		} else {
			logger.Error("unhandled error", zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, ErrorResponse{Error: msg})
		}
		if err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}
