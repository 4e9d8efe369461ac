// Package codeservice provides the single-call code assistants behind
// POST /api/generate and POST /api/autocomplete: debugging, explaining and
// fixing a snippet, and cursor completions. Each is one prompt template over
// an api.Generator whose reply is split into named sections.
package codeservice

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShayCichocki/codenexus/internal/api"
)

// AutocompleteModel is used for completions when the caller names no model.
const AutocompleteModel = "claude-3-haiku"

// ErrNoGenerator is returned by New when gen is nil.
var ErrNoGenerator = errors.New("generator is required")

// DebugResult is the outcome of DebugCode.
type DebugResult struct {
	Analysis   string   `json:"analysis"`
	FixedCode  []string `json:"fixedCode"`
	Changes    string   `json:"changes"`
	Prevention string   `json:"prevention"`
}

// ExplainResult is the outcome of ExplainCode.
type ExplainResult struct {
	Overview     string   `json:"overview"`
	Breakdown    []string `json:"breakdown"`
	Concepts     []string `json:"concepts"`
	Improvements []string `json:"improvements"`
}

// FixResult is the outcome of FixCode.
type FixResult struct {
	FixedCode   []string  `json:"fixedCode"`
	Explanation string    `json:"explanation"`
	ErrorType   ErrorKind `json:"errorType"`
}

// Service runs the code assistants.
type Service struct {
	gen    api.Generator
	logger *zap.Logger
}

// New creates a Service over gen.
func New(gen api.Generator, logger *zap.Logger) (*Service, error) {
	if gen == nil {
		return nil, ErrNoGenerator
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, logger: logger.Named("codeservice")}, nil
}

// DebugCode asks for a root cause and a fix for issue in code.
func (s *Service) DebugCode(ctx context.Context, code, issue, model string) (*DebugResult, error) {
	prompt := fmt.Sprintf(debugTemplate, code, issue)
	gen, err := s.generate(ctx, "debug", prompt, model)
	if err != nil {
		return nil, err
	}
	return &DebugResult{
		Analysis:   sectionOr(gen.Explanation, analysisRe, "Analysis not found"),
		FixedCode:  gen.Code,
		Changes:    sectionOr(gen.Explanation, changesRe, "Changes not specified"),
		Prevention: sectionOr(gen.Explanation, preventionRe, "No prevention tips provided"),
	}, nil
}

// ExplainCode asks for an overview and breakdown of code.
func (s *Service) ExplainCode(ctx context.Context, code, model string) (*ExplainResult, error) {
	prompt := fmt.Sprintf(explainTemplate, code)
	gen, err := s.generate(ctx, "explain", prompt, model)
	if err != nil {
		return nil, err
	}
	return &ExplainResult{
		Overview:     sectionOr(gen.Explanation, overviewRe, api.Truncate(gen.Explanation, 200)),
		Breakdown:    breakdown(gen.Explanation),
		Concepts:     sectionLines(gen.Explanation, conceptsRe),
		Improvements: sectionLines(gen.Explanation, improvementsRe),
	}, nil
}

// FixCode asks for corrected code given an error message.
func (s *Service) FixCode(ctx context.Context, code, errText, model string) (*FixResult, error) {
	prompt := fmt.Sprintf(fixTemplate, code, errText)
	gen, err := s.generate(ctx, "fix", prompt, model)
	if err != nil {
		return nil, err
	}
	return &FixResult{
		FixedCode:   gen.Code,
		Explanation: gen.Explanation,
		ErrorType:   ClassifyError(errText),
	}, nil
}

// Autocomplete asks for completions at cursor and returns at most five.
// An empty model selects AutocompleteModel.
func (s *Service) Autocomplete(ctx context.Context, code string, cursor Cursor, model string) ([]Suggestion, error) {
	if model == "" {
		model = AutocompleteModel
	}
	pos := cursor.Offset(code)
	prompt := fmt.Sprintf(autocompleteTemplate, code[:pos], code[pos:])
	gen, err := s.generate(ctx, "autocomplete", prompt, model)
	if err != nil {
		return nil, err
	}
	return ParseSuggestions(gen.Explanation), nil
}

func (s *Service) generate(ctx context.Context, kind, prompt, model string) (*api.Generation, error) {
	s.logger.Debug("code assist request", zap.String("kind", kind), zap.String("model", model))
	gen, err := s.gen.Generate(ctx, prompt, model)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return gen, nil
}

const debugTemplate = `Debug this code and fix the issue:

CODE:
%s

ISSUE:
%s

Provide:
1. Root cause analysis
2. Fixed code
3. Explanation of changes
4. Prevention tips`

const explainTemplate = `Explain this code in detail:

%s

Provide:
1. High-level overview
2. Line-by-line breakdown
3. Key concepts used
4. Potential improvements`

const fixTemplate = `Fix this code error:

CODE:
%s

ERROR:
%s

Provide the corrected code with explanation.`

const autocompleteTemplate = `Provide autocomplete suggestions for this code context:

BEFORE CURSOR:
%s

AFTER CURSOR:
%s

Suggest 3-5 relevant completions.`
