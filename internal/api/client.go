// Package api provides the text generation gateway used by the orchestrator:
// Anthropic models served through AWS Bedrock, plus a credential-less mock.
package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
)

const (
	// DefaultRegion is used when no region is configured.
	DefaultRegion = "us-west-2"
	// DefaultMaxTokens caps every generation.
	DefaultMaxTokens = 4000

	systemPrompt = "You are an expert full-stack developer. Generate clean, production-ready code with modern best practices, proper error handling, and complete implementations."
)

// Generation is the post-processed output of one gateway call.
type Generation struct {
	Code        []string `json:"code"`
	Explanation string   `json:"explanation"`
	Language    string   `json:"language"`
	Model       string   `json:"model"`
	MockMode    bool     `json:"mockMode,omitempty"`
}

// Generator turns a prompt into generated code and explanation.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (*Generation, error)
}

// messageCreator is the subset of the SDK's message service the client uses.
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Client is a Generator backed by the Anthropic Messages API on Bedrock.
type Client struct {
	messages  messageCreator
	catalog   *Catalog
	maxTokens int64
	tracker   *TokenTracker
	logger    *zap.Logger
}

// ClientConfig contains configuration for creating a new Client.
type ClientConfig struct {
	// AWSRegion is the Bedrock region. Defaults to DefaultRegion.
	AWSRegion string
	// AWSProfile is the optional shared config profile name.
	AWSProfile string
	// MaxTokens overrides DefaultMaxTokens when positive.
	MaxTokens int64
	// Catalog overrides the built-in model catalog.
	Catalog *Catalog
	Logger  *zap.Logger
}

// NewClient loads AWS configuration and creates a Bedrock-backed client.
// Credentials come from the default AWS chain (environment, shared config, IAM role).
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	region := cfg.AWSRegion
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AWSProfile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	inner := anthropic.NewClient(bedrock.WithConfig(awsCfg))
	return newClient(&inner.Messages, cfg), nil
}

func newClient(messages messageCreator, cfg ClientConfig) *Client {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		messages:  messages,
		catalog:   catalog,
		maxTokens: maxTokens,
		tracker:   NewTokenTracker(),
		logger:    logger,
	}
}

// Catalog returns the models this client can serve.
func (c *Client) Catalog() *Catalog {
	return c.catalog
}

// Tracker returns the token tracker for this client.
func (c *Client) Tracker() *TokenTracker {
	return c.tracker
}

// Generate sends the prompt to the model identified by the catalog key.
func (c *Client) Generate(ctx context.Context, prompt, model string) (*Generation, error) {
	modelID, err := c.catalog.Resolve(model)
	if err != nil {
		return nil, err
	}

	resp, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		c.logger.Error("bedrock request failed", zap.String("model", model), zap.Error(err))
		return nil, wrapGatewayError(err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += variant.Text
		}
	}

	return &Generation{
		Code:        ExtractCode(text),
		Explanation: ExtractExplanation(text),
		Language:    DetectLanguage(text),
		Model:       model,
	}, nil
}

// TokenTracker tracks token usage across API calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
