// Package llm sends analysis prompts to an OpenAI-compatible chat endpoint
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ludo-technologies/depscope/internal/constants"
)

// SystemPrompt frames the assistant as an architecture reviewer
const SystemPrompt = "You are a senior software architect reviewing a JavaScript/TypeScript project's dependency structure. Give specific, prioritized and actionable advice."

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("llm: API key not set")

// Config configures a Client
type Config struct {
	// Model is the chat model name
	Model string

	// BaseURL overrides the API endpoint, e.g. for a local OpenAI-compatible server
	BaseURL string

	// APIKey is used as-is when set; otherwise it is read from APIKeyEnv
	APIKey    string
	APIKeyEnv string

	Temperature float32
	MaxTokens   int
}

// Client sends prompts to a chat completion endpoint
type Client struct {
	client *openai.Client
	config Config
	logger *slog.Logger
}

// NewClient creates a client. The API key is required unless BaseURL points
// to a server that ignores it.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultLLMModel
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = constants.DefaultLLMAPIKeyEnv
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	}
	if apiKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, cfg.APIKeyEnv)
	}

	oc := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	logger.Debug("initializing llm client", "model", cfg.Model, "base_url", oc.BaseURL)
	return &Client{
		client: openai.NewClientWithConfig(oc),
		config: cfg,
		logger: logger,
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.config.Model
}

// Consult sends prompt with the architecture-review system prompt and
// returns the first answer
func (c *Client) Consult(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("llm: empty prompt")
	}

	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.config.Temperature,
	}
	if c.config.MaxTokens > 0 {
		req.MaxCompletionTokens = c.config.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: no choices returned")
	}

	c.logger.Debug("llm answered",
		"model", resp.Model,
		"finish_reason", resp.Choices[0].FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}
