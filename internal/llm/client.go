// Package llm drafts Conventional Commits messages from redacted diffs via a
// chat-completion service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrMissingAPIKey means no completion credential is configured.
	ErrMissingAPIKey = errors.New("API key not set; set OPENAI_API_KEY or run: commit-buddy config set-key")

	// ErrEmptyResponse means the completion service returned no usable text.
	ErrEmptyResponse = errors.New("completion service returned an empty response")
)

// Request is a single chat-style completion call.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float32
	MaxTokens   int
}

// CompletionClient is the narrow surface of the completion service the
// generator needs. The production client speaks to an OpenAI-compatible
// endpoint; tests substitute a deterministic fake.
type CompletionClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}

const requestTimeout = 30 * time.Second

// OpenAIClient calls an OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient fails with ErrMissingAPIKey when no credential is set.
// apiBase overrides the endpoint for compatible providers.
func NewOpenAIClient(apiKey, apiBase string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := openai.DefaultConfig(apiKey)
	if apiBase != "" {
		cfg.BaseURL = apiBase
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}, nil
}

// Complete makes exactly one attempt; retrying is the caller's decision.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("call completion service: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
