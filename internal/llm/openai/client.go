package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/andessalud/triaje/internal/triage"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// Client implements triage.Provider against an OpenAI-compatible chat API.
type Client struct {
	client *openai.Client
	model  string
}

// New creates an OpenAI client. An empty model selects DefaultModel; a
// non-empty baseURL overrides the public endpoint, so OpenAI-compatible
// gateways work too.
func New(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends one single-turn chat completion.
func (c *Client) Complete(ctx context.Context, req *triage.ChatRequest) (*triage.ChatResponse, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  msgs,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: reply carried no choices")
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return &triage.ChatResponse{
		Text:      strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:     model,
		TokensIn:  resp.Usage.PromptTokens,
		TokensOut: resp.Usage.CompletionTokens,
	}, nil
}
