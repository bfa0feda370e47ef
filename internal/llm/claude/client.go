package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/andessalud/triaje/internal/triage"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// Client implements triage.Provider against the Anthropic Messages API.
type Client struct {
	client anthropic.Client
	model  string
}

// New creates a Claude client. An empty model selects DefaultModel; an empty
// baseURL keeps the SDK's default endpoint.
func New(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Complete sends one single-turn request and flattens the reply to text.
func (c *Client) Complete(ctx context.Context, req *triage.ChatRequest) (*triage.ChatResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}
	return fromSDKMessage(msg, c.model), nil
}

// fromSDKMessage maps the SDK message to the provider-neutral shape,
// concatenating text blocks and ignoring everything else.
func fromSDKMessage(msg *anthropic.Message, fallbackModel string) *triage.ChatResponse {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	model := string(msg.Model)
	if model == "" {
		model = fallbackModel
	}

	return &triage.ChatResponse{
		Text:      b.String(),
		Model:     model,
		TokensIn:  int(msg.Usage.InputTokens),
		TokensOut: int(msg.Usage.OutputTokens),
	}
}
