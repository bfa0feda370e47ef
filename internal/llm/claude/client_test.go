package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/andessalud/triaje/internal/triage"
)

func TestFromSDKMessage_TextContent(t *testing.T) {
	t.Parallel()

	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "primera parte. "},
			{Type: "tool_use", ID: "tu-1", Name: "ignored"},
			{Type: "text", Text: "segunda parte."},
		},
		Model: anthropic.Model("claude-sonnet-4-20250514"),
		Usage: anthropic.Usage{InputTokens: 120, OutputTokens: 48},
	}

	resp := fromSDKMessage(msg, "fallback-model")

	if resp.Text != "primera parte. segunda parte." {
		t.Errorf("text = %q, want concatenated text blocks", resp.Text)
	}
	if resp.Model != "claude-sonnet-4-20250514" {
		t.Errorf("model = %q, want %q", resp.Model, "claude-sonnet-4-20250514")
	}
	if resp.TokensIn != 120 {
		t.Errorf("tokens in = %d, want 120", resp.TokensIn)
	}
	if resp.TokensOut != 48 {
		t.Errorf("tokens out = %d, want 48", resp.TokensOut)
	}
}

func TestFromSDKMessage_ModelFallback(t *testing.T) {
	t.Parallel()

	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: "hola"}},
	}

	resp := fromSDKMessage(msg, "configured-model")

	if resp.Model != "configured-model" {
		t.Errorf("model = %q, want configured fallback", resp.Model)
	}
}

func TestNew_DefaultModel(t *testing.T) {
	t.Parallel()

	c := New("test-key", "", "")
	if c.model != DefaultModel {
		t.Errorf("model = %q, want %q", c.model, DefaultModel)
	}

	c = New("test-key", "claude-opus-4-1", "")
	if c.model != "claude-opus-4-1" {
		t.Errorf("model = %q, want configured model", c.model)
	}
}

func TestComplete_SendsSystemAndUser(t *testing.T) {
	t.Parallel()

	var gotBody struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			t.Errorf("path = %q, want messages endpoint", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("x-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "respuesta del modelo"}],
			"model": "claude-sonnet-4-20250514",
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 25, "output_tokens": 12}
		}`))
	}))
	defer srv.Close()

	c := New("test-key", "claude-sonnet-4-20250514", srv.URL)

	resp, err := c.Complete(context.Background(), &triage.ChatRequest{
		System:    "instrucción del sistema",
		User:      "texto del usuario",
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Text != "respuesta del modelo" {
		t.Errorf("text = %q, want %q", resp.Text, "respuesta del modelo")
	}
	if resp.TokensIn != 25 || resp.TokensOut != 12 {
		t.Errorf("usage = %d/%d, want 25/12", resp.TokensIn, resp.TokensOut)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("x-api-key = %q, want %q", gotAPIKey, "test-key")
	}
	if gotBody.Model != "claude-sonnet-4-20250514" {
		t.Errorf("request model = %q", gotBody.Model)
	}
	if gotBody.MaxTokens != 512 {
		t.Errorf("request max_tokens = %d, want 512", gotBody.MaxTokens)
	}
	if len(gotBody.System) != 1 || gotBody.System[0].Text != "instrucción del sistema" {
		t.Errorf("request system = %+v, want system block", gotBody.System)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Fatalf("request messages = %+v, want single user message", gotBody.Messages)
	}
	if !strings.Contains(string(gotBody.Messages[0].Content), "texto del usuario") {
		t.Errorf("request content = %s, want user text", gotBody.Messages[0].Content)
	}
}

func TestComplete_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad request"}}`))
	}))
	defer srv.Close()

	c := New("test-key", "", srv.URL)

	_, err := c.Complete(context.Background(), &triage.ChatRequest{User: "hola", MaxTokens: 16})
	if err == nil {
		t.Fatal("expected error from API failure")
	}
}
