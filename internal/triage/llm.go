package triage

import "context"

// Provider is a chat-completion backend for the text refinement
// collaborator. The contract is single-turn: one system instruction, one
// user message, one text reply.
type Provider interface {
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// ChatRequest is the input to a Provider call.
type ChatRequest struct {
	System    string
	User      string
	MaxTokens int
}

// ChatResponse is the provider's reply.
type ChatResponse struct {
	Text      string
	Model     string
	TokensIn  int
	TokensOut int
}
