// Package llm provides chat-completion clients for local and hosted
// model providers. All clients are interchangeable behind the Client
// interface; failures propagate without retry.
package llm

import (
	"context"
	"fmt"
)

// Client is a chat-completion service.
type Client interface {
	// Chat sends a completion request and returns the completion text.
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// ChatWithHistory sends the given messages against a model and
	// returns the completion text.
	ChatWithHistory(ctx context.Context, messages []Message, model string) (string, error)
}

// UpstreamError indicates the completion service returned a non-success
// status or an unusable response. It is fatal to the current call; the
// core performs no retry.
type UpstreamError struct {
	// Provider names the upstream service (ollama, lmstudio, anthropic).
	Provider string
	// Status is the HTTP status code, if the failure was HTTP-level.
	Status int
	// Body is the raw error body or message from the service.
	Body string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.Status, e.Body)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Body)
}
