package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// DefaultOllamaBaseURL is the default address of a local Ollama server.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaClient talks to an Ollama server's /api/chat endpoint.
type OllamaClient struct {
	client  *http.Client
	baseURL string
}

// NewOllamaClient creates an OllamaClient against the given base URL.
func NewOllamaClient(baseURL string) *OllamaClient {
	return &OllamaClient{
		client:  &http.Client{},
		baseURL: baseURL,
	}
}

// Chat sends a chat request and returns the assistant message content.
func (c *OllamaClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	url := c.baseURL + "/api/chat"

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		log.Printf("[llm] ollama error %d: %s", resp.StatusCode, errBody)
		return "", &UpstreamError{Provider: "ollama", Status: resp.StatusCode, Body: string(errBody)}
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	return chatResp.Message.Content, nil
}

// ChatWithHistory sends the given messages against a model.
func (c *OllamaClient) ChatWithHistory(ctx context.Context, messages []Message, model string) (string, error) {
	return c.Chat(ctx, NewChatRequest(model, messages))
}

// Verify OllamaClient implements Client at compile time.
var _ Client = (*OllamaClient)(nil)
