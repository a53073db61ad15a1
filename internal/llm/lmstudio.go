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

// DefaultLMStudioBaseURL is the default address of a local LM Studio server.
const DefaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient talks to LM Studio's OpenAI-compatible chat endpoint.
type LMStudioClient struct {
	client  *http.Client
	baseURL string
}

// NewLMStudioClient creates an LMStudioClient against the given base URL.
func NewLMStudioClient(baseURL string) *LMStudioClient {
	return &LMStudioClient{
		client:  &http.Client{},
		baseURL: baseURL,
	}
}

// Chat sends a chat request and returns the first choice's content.
// System messages are rewritten as user messages because many LM Studio
// models only accept user/assistant roles.
func (c *LMStudioClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	url := c.baseURL + "/chat/completions"

	messages := make([]Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem {
			msg = UserMessage("System Instructions: " + msg.Content)
		}
		messages = append(messages, msg)
	}

	temperature := 0.7
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := 2000
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	body, err := json.Marshal(map[string]any{
		"model":       req.Model,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
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
		log.Printf("[llm] lmstudio error %d: %s", resp.StatusCode, errBody)
		return "", &UpstreamError{Provider: "lmstudio", Status: resp.StatusCode, Body: string(errBody)}
	}

	var chatResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode lmstudio response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", &UpstreamError{Provider: "lmstudio", Body: "no choices in response"}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ChatWithHistory sends the given messages against a model.
func (c *LMStudioClient) ChatWithHistory(ctx context.Context, messages []Message, model string) (string, error) {
	return c.Chat(ctx, NewChatRequest(model, messages))
}

// Verify LMStudioClient implements Client at compile time.
var _ Client = (*LMStudioClient)(nil)
