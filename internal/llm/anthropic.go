package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when a chat request names no model or
// names the provider-neutral "default" model.
const DefaultAnthropicModel = anthropic.ModelClaudeSonnet4_20250514

// AnthropicClient adapts the Anthropic SDK to the Client interface.
type AnthropicClient struct {
	inner anthropic.Client
	model anthropic.Model
}

// NewAnthropicClient creates an AnthropicClient. If apiKey is empty the
// ANTHROPIC_API_KEY environment variable is used.
func NewAnthropicClient(apiKey string, model anthropic.Model) (*AnthropicClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}

	return &AnthropicClient{
		inner: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model: model,
	}, nil
}

// Chat sends a chat request and returns the concatenated text blocks of
// the response. System messages become the request's system prompt.
func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	model := anthropic.Model(req.Model)
	if req.Model == "" || req.Model == "default" {
		model = c.model
	}

	maxTokens := int64(2000)
	if req.MaxTokens != nil {
		maxTokens = int64(*req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return "", &UpstreamError{Provider: "anthropic", Body: err.Error()}
	}

	var text string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += variant.Text
		}
	}

	return text, nil
}

// ChatWithHistory sends the given messages against a model.
func (c *AnthropicClient) ChatWithHistory(ctx context.Context, messages []Message, model string) (string, error) {
	return c.Chat(ctx, NewChatRequest(model, messages))
}

// Verify AnthropicClient implements Client at compile time.
var _ Client = (*AnthropicClient)(nil)
