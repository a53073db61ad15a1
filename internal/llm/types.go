package llm

// Role identifies the author of a chat message.
type Role string

const (
	// RoleSystem is an instruction message that frames the conversation.
	RoleSystem Role = "system"
	// RoleUser is a message from the user.
	RoleUser Role = "user"
	// RoleAssistant is a message from the model.
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ChatRequest is a completion request against a named model.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Stream      *bool     `json:"stream,omitempty"`
}

// NewChatRequest creates a non-streaming ChatRequest.
func NewChatRequest(model string, messages []Message) ChatRequest {
	stream := false
	return ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   &stream,
	}
}

// ollamaChatResponse is the response shape of Ollama's /api/chat endpoint.
type ollamaChatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// openAIChatResponse is the response shape of OpenAI-compatible
// /v1/chat/completions endpoints (LM Studio).
type openAIChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}
