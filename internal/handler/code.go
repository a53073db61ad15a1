package handler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/internal/tools"
	"github.com/ZephrFish/LCA/pkg/models"
)

// codeSystemPrompt frames the model as a code generation assistant.
const codeSystemPrompt = `You are an expert code generation agent.
When asked to write code:
1. Analyze the requirements carefully
2. Generate clean, well-documented code
3. Follow best practices for the language
4. Include error handling where appropriate
5. Return the code with explanations

Format your response as:
` + "```language\n<code here>\n```" + `
Explanation: <your explanation>`

var codeKeywords = []string{"code", "implement", "function", "class", "write", "generate", "refactor"}

// CodeHandler generates and edits code via the completion service,
// writing produced files through the gated tools executor.
type CodeHandler struct {
	llm   llm.Client
	tools *tools.Executor
	model string
}

// NewCodeHandler creates a CodeHandler.
func NewCodeHandler(client llm.Client, executor *tools.Executor, model string) *CodeHandler {
	return &CodeHandler{llm: client, tools: executor, model: model}
}

// Name implements Handler.
func (h *CodeHandler) Name() string { return "code" }

// Capabilities implements Handler.
func (h *CodeHandler) Capabilities() []models.Capability {
	return []models.Capability{models.CapabilityCodeGeneration, models.CapabilityCodeEditing}
}

// CanHandle implements Handler.
func (h *CodeHandler) CanHandle(task string) bool {
	return matchesKeyword(task, codeKeywords)
}

// Execute implements Handler.
func (h *CodeHandler) Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error) {
	log.Printf("[code] executing: %s", task)

	fullTask := task
	if len(taskCtx.History) > 0 {
		fullTask = fmt.Sprintf("Previous context:\n%s\n\nCurrent task: %s",
			strings.Join(taskCtx.History, "\n"), task)
	}

	response, err := h.llm.ChatWithHistory(ctx, []llm.Message{
		llm.SystemMessage(codeSystemPrompt),
		llm.UserMessage(fullTask),
	}, h.model)
	if err != nil {
		return nil, fmt.Errorf("code generation: %w", err)
	}

	taskCtx.AddMessage("Code task: " + task)
	taskCtx.AddMessage("Response: " + response)

	if strings.Contains(response, "```") {
		if path := extractFilePath(response); path != "" {
			code := extractCodeBlock(response)
			if err := h.tools.WriteFile(path, code); err != nil {
				return nil, fmt.Errorf("write generated file: %w", err)
			}
			return models.SuccessResult(response).WithMetadata("file_written", path), nil
		}
	}

	return models.SuccessResult(response), nil
}

// extractCodeBlock returns the content between the first and last
// fences, dropping the language tag line. Without a well-formed pair
// of fences the whole response is returned.
func extractCodeBlock(response string) string {
	first := strings.Index(response, "```")
	last := strings.LastIndex(response, "```")
	if first == -1 || last <= first {
		return response
	}

	start := first + 3
	if nl := strings.IndexByte(response[first:], '\n'); nl != -1 {
		start = first + nl + 1
	}
	if start >= last {
		return response
	}
	return strings.TrimSpace(response[start:last])
}

// extractFilePath finds a "File: path" line in the response, if any.
func extractFilePath(response string) string {
	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(line, "File:") || strings.HasPrefix(line, "file:") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[1])
			}
		}
	}
	return ""
}

// Verify CodeHandler implements Handler at compile time.
var _ Handler = (*CodeHandler)(nil)
