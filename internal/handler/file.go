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

// fileSystemPrompt asks the model for a structured file operation.
const fileSystemPrompt = `You are a file operations expert.
When asked to perform file operations:
1. Determine what file operation is needed
2. Identify the file path(s) involved
3. Provide the operation details

Respond in this format:
OPERATION: <read|write|search|list>
PATH: <file or directory path>
CONTENT: <for write operations only>
PATTERN: <for search operations only>`

var fileKeywords = []string{"read", "write", "file", "create", "delete", "copy", "move", "search"}

// FileHandler performs file operations described in natural language.
type FileHandler struct {
	llm   llm.Client
	tools *tools.Executor
	model string
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(client llm.Client, executor *tools.Executor, model string) *FileHandler {
	return &FileHandler{llm: client, tools: executor, model: model}
}

// Name implements Handler.
func (h *FileHandler) Name() string { return "file" }

// Capabilities implements Handler.
func (h *FileHandler) Capabilities() []models.Capability {
	return []models.Capability{models.CapabilityFileOperations}
}

// CanHandle implements Handler.
func (h *FileHandler) CanHandle(task string) bool {
	return matchesKeyword(task, fileKeywords)
}

// Execute implements Handler.
func (h *FileHandler) Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error) {
	log.Printf("[file] executing: %s", task)

	response, err := h.llm.ChatWithHistory(ctx, []llm.Message{
		llm.SystemMessage(fileSystemPrompt),
		llm.UserMessage(fmt.Sprintf("Task: %s\nWorking directory: %s", task, taskCtx.WorkingDirectory)),
	}, h.model)
	if err != nil {
		return nil, fmt.Errorf("derive file operation: %w", err)
	}

	operation := extractField(response, "OPERATION")
	path := extractField(response, "PATH")

	switch strings.ToLower(operation) {
	case "read":
		content, err := h.tools.ReadFile(path)
		if err != nil {
			return nil, err
		}
		taskCtx.AddMessage("Read file: " + path)
		return models.SuccessResult(content).WithMetadata("path", path), nil

	case "write":
		content := extractField(response, "CONTENT")
		if err := h.tools.WriteFile(path, content); err != nil {
			return nil, err
		}
		taskCtx.AddMessage("Wrote file: " + path)
		return models.SuccessResult("File written to " + path).WithMetadata("path", path), nil

	case "search":
		pattern := extractField(response, "PATTERN")
		matches, err := h.tools.SearchFiles(path, pattern)
		if err != nil {
			return nil, err
		}
		taskCtx.AddMessage("Searched in: " + path)
		return models.SuccessResult(strings.Join(matches, "\n")).WithMetadata("pattern", pattern), nil

	case "list":
		files, err := h.tools.ListFiles(path)
		if err != nil {
			return nil, err
		}
		taskCtx.AddMessage("Listed directory: " + path)
		return models.SuccessResult(strings.Join(files, "\n")).WithMetadata("path", path), nil

	default:
		return models.FailureResult("Unknown operation: " + operation), nil
	}
}

// extractField pulls the value of a "FIELD: value" line from the
// response, matching the field name case-insensitively.
func extractField(response, field string) string {
	prefix := field + ":"
	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(strings.ToUpper(line), prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return ""
}

// Verify FileHandler implements Handler at compile time.
var _ Handler = (*FileHandler)(nil)
