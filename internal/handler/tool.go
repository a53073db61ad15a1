package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/internal/mcp"
	"github.com/ZephrFish/LCA/pkg/models"
)

var toolKeywords = []string{"mcp", "tool", "external", "server", "plugin"}

// ToolHandler routes tasks to external tool providers: it shows the
// model every discovered tool, parses the TOOL/ARGUMENTS lines it
// answers with, and calls the chosen tools through the manager.
type ToolHandler struct {
	llm     llm.Client
	manager *mcp.Manager
	model   string
}

// NewToolHandler creates a ToolHandler.
func NewToolHandler(client llm.Client, manager *mcp.Manager, model string) *ToolHandler {
	return &ToolHandler{llm: client, manager: manager, model: model}
}

// Name implements Handler.
func (h *ToolHandler) Name() string { return "tools" }

// Capabilities implements Handler.
func (h *ToolHandler) Capabilities() []models.Capability {
	return []models.Capability{models.CapabilityTaskOrchestration}
}

// CanHandle implements Handler.
func (h *ToolHandler) CanHandle(task string) bool {
	return matchesKeyword(task, toolKeywords)
}

// Execute implements Handler.
func (h *ToolHandler) Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error) {
	log.Printf("[tools] executing: %s", task)

	var catalog strings.Builder
	for provider, providerTools := range h.manager.ListAllTools() {
		fmt.Fprintf(&catalog, "\nProvider '%s':\n", provider)
		for _, tool := range providerTools {
			fmt.Fprintf(&catalog, "  - %s: %s\n", tool.Name, tool.Description)
		}
	}

	systemPrompt := fmt.Sprintf(`You are a tool orchestration agent.
You have access to the following external tools:
%s
When asked to perform a task:
1. Determine which tool(s) to use
2. Provide the tool name and arguments in JSON format

Response format:
TOOL: <tool_name>
ARGUMENTS: <json_arguments>

If multiple tools are needed, provide them on separate lines.`, catalog.String())

	response, err := h.llm.ChatWithHistory(ctx, []llm.Message{
		llm.SystemMessage(systemPrompt),
		llm.UserMessage("Task: " + task),
	}, h.model)
	if err != nil {
		return nil, fmt.Errorf("derive tool calls: %w", err)
	}

	calls := parseToolCalls(response)

	var results []string
	for _, call := range calls {
		log.Printf("[tools] calling tool %s with args %v", call.name, call.arguments)

		result, err := h.manager.CallTool(call.name, call.arguments)
		if err != nil {
			results = append(results, fmt.Sprintf("Tool '%s' failed: %v", call.name, err))
			continue
		}

		pretty, err := json.MarshalIndent(json.RawMessage(result), "", "  ")
		if err != nil {
			pretty = result
		}
		results = append(results, fmt.Sprintf("Tool '%s' result:\n%s", call.name, pretty))
	}

	taskCtx.AddMessage("Tool task: " + task)
	taskCtx.AddMessage("Results: " + strings.Join(results, "\n\n"))

	if len(results) == 0 {
		return models.FailureResult("No external tools were called"), nil
	}
	return models.SuccessResult(strings.Join(results, "\n\n")), nil
}

// toolCall is one parsed TOOL/ARGUMENTS pair.
type toolCall struct {
	name      string
	arguments map[string]any
}

// parseToolCalls extracts TOOL:/ARGUMENTS: pairs from a model response.
// An ARGUMENTS line that is not valid JSON yields an empty argument map.
func parseToolCalls(response string) []toolCall {
	lines := strings.Split(response, "\n")
	var calls []toolCall

	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "TOOL:") {
			continue
		}
		call := toolCall{
			name:      strings.TrimSpace(strings.TrimPrefix(lines[i], "TOOL:")),
			arguments: map[string]any{},
		}

		if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "ARGUMENTS:") {
			argsStr := strings.TrimSpace(strings.TrimPrefix(lines[i+1], "ARGUMENTS:"))
			var args map[string]any
			if err := json.Unmarshal([]byte(argsStr), &args); err == nil {
				call.arguments = args
			}
			i++
		}

		calls = append(calls, call)
	}
	return calls
}

// Verify ToolHandler implements Handler at compile time.
var _ Handler = (*ToolHandler)(nil)
