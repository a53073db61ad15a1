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

// shellSystemPrompt constrains the model to single-line commands.
const shellSystemPrompt = `You are a shell command expert.

CRITICAL REQUIREMENT: Each COMMAND must be a SINGLE LINE. Use semicolons (;) or && to chain operations.

When asked to perform a task:
1. Determine the appropriate shell command(s)
2. Each COMMAND must be ONE LINE - use ; or && to combine multiple operations
3. For file content, use printf or echo with \n, NOT multi-line heredocs or quotes
4. Ensure commands are safe and non-destructive

Format:
COMMAND: <single-line command with ; or && for chaining>
EXPLANATION: <what it does>

IMPORTANT: Use printf for newlines, NOT echo -e (the -e flag causes errors on some systems)

NEVER use rm -rf / or other destructive commands.
ALWAYS keep the entire command on ONE SINGLE LINE after "COMMAND:".`

var shellKeywords = []string{"run", "execute", "command", "shell", "bash", "script", "install", "build", "test"}

// dangerousPatterns are refused outright, before the permission gate.
var dangerousPatterns = []string{
	"rm -rf /",
	"rm -rf /*",
	":(){ :|:& };:",
	"mkfs",
	"dd if=/dev/zero",
	"> /dev/sda",
}

// scriptExtensions are used to detect script files created by a command.
var scriptExtensions = []string{".sh", ".py", ".rb", ".pl", ".js", ".ts"}

// ShellHandler turns tasks into shell commands and runs them through
// the gated tools executor.
type ShellHandler struct {
	llm   llm.Client
	tools *tools.Executor
	model string
}

// NewShellHandler creates a ShellHandler.
func NewShellHandler(client llm.Client, executor *tools.Executor, model string) *ShellHandler {
	return &ShellHandler{llm: client, tools: executor, model: model}
}

// Name implements Handler.
func (h *ShellHandler) Name() string { return "shell" }

// Capabilities implements Handler.
func (h *ShellHandler) Capabilities() []models.Capability {
	return []models.Capability{models.CapabilityShellExecution}
}

// CanHandle implements Handler.
func (h *ShellHandler) CanHandle(task string) bool {
	return matchesKeyword(task, shellKeywords)
}

// Execute implements Handler.
func (h *ShellHandler) Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error) {
	log.Printf("[shell] executing: %s", task)

	response, err := h.llm.ChatWithHistory(ctx, []llm.Message{
		llm.SystemMessage(shellSystemPrompt),
		llm.UserMessage(fmt.Sprintf("Task: %s\nWorking directory: %s", task, taskCtx.WorkingDirectory)),
	}, h.model)
	if err != nil {
		return nil, fmt.Errorf("derive shell command: %w", err)
	}

	command := extractCommand(response)

	if isDangerousCommand(command) {
		log.Printf("[shell] dangerous command refused: %s", command)
		return models.FailureResult("Refused to execute dangerous command: " + command), nil
	}

	output, err := h.tools.ExecuteShell(ctx, command, taskCtx.WorkingDirectory)
	if err != nil {
		return nil, fmt.Errorf("execute shell: %w", err)
	}

	taskCtx.AddMessage("Executed: " + command)
	taskCtx.AddMessage("Output: " + output)

	if script := detectScriptCreation(command); script != "" {
		output += fmt.Sprintf("\n\nScript created: %s\n   Run with: ./%s", script, script)
	}

	return models.SuccessResult(output).WithMetadata("command", command), nil
}

// extractCommand pulls the COMMAND: line out of the response. Without
// one, EXPLANATION lines are dropped and the remainder joined.
func extractCommand(response string) string {
	for _, line := range strings.Split(response, "\n") {
		if pos := strings.Index(line, "COMMAND:"); pos != -1 {
			command := strings.TrimSpace(line[pos+len("COMMAND:"):])
			if command != "" {
				return command
			}
		}
	}

	var kept []string
	for _, line := range strings.Split(response, "\n") {
		if !strings.Contains(line, "EXPLANATION:") {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// isDangerousCommand reports whether the command matches a known
// destructive pattern.
func isDangerousCommand(command string) bool {
	for _, pattern := range dangerousPatterns {
		if strings.Contains(command, pattern) {
			return true
		}
	}
	return false
}

// detectScriptCreation returns the filename of a script the command
// appears to create, or an empty string.
func detectScriptCreation(command string) string {
	for _, token := range strings.Fields(command) {
		if strings.HasPrefix(token, "-") {
			continue
		}
		for _, ext := range scriptExtensions {
			if strings.HasSuffix(token, ext) {
				return strings.TrimPrefix(token, ">")
			}
		}
	}
	return ""
}

// Verify ShellHandler implements Handler at compile time.
var _ Handler = (*ShellHandler)(nil)
