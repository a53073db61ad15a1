package models

// Capability describes a class of work a handler can perform.
type Capability string

const (
	// CapabilityCodeGeneration indicates the handler can generate new code.
	CapabilityCodeGeneration Capability = "code_generation"
	// CapabilityCodeEditing indicates the handler can edit existing code.
	CapabilityCodeEditing Capability = "code_editing"
	// CapabilityShellExecution indicates the handler can run shell commands.
	CapabilityShellExecution Capability = "shell_execution"
	// CapabilityFileOperations indicates the handler can read, write, and search files.
	CapabilityFileOperations Capability = "file_operations"
	// CapabilityAnalysis indicates the handler can analyze code and projects.
	CapabilityAnalysis Capability = "analysis"
	// CapabilityTaskOrchestration indicates the handler coordinates other handlers.
	CapabilityTaskOrchestration Capability = "task_orchestration"
)

// Subtask is one unit of work produced by task decomposition.
// Dependencies reference subtasks earlier in the same ordered list by index;
// a subtask is never its own ancestor. Subtasks are immutable once produced.
type Subtask struct {
	// Description is what needs to be done.
	Description string `json:"description"`
	// HandlerID names the handler that should execute this subtask.
	HandlerID string `json:"agent_type"`
	// Dependencies lists indices of earlier subtasks that must succeed first.
	Dependencies []int `json:"dependencies"`
}
