package models

// TaskContext carries shared mutable state across the subtasks of one
// task execution: the working directory, the running conversation
// history, and free-form metadata.
type TaskContext struct {
	// WorkingDirectory is the directory all relative paths resolve against.
	WorkingDirectory string
	// History is the conversation history accumulated by handlers.
	History []string
	// Metadata holds free-form key/value state shared between subtasks.
	Metadata map[string]string
}

// NewTaskContext creates a TaskContext rooted at the given working directory.
func NewTaskContext(workingDirectory string) *TaskContext {
	return &TaskContext{
		WorkingDirectory: workingDirectory,
		Metadata:         make(map[string]string),
	}
}

// AddMessage appends a message to the conversation history.
func (c *TaskContext) AddMessage(message string) {
	c.History = append(c.History, message)
}

// SetMetadata stores a metadata entry.
func (c *TaskContext) SetMetadata(key, value string) {
	c.Metadata[key] = value
}
