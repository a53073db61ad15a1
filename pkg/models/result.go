package models

// ExecutionResult is the outcome of executing a task or subtask.
// One instance is produced per subtask plus one aggregate per task;
// results are built once and never mutated afterward.
type ExecutionResult struct {
	// Success indicates whether the execution succeeded.
	Success bool `json:"success"`
	// Output is the human-readable output of the execution.
	Output string `json:"output"`
	// Metadata holds auxiliary key/value details about the execution.
	Metadata map[string]string `json:"metadata"`
}

// SuccessResult creates a successful result with the given output.
func SuccessResult(output string) *ExecutionResult {
	return &ExecutionResult{
		Success:  true,
		Output:   output,
		Metadata: make(map[string]string),
	}
}

// FailureResult creates a failed result with the given output.
func FailureResult(output string) *ExecutionResult {
	return &ExecutionResult{
		Success:  false,
		Output:   output,
		Metadata: make(map[string]string),
	}
}

// WithMetadata attaches a metadata entry and returns the result for chaining.
func (r *ExecutionResult) WithMetadata(key, value string) *ExecutionResult {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
	return r
}
