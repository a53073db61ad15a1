package decompose

import (
	"context"
	"errors"
	"testing"

	"github.com/ZephrFish/LCA/internal/llm"
)

// scriptedLLM returns a fixed completion for every request.
type scriptedLLM struct {
	response string
	err      error
}

func (s *scriptedLLM) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	return s.response, s.err
}

func (s *scriptedLLM) ChatWithHistory(ctx context.Context, messages []llm.Message, model string) (string, error) {
	return s.response, s.err
}

func TestDecomposeParsesPlan(t *testing.T) {
	client := &scriptedLLM{response: `Here is the plan:
[
  {"description": "Write the parser", "agent_type": "code", "dependencies": []},
  {"description": "Run the tests", "agent_type": "shell", "dependencies": [0]}
]
Good luck!`}

	d := New(client, "test-model")
	subtasks, err := d.Decompose(context.Background(), "build and test a parser")
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}

	if len(subtasks) != 2 {
		t.Fatalf("got %d subtasks, want 2", len(subtasks))
	}
	if subtasks[0].HandlerID != "code" || subtasks[1].HandlerID != "shell" {
		t.Errorf("handler ids = %q, %q", subtasks[0].HandlerID, subtasks[1].HandlerID)
	}
	if len(subtasks[1].Dependencies) != 1 || subtasks[1].Dependencies[0] != 0 {
		t.Errorf("subtask 1 dependencies = %v, want [0]", subtasks[1].Dependencies)
	}
}

func TestDecomposeFallbackOnMalformedPlan(t *testing.T) {
	client := &scriptedLLM{response: "I think you should start by sketching the grammar."}

	d := New(client, "test-model")
	subtasks, err := d.Decompose(context.Background(), "implement a parser")
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}

	if len(subtasks) != 1 {
		t.Fatalf("got %d subtasks, want 1", len(subtasks))
	}
	if subtasks[0].Description != "implement a parser" {
		t.Errorf("description = %q, want original request", subtasks[0].Description)
	}
	if subtasks[0].HandlerID != "code" {
		t.Errorf("handler id = %q, want code", subtasks[0].HandlerID)
	}
	if len(subtasks[0].Dependencies) != 0 {
		t.Errorf("dependencies = %v, want none", subtasks[0].Dependencies)
	}
}

func TestDecomposeFallbackOnInvalidJSON(t *testing.T) {
	client := &scriptedLLM{response: `[{"description": "broken",]`}

	d := New(client, "test-model")
	subtasks, err := d.Decompose(context.Background(), "run the benchmarks")
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	if len(subtasks) != 1 {
		t.Fatalf("got %d subtasks, want 1", len(subtasks))
	}
	if subtasks[0].HandlerID != "shell" {
		t.Errorf("handler id = %q, want shell", subtasks[0].HandlerID)
	}
}

func TestDecomposeFallbackOnEmptyArray(t *testing.T) {
	client := &scriptedLLM{response: "[]"}

	d := New(client, "test-model")
	subtasks, err := d.Decompose(context.Background(), "explain the design")
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	if len(subtasks) != 1 {
		t.Fatalf("got %d subtasks, want 1", len(subtasks))
	}
	if subtasks[0].HandlerID != "analysis" {
		t.Errorf("handler id = %q, want analysis", subtasks[0].HandlerID)
	}
}

func TestDecomposePropagatesCompletionErrors(t *testing.T) {
	wantErr := errors.New("upstream unavailable")
	d := New(&scriptedLLM{err: wantErr}, "test-model")

	_, err := d.Decompose(context.Background(), "anything")
	if !errors.Is(err, wantErr) {
		t.Errorf("Decompose() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestInferHandlerPrecedence(t *testing.T) {
	tests := []struct {
		request string
		want    string
	}{
		{"implement a parser", "code"},
		{"write and run a script", "code"},
		{"run the linter", "shell"},
		{"read the changelog", "file"},
		{"search the repo with the external tool", "file"},
		{"use the mcp weather tool", "tools"},
		{"summarize the architecture", "analysis"},
	}

	for _, tt := range tests {
		t.Run(tt.request, func(t *testing.T) {
			if got := inferHandler(tt.request); got != tt.want {
				t.Errorf("inferHandler(%q) = %q, want %q", tt.request, got, tt.want)
			}
		})
	}
}
