package orchestrator

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/internal/permission"
	"github.com/ZephrFish/LCA/internal/state"
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

func newTestSystem(t *testing.T, client llm.Client) (*System, state.Store) {
	t.Helper()

	db, err := state.Open(filepath.Join(t.TempDir(), "lca.db"))
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sys := NewSystem(Options{
		LLM:        client,
		Model:      "test-model",
		WorkingDir: t.TempDir(),
		Gate:       permission.NewGate(permission.ModeAllowAll, nil),
		Store:      db,
	})
	t.Cleanup(func() { sys.Shutdown() })
	return sys, db
}

func TestSystemRegistersStandardHandlers(t *testing.T) {
	sys, _ := newTestSystem(t, &scriptedLLM{})

	want := []string{"code", "shell", "file", "analysis", "tools"}
	if got := sys.Handlers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Handlers() = %v, want %v", got, want)
	}
}

func TestSystemDirectDispatchSingleCapableHandler(t *testing.T) {
	// "explain the architecture" matches only the analysis handler.
	sys, store := newTestSystem(t, &scriptedLLM{response: "The system has three layers."})

	result, err := sys.ExecuteTask(context.Background(), "explain the architecture")
	if err != nil {
		t.Fatalf("ExecuteTask() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("ExecuteTask() failed: %s", result.Output)
	}
	if result.Output != "The system has three layers." {
		t.Errorf("direct dispatch output = %q", result.Output)
	}

	sessions, err := store.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if !sessions[0].Success || sessions[0].Task != "explain the architecture" {
		t.Errorf("persisted session = %+v", sessions[0])
	}

	messages, err := store.SessionMessages(sessions[0].ID)
	if err != nil {
		t.Fatalf("SessionMessages() error = %v", err)
	}
	if len(messages) == 0 {
		t.Error("no history persisted for session")
	}
}

func TestSystemDecomposesWhenMultipleHandlersCapable(t *testing.T) {
	// "implement and run the build" matches code and shell, forcing
	// decomposition. The scripted plan routes to the analysis handler,
	// which then receives the same scripted text as its answer.
	plan := `[{"description": "explain the build", "agent_type": "analysis", "dependencies": []}]`
	sys, store := newTestSystem(t, &scriptedLLM{response: plan})

	result, err := sys.ExecuteTask(context.Background(), "implement and run the build")
	if err != nil {
		t.Fatalf("ExecuteTask() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("ExecuteTask() failed: %s", result.Output)
	}
	if result.Output != "Subtask 0: SUCCESS" {
		t.Errorf("aggregate output = %q", result.Output)
	}

	sessions, _ := store.ListSessions(0)
	if len(sessions) != 1 || !sessions[0].Success {
		t.Errorf("persisted sessions = %+v", sessions)
	}
}

func TestSystemWorksWithoutStore(t *testing.T) {
	sys := NewSystem(Options{
		LLM:        &scriptedLLM{response: "fine"},
		Model:      "test-model",
		WorkingDir: t.TempDir(),
		Gate:       permission.NewGate(permission.ModeAllowAll, nil),
	})
	defer sys.Shutdown()

	result, err := sys.ExecuteTask(context.Background(), "explain the architecture")
	if err != nil {
		t.Fatalf("ExecuteTask() error = %v", err)
	}
	if !result.Success {
		t.Errorf("ExecuteTask() failed: %s", result.Output)
	}
}
