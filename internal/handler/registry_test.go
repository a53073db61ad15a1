package handler

import (
	"context"
	"testing"

	"github.com/ZephrFish/LCA/pkg/models"
)

// stubHandler is a minimal Handler for registry tests.
type stubHandler struct {
	name    string
	matches bool
}

func (s *stubHandler) Name() string                        { return s.name }
func (s *stubHandler) Capabilities() []models.Capability   { return nil }
func (s *stubHandler) CanHandle(task string) bool          { return s.matches }
func (s *stubHandler) Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error) {
	return models.SuccessResult("ok"), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubHandler{name: "code"})

	if _, ok := r.Get("code"); !ok {
		t.Error("Get(code) not found after Register")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) unexpectedly found")
	}
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	first := &stubHandler{name: "code", matches: false}
	second := &stubHandler{name: "code", matches: true}

	r.Register(first)
	r.Register(second)

	got, ok := r.Get("code")
	if !ok {
		t.Fatal("Get(code) not found")
	}
	if got != Handler(second) {
		t.Error("second registration did not overwrite the first")
	}
	if len(r.Names()) != 1 {
		t.Errorf("Names() = %v, want single entry", r.Names())
	}
}

func TestRegistryFindCapable_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubHandler{name: "zeta", matches: true})
	r.Register(&stubHandler{name: "alpha", matches: true})
	r.Register(&stubHandler{name: "mid", matches: false})
	r.Register(&stubHandler{name: "beta", matches: true})

	capable := r.FindCapable("anything")
	if len(capable) != 3 {
		t.Fatalf("got %d capable handlers, want 3", len(capable))
	}

	want := []string{"zeta", "alpha", "beta"}
	for i, h := range capable {
		if h.Name() != want[i] {
			t.Errorf("capable[%d] = %q, want %q (registration order)", i, h.Name(), want[i])
		}
	}
}

func TestCanHandleKeywords(t *testing.T) {
	code := &CodeHandler{}
	shell := &ShellHandler{}
	file := &FileHandler{}
	analysis := &AnalysisHandler{}
	tool := &ToolHandler{}

	tests := []struct {
		task string
		h    Handler
		want bool
	}{
		{"implement a parser", code, true},
		{"Refactor the login flow", code, true},
		{"draw a picture", code, false},
		{"run the test suite", shell, true},
		{"execute ls in /tmp", shell, true},
		{"summarize this", shell, false},
		{"read config.yaml and report", file, true},
		{"search for TODO markers", file, true},
		{"ponder quietly", file, false},
		{"analyze main.go for bugs", analysis, true},
		{"explain this design", analysis, true},
		{"use the external search tool", tool, true},
		{"call the mcp server", tool, true},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			if got := tt.h.CanHandle(tt.task); got != tt.want {
				t.Errorf("%s.CanHandle(%q) = %v, want %v", tt.h.Name(), tt.task, got, tt.want)
			}
		})
	}
}
