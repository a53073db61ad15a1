package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ZephrFish/LCA/internal/handler"
	"github.com/ZephrFish/LCA/pkg/models"
)

// recordingHandler counts invocations and returns a scripted outcome.
type recordingHandler struct {
	name   string
	fail   bool
	err    error
	called int
}

func (h *recordingHandler) Name() string                      { return h.name }
func (h *recordingHandler) Capabilities() []models.Capability { return nil }
func (h *recordingHandler) CanHandle(task string) bool        { return true }
func (h *recordingHandler) Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error) {
	h.called++
	if h.err != nil {
		return nil, h.err
	}
	if h.fail {
		return models.FailureResult("scripted failure"), nil
	}
	return models.SuccessResult("done: " + task), nil
}

func newTestRegistry(handlers ...*recordingHandler) *handler.Registry {
	r := handler.NewRegistry()
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

func TestExecuteForwardReferenceHalts(t *testing.T) {
	ok := &recordingHandler{name: "ok"}
	e := NewExecutor(newTestRegistry(ok))

	subtasks := []models.Subtask{
		{Description: "first", HandlerID: "ok"},
		{Description: "second", HandlerID: "ok", Dependencies: []int{2}},
		{Description: "third", HandlerID: "ok"},
	}

	report, err := e.Execute(context.Background(), subtasks, models.NewTaskContext("."))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if report.Overall.Success {
		t.Error("forward reference reported success")
	}
	if len(report.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1 (halt at offending subtask)", len(report.Results))
	}
	if ok.called != 1 {
		t.Errorf("handler called %d times, want 1", ok.called)
	}
}

func TestExecuteSelfReferenceHalts(t *testing.T) {
	ok := &recordingHandler{name: "ok"}
	e := NewExecutor(newTestRegistry(ok))

	subtasks := []models.Subtask{
		{Description: "loops", HandlerID: "ok", Dependencies: []int{0}},
	}

	report, err := e.Execute(context.Background(), subtasks, models.NewTaskContext("."))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if report.Overall.Success || len(report.Results) != 0 || ok.called != 0 {
		t.Errorf("self reference ran: success=%v results=%d calls=%d",
			report.Overall.Success, len(report.Results), ok.called)
	}
}

func TestExecuteFailedDependencyHalts(t *testing.T) {
	good := &recordingHandler{name: "good"}
	bad := &recordingHandler{name: "bad", fail: true}
	never := &recordingHandler{name: "never"}
	e := NewExecutor(newTestRegistry(good, bad, never))

	subtasks := []models.Subtask{
		{Description: "succeeds", HandlerID: "good"},
		{Description: "fails", HandlerID: "bad"},
		{Description: "blocked", HandlerID: "never", Dependencies: []int{1}},
	}

	report, err := e.Execute(context.Background(), subtasks, models.NewTaskContext("."))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if report.Overall.Success {
		t.Error("plan with failed dependency reported success")
	}
	if !strings.Contains(report.Overall.Output, "dependency 1") {
		t.Errorf("aggregate output %q does not name the unmet dependency", report.Overall.Output)
	}
	if len(report.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(report.Results))
	}
	if never.called != 0 {
		t.Errorf("blocked handler called %d times, want 0", never.called)
	}
}

func TestExecuteUnknownHandlerIsFatal(t *testing.T) {
	e := NewExecutor(newTestRegistry(&recordingHandler{name: "ok"}))

	subtasks := []models.Subtask{
		{Description: "mystery", HandlerID: "missing"},
	}

	_, err := e.Execute(context.Background(), subtasks, models.NewTaskContext("."))
	if err == nil {
		t.Fatal("Execute() error = nil, want unknown handler error")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error %q does not name the handler", err)
	}
}

func TestExecuteHandlerErrorBecomesFailedResult(t *testing.T) {
	broken := &recordingHandler{name: "broken", err: errors.New("exploded")}
	after := &recordingHandler{name: "after"}
	e := NewExecutor(newTestRegistry(broken, after))

	subtasks := []models.Subtask{
		{Description: "blows up", HandlerID: "broken"},
		{Description: "independent", HandlerID: "after"},
	}

	report, err := e.Execute(context.Background(), subtasks, models.NewTaskContext("."))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if report.Results[0].Success {
		t.Error("erroring handler produced a success result")
	}
	if !strings.Contains(report.Results[0].Output, "exploded") {
		t.Errorf("result output %q missing handler error", report.Results[0].Output)
	}
	if after.called != 1 {
		t.Error("independent later subtask did not run after handler error")
	}
	if report.Overall.Success {
		t.Error("aggregate success despite a failed subtask")
	}
}

func TestExecuteAggregateOutput(t *testing.T) {
	good := &recordingHandler{name: "good"}
	bad := &recordingHandler{name: "bad", fail: true}
	e := NewExecutor(newTestRegistry(good, bad))

	subtasks := []models.Subtask{
		{Description: "a", HandlerID: "good"},
		{Description: "b", HandlerID: "bad"},
		{Description: "c", HandlerID: "good"},
	}

	report, err := e.Execute(context.Background(), subtasks, models.NewTaskContext("."))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := "Subtask 0: SUCCESS\nSubtask 1: FAILED\nSubtask 2: SUCCESS"
	if report.Overall.Output != want {
		t.Errorf("aggregate output = %q, want %q", report.Overall.Output, want)
	}
	if report.Overall.Success {
		t.Error("aggregate success despite failed subtask")
	}
}

func TestExecuteAllSuccess(t *testing.T) {
	good := &recordingHandler{name: "good"}
	e := NewExecutor(newTestRegistry(good))

	subtasks := []models.Subtask{
		{Description: "a", HandlerID: "good"},
		{Description: "b", HandlerID: "good", Dependencies: []int{0}},
	}

	report, err := e.Execute(context.Background(), subtasks, models.NewTaskContext("."))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !report.Overall.Success {
		t.Errorf("aggregate failed: %s", report.Overall.Output)
	}
	if good.called != 2 {
		t.Errorf("handler called %d times, want 2", good.called)
	}
}
