package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ZephrFish/LCA/internal/decompose"
	"github.com/ZephrFish/LCA/internal/handler"
	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/internal/mcp"
	"github.com/ZephrFish/LCA/internal/permission"
	"github.com/ZephrFish/LCA/internal/state"
	"github.com/ZephrFish/LCA/internal/tools"
	"github.com/ZephrFish/LCA/pkg/models"
)

// Options configures a System.
type Options struct {
	// LLM is the completion client shared by decomposer and handlers.
	LLM llm.Client
	// Model is the model identifier passed on every completion call.
	Model string
	// WorkingDir roots all file operations and shell commands.
	WorkingDir string
	// Gate authorizes side-effecting operations.
	Gate *permission.Gate
	// Store persists project context and session logs; may be nil.
	Store state.Store
}

// System wires the handler registry, decomposer, executor, tool
// manager, and persistence into one task-execution entry point.
type System struct {
	registry   *handler.Registry
	decomposer *decompose.Decomposer
	executor   *Executor
	tools      *tools.Executor
	manager    *mcp.Manager
	store      state.Store
	taskCtx    *models.TaskContext
}

// NewSystem builds a System with the standard handler set registered
// in a fixed order.
func NewSystem(opts Options) *System {
	executor := tools.NewExecutor(opts.WorkingDir).WithGate(opts.Gate)
	manager := mcp.NewManager()

	registry := handler.NewRegistry()
	registry.Register(handler.NewCodeHandler(opts.LLM, executor, opts.Model))
	registry.Register(handler.NewShellHandler(opts.LLM, executor, opts.Model))
	registry.Register(handler.NewFileHandler(opts.LLM, executor, opts.Model))
	registry.Register(handler.NewAnalysisHandler(opts.LLM, executor, projectStore(opts.Store), opts.Model))
	registry.Register(handler.NewToolHandler(opts.LLM, manager, opts.Model))

	return &System{
		registry:   registry,
		decomposer: decompose.New(opts.LLM, opts.Model),
		executor:   NewExecutor(registry),
		tools:      executor,
		manager:    manager,
		store:      opts.Store,
		taskCtx:    models.NewTaskContext(opts.WorkingDir),
	}
}

// projectStore adapts a possibly-nil Store to the analysis handler's
// summary dependency. A typed nil inside a non-nil interface would
// defeat the handler's nil check.
func projectStore(s state.Store) handler.ProjectSummarizer {
	if s == nil {
		return nil
	}
	return s
}

// ExecuteTask runs one user task end to end. Exactly one capable
// handler means direct dispatch; zero or several mean the task is
// decomposed into a plan first. The outcome is persisted when a store
// is configured.
func (s *System) ExecuteTask(ctx context.Context, task string) (*models.ExecutionResult, error) {
	sessionID := uuid.NewString()
	s.recordSessionStart(sessionID, task)
	mark := len(s.taskCtx.History)

	result, err := s.dispatch(ctx, task)
	if err != nil {
		s.recordSessionEnd(sessionID, task, models.FailureResult(err.Error()), mark)
		return nil, err
	}

	s.recordSessionEnd(sessionID, task, result, mark)
	return result, nil
}

func (s *System) dispatch(ctx context.Context, task string) (*models.ExecutionResult, error) {
	capable := s.registry.FindCapable(task)
	if len(capable) == 1 {
		log.Printf("[system] direct dispatch to %s", capable[0].Name())
		return capable[0].Execute(ctx, task, s.taskCtx)
	}

	log.Printf("[system] %d capable handlers, decomposing", len(capable))
	subtasks, err := s.decomposer.Decompose(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("decompose task: %w", err)
	}

	report, err := s.executor.Execute(ctx, subtasks, s.taskCtx)
	if err != nil {
		return nil, fmt.Errorf("execute plan: %w", err)
	}
	return report.Overall, nil
}

func (s *System) recordSessionStart(sessionID, task string) {
	if s.store == nil {
		return
	}
	err := s.store.CreateSession(&state.SessionMemory{
		ID:        sessionID,
		Task:      task,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[system] persist session: %v", err)
	}
}

// recordSessionEnd stores the outcome plus the history entries this
// task added past mark.
func (s *System) recordSessionEnd(sessionID, task string, result *models.ExecutionResult, mark int) {
	if s.store == nil {
		return
	}
	err := s.store.UpdateSession(&state.SessionMemory{
		ID:      sessionID,
		Task:    task,
		Output:  result.Output,
		Success: result.Success,
	})
	if err != nil {
		log.Printf("[system] persist session result: %v", err)
	}
	for _, message := range s.taskCtx.History[mark:] {
		if err := s.store.AppendMessage(sessionID, message); err != nil {
			log.Printf("[system] persist session message: %v", err)
			break
		}
	}
}

// RegisterToolServer starts an external tool provider and makes its
// tools available to the tools handler.
func (s *System) RegisterToolServer(config mcp.ServerConfig) error {
	return s.manager.Register(config)
}

// Handler exposes a registered handler by name.
func (s *System) Handler(name string) (handler.Handler, bool) {
	return s.registry.Get(name)
}

// Handlers returns the registered handler names in registration order.
func (s *System) Handlers() []string {
	return s.registry.Names()
}

// Manager exposes the tool process manager.
func (s *System) Manager() *mcp.Manager {
	return s.manager
}

// Context returns the shared task context.
func (s *System) Context() *models.TaskContext {
	return s.taskCtx
}

// Shutdown stops all registered tool providers.
func (s *System) Shutdown() error {
	return s.manager.StopAll()
}
