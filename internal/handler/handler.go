// Package handler defines the polymorphic task handler interface, the
// capability registry that routes tasks to handlers, and the concrete
// handlers for code, shell, file, analysis, and provider-tool work.
package handler

import (
	"context"
	"strings"

	"github.com/ZephrFish/LCA/pkg/models"
)

// Handler executes task descriptions within a capability area.
type Handler interface {
	// Name is the handler's unique identifier in the registry.
	Name() string
	// Capabilities lists the classes of work this handler performs.
	Capabilities() []models.Capability
	// CanHandle reports whether this handler recognizes the task text.
	CanHandle(task string) bool
	// Execute runs the task against the shared task context.
	Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error)
}

// Registry maps handler identifiers to handler instances. Lookup is
// pure; registration order is preserved for deterministic capability
// queries.
type Registry struct {
	handlers map[string]Handler
	order    []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register stores a handler by its name, overwriting any prior handler
// registered under the same name.
func (r *Registry) Register(h Handler) {
	if _, exists := r.handlers[h.Name()]; !exists {
		r.order = append(r.order, h.Name())
	}
	r.handlers[h.Name()] = h
}

// Get returns the handler registered under name, if any.
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// FindCapable returns every handler whose CanHandle predicate accepts
// the task, in registration order.
func (r *Registry) FindCapable(task string) []Handler {
	var capable []Handler
	for _, name := range r.order {
		if h := r.handlers[name]; h.CanHandle(task) {
			capable = append(capable, h)
		}
	}
	return capable
}

// Names returns the registered handler names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// matchesKeyword reports whether the task, lowercased, contains any of
// the given keywords.
func matchesKeyword(task string, keywords []string) bool {
	taskLower := strings.ToLower(task)
	for _, kw := range keywords {
		if strings.Contains(taskLower, kw) {
			return true
		}
	}
	return false
}
