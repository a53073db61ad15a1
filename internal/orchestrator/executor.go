// Package orchestrator coordinates task planning and execution: the
// Executor walks a dependency-ordered subtask plan against the handler
// registry, and the System wires the registry, decomposer, and
// supporting services together.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ZephrFish/LCA/internal/handler"
	"github.com/ZephrFish/LCA/pkg/models"
)

// Report is the outcome of executing a subtask plan: the aggregate
// result plus the per-subtask results in plan order. After an abort,
// Results holds only the subtasks that ran before the aborting index.
type Report struct {
	// Overall is the aggregate result for the whole plan.
	Overall *models.ExecutionResult
	// Results holds one entry per executed subtask, indexed like the plan.
	Results []*models.ExecutionResult
}

// Executor runs subtask plans sequentially against a handler registry,
// gating each subtask on the success of its declared dependencies.
type Executor struct {
	registry *handler.Registry
}

// NewExecutor creates an Executor over the given registry.
func NewExecutor(registry *handler.Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs the plan in order. A forward dependency reference or a
// dependency on a failed subtask aborts the plan with a failing
// aggregate; an unknown handler id is a fatal error. A handler that
// returns an error yields a failed result for that subtask and
// execution continues, letting dependency checks decide what else runs.
func (e *Executor) Execute(ctx context.Context, subtasks []models.Subtask, taskCtx *models.TaskContext) (*Report, error) {
	results := make([]*models.ExecutionResult, 0, len(subtasks))

	for i, subtask := range subtasks {
		for _, d := range subtask.Dependencies {
			if d >= i || d < 0 {
				log.Printf("[executor] subtask %d declares invalid dependency %d", i, d)
				return &Report{
					Overall: models.FailureResult(fmt.Sprintf("Subtask %d has an invalid dependency reference: %d", i, d)),
					Results: results,
				}, nil
			}
			if !results[d].Success {
				log.Printf("[executor] subtask %d blocked by failed dependency %d", i, d)
				return &Report{
					Overall: models.FailureResult(fmt.Sprintf("Subtask %d skipped: dependency %d failed", i, d)),
					Results: results,
				}, nil
			}
		}

		h, ok := e.registry.Get(subtask.HandlerID)
		if !ok {
			return nil, fmt.Errorf("unknown handler %q for subtask %d", subtask.HandlerID, i)
		}

		log.Printf("[executor] subtask %d -> %s: %s", i, subtask.HandlerID, subtask.Description)
		result, err := h.Execute(ctx, subtask.Description, taskCtx)
		if err != nil {
			log.Printf("[executor] subtask %d failed: %v", i, err)
			result = models.FailureResult(err.Error())
		}
		results = append(results, result)
	}

	return &Report{Overall: aggregate(results), Results: results}, nil
}

// aggregate folds per-subtask results into one: success is the AND of
// every subtask, output lists pass/fail per index.
func aggregate(results []*models.ExecutionResult) *models.ExecutionResult {
	success := true
	var lines []string
	for i, r := range results {
		status := "SUCCESS"
		if !r.Success {
			status = "FAILED"
			success = false
		}
		lines = append(lines, fmt.Sprintf("Subtask %d: %s", i, status))
	}

	output := strings.Join(lines, "\n")
	if success {
		return models.SuccessResult(output)
	}
	return models.FailureResult(output)
}
