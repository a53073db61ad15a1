// Package decompose breaks a user request into an ordered plan of
// subtasks with dependency indices.
package decompose

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/pkg/models"
)

// Decomposer asks the completion service to plan a request as a JSON
// array of subtasks. A malformed plan degrades to a single subtask
// rather than failing the request.
type Decomposer struct {
	llm   llm.Client
	model string
}

// New creates a Decomposer backed by the given completion client.
func New(client llm.Client, model string) *Decomposer {
	return &Decomposer{llm: client, model: model}
}

// Decompose plans the request into subtasks. The returned slice is
// never empty: when the model's answer cannot be parsed, a single
// subtask covering the whole request is returned, typed by keyword.
// Completion transport errors are returned as-is.
func (d *Decomposer) Decompose(ctx context.Context, request string) ([]models.Subtask, error) {
	log.Printf("[decompose] planning: %s", request)

	response, err := d.llm.ChatWithHistory(ctx, []llm.Message{
		llm.SystemMessage(decompositionPrompt),
		llm.UserMessage("Task: " + request),
	}, d.model)
	if err != nil {
		return nil, fmt.Errorf("decompose request: %w", err)
	}

	subtasks := parsePlan(response)
	if len(subtasks) == 0 {
		log.Printf("[decompose] unparseable plan, falling back to single subtask")
		subtasks = []models.Subtask{{
			Description:  request,
			HandlerID:    inferHandler(request),
			Dependencies: nil,
		}}
	}

	log.Printf("[decompose] planned %d subtask(s)", len(subtasks))
	return subtasks, nil
}

// parsePlan extracts the JSON array between the first '[' and the last
// ']' of the response and decodes it. Anything unparseable yields nil.
func parsePlan(response string) []models.Subtask {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end <= start {
		return nil
	}

	var subtasks []models.Subtask
	if err := json.Unmarshal([]byte(response[start:end+1]), &subtasks); err != nil {
		return nil
	}
	return subtasks
}

// inferHandler picks a handler for the whole request by keyword. Order
// matters: earlier categories win when keywords overlap.
func inferHandler(request string) string {
	lower := strings.ToLower(request)

	categories := []struct {
		handler  string
		keywords []string
	}{
		{"code", []string{"code", "implement", "write"}},
		{"shell", []string{"run", "execute", "command"}},
		{"file", []string{"read", "file", "search"}},
		{"tools", []string{"mcp", "tool", "external"}},
	}

	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.handler
			}
		}
	}
	return "analysis"
}
