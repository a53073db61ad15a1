package handler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/internal/tools"
	"github.com/ZephrFish/LCA/pkg/models"
)

// analysisSystemPrompt frames the model as a code analysis assistant.
const analysisSystemPrompt = `You are a code analysis expert.
When analyzing code or projects:
1. Examine the structure and organization
2. Identify patterns, issues, and improvements
3. Provide clear, actionable insights
4. Consider best practices and common pitfalls
5. Be thorough but concise`

var analysisKeywords = []string{"analyze", "explain", "review", "understand", "investigate", "examine"}

// sourceExtensions identify file references worth reading for analysis.
var sourceExtensions = []string{".rs", ".py", ".js", ".ts", ".java", ".go", ".cpp", ".c", ".h"}

// ProjectSummarizer supplies a human-readable summary of the current
// project. Satisfied by the state store.
type ProjectSummarizer interface {
	ProjectSummary() (string, error)
}

// AnalysisHandler answers analysis and explanation tasks, pulling in
// referenced files and the stored project context.
type AnalysisHandler struct {
	llm     llm.Client
	tools   *tools.Executor
	project ProjectSummarizer
	model   string
}

// NewAnalysisHandler creates an AnalysisHandler. project may be nil
// when no store is available.
func NewAnalysisHandler(client llm.Client, executor *tools.Executor, project ProjectSummarizer, model string) *AnalysisHandler {
	return &AnalysisHandler{llm: client, tools: executor, project: project, model: model}
}

// Name implements Handler.
func (h *AnalysisHandler) Name() string { return "analysis" }

// Capabilities implements Handler.
func (h *AnalysisHandler) Capabilities() []models.Capability {
	return []models.Capability{models.CapabilityAnalysis}
}

// CanHandle implements Handler.
func (h *AnalysisHandler) CanHandle(task string) bool {
	return matchesKeyword(task, analysisKeywords)
}

// Execute implements Handler.
func (h *AnalysisHandler) Execute(ctx context.Context, task string, taskCtx *models.TaskContext) (*models.ExecutionResult, error) {
	log.Printf("[analysis] executing: %s", task)

	var fileContext string
	if path := extractFileReference(task); path != "" {
		if content, err := h.tools.ReadFile(path); err == nil {
			fileContext = fmt.Sprintf("File: %s\n\n%s", path, content)
			taskCtx.AddMessage("Analyzing file: " + path)
		} else {
			log.Printf("[analysis] could not read %s: %v", path, err)
		}
	}

	projectContext := "No project context initialized"
	if h.project != nil {
		if summary, err := h.project.ProjectSummary(); err == nil {
			projectContext = summary
		}
	}

	userMessage := fmt.Sprintf("Task: %s\n\nProject context:\n%s", task, projectContext)
	if fileContext != "" {
		userMessage = fmt.Sprintf("Task: %s\n\n%s\n\nProject context:\n%s", task, fileContext, projectContext)
	}

	response, err := h.llm.ChatWithHistory(ctx, []llm.Message{
		llm.SystemMessage(analysisSystemPrompt),
		llm.UserMessage(userMessage),
	}, h.model)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	taskCtx.AddMessage("Analysis task: " + task)
	taskCtx.AddMessage("Analysis result: " + response)

	return models.SuccessResult(response), nil
}

// extractFileReference finds the first word in the task that looks like
// a source file path.
func extractFileReference(task string) string {
	for _, word := range strings.Fields(task) {
		if !strings.Contains(word, ".") || strings.HasPrefix(word, ".") {
			continue
		}
		for _, ext := range sourceExtensions {
			if strings.HasSuffix(word, ext) {
				return word
			}
		}
	}
	return ""
}

// Verify AnalysisHandler implements Handler at compile time.
var _ Handler = (*AnalysisHandler)(nil)
