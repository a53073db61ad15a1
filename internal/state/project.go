package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProjectContext describes the project the agent is working in. A
// database holds at most one record, refreshed by `lca init`.
type ProjectContext struct {
	Name        string    `json:"name"`
	RootPath    string    `json:"root_path"`
	Language    string    `json:"language"`
	Framework   string    `json:"framework"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InitProject inspects the directory and builds a ProjectContext from
// the build files it finds.
func InitProject(root string) (*ProjectContext, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}

	language := detectLanguage(abs)
	return &ProjectContext{
		Name:      filepath.Base(abs),
		RootPath:  abs,
		Language:  language,
		Framework: detectFramework(abs, language),
		UpdatedAt: time.Now(),
	}, nil
}

// detectLanguage guesses the primary language from well-known build
// files. First match wins.
func detectLanguage(root string) string {
	markers := []struct {
		file     string
		language string
	}{
		{"go.mod", "Go"},
		{"Cargo.toml", "Rust"},
		{"package.json", "JavaScript"},
		{"pyproject.toml", "Python"},
		{"requirements.txt", "Python"},
		{"pom.xml", "Java"},
		{"build.gradle", "Java"},
	}
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(root, m.file)); err == nil {
			if m.language == "JavaScript" {
				if _, err := os.Stat(filepath.Join(root, "tsconfig.json")); err == nil {
					return "TypeScript"
				}
			}
			return m.language
		}
	}
	return "unknown"
}

// detectFramework sniffs the dependency manifest for common frameworks.
func detectFramework(root, language string) string {
	var manifest string
	switch language {
	case "JavaScript", "TypeScript":
		manifest = "package.json"
	case "Rust":
		manifest = "Cargo.toml"
	case "Python":
		manifest = "pyproject.toml"
	case "Go":
		manifest = "go.mod"
	default:
		return ""
	}

	data, err := os.ReadFile(filepath.Join(root, manifest))
	if err != nil {
		return ""
	}
	content := strings.ToLower(string(data))

	frameworks := []struct {
		marker string
		name   string
	}{
		{"react", "React"},
		{"express", "Express"},
		{"next", "Next.js"},
		{"django", "Django"},
		{"flask", "Flask"},
		{"actix", "Actix"},
		{"tokio", "Tokio"},
		{"gin-gonic", "Gin"},
		{"cobra", "Cobra"},
	}
	for _, f := range frameworks {
		if strings.Contains(content, f.marker) {
			return f.name
		}
	}
	return ""
}

// SaveProjectContext upserts the single project-context row.
func (db *DB) SaveProjectContext(pc *ProjectContext) error {
	_, err := db.exec(`
		INSERT INTO project_context (id, name, root_path, language, framework, description, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			root_path = excluded.root_path,
			language = excluded.language,
			framework = excluded.framework,
			description = excluded.description,
			updated_at = excluded.updated_at
	`, pc.Name, pc.RootPath, pc.Language, pc.Framework, pc.Description, formatTime(pc.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save project context: %w", err)
	}
	return nil
}

// GetProjectContext returns the stored project context, or nil when the
// project has not been initialized.
func (db *DB) GetProjectContext() (*ProjectContext, error) {
	row := db.queryRow(`
		SELECT name, root_path, language, framework, description, updated_at
		FROM project_context WHERE id = 1
	`)

	var pc ProjectContext
	var updatedAt string
	err := row.Scan(&pc.Name, &pc.RootPath, &pc.Language, &pc.Framework, &pc.Description, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project context: %w", err)
	}

	pc.UpdatedAt, _ = parseTime(updatedAt)
	return &pc, nil
}

// ProjectSummary renders the stored context as a short block for
// inclusion in prompts.
func (db *DB) ProjectSummary() (string, error) {
	pc, err := db.GetProjectContext()
	if err != nil {
		return "", err
	}
	if pc == nil {
		return "No project context initialized", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", pc.Name)
	fmt.Fprintf(&b, "Root: %s\n", pc.RootPath)
	fmt.Fprintf(&b, "Language: %s\n", pc.Language)
	if pc.Framework != "" {
		fmt.Fprintf(&b, "Framework: %s\n", pc.Framework)
	}
	if pc.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", pc.Description)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
