// Package tools provides the side-effecting primitives handlers invoke:
// file reads and writes, directory listing, content search, and shell
// execution. Writes and shell commands pass through the permission gate.
package tools

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZephrFish/LCA/internal/permission"
)

// previewLimit is how many characters of pending file content are shown
// in a permission prompt.
const previewLimit = 200

// Executor runs file and shell primitives relative to a base path.
type Executor struct {
	basePath string
	gate     *permission.Gate
}

// NewExecutor creates an Executor rooted at basePath with no gate;
// all operations are permitted.
func NewExecutor(basePath string) *Executor {
	return &Executor{basePath: basePath}
}

// WithGate attaches a permission gate and returns the executor.
func (e *Executor) WithGate(gate *permission.Gate) *Executor {
	e.gate = gate
	return e
}

// resolve joins a relative path onto the base path. Absolute paths are
// used as-is.
func (e *Executor) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.basePath, path)
}

// ReadFile returns the contents of the file at path.
func (e *Executor) ReadFile(path string) (string, error) {
	full := e.resolve(path)

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", full, err)
	}
	return string(data), nil
}

// WriteFile writes content to the file at path, creating parent
// directories as needed. The write is subject to the permission gate.
func (e *Executor) WriteFile(path, content string) error {
	full := e.resolve(path)

	if e.gate != nil {
		preview := content
		if len(preview) > previewLimit {
			preview = preview[:previewLimit]
		}
		if !e.gate.RequestFileWrite(path, preview) {
			log.Printf("[tools] file write denied: %s", full)
			return fmt.Errorf("write file %s: %w", path, permission.ErrDenied)
		}
	}

	if dir := filepath.Dir(full); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", full, err)
	}
	return nil
}

// ListFiles returns the entries of the directory at path, each tagged
// as a file or directory.
func (e *Executor) ListFiles(path string) ([]string, error) {
	full := e.resolve(path)

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("list files in %s: %w", full, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		kind := "file"
		if entry.IsDir() {
			kind = "dir"
		}
		files = append(files, fmt.Sprintf("%s (%s)", entry.Name(), kind))
	}
	return files, nil
}

// SearchFiles walks the tree under basePath and returns the paths of
// regular files whose contents contain pattern. Unreadable files are
// skipped.
func (e *Executor) SearchFiles(basePath, pattern string) ([]string, error) {
	full := e.resolve(basePath)

	var matches []string
	err := filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if strings.Contains(string(content), pattern) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search files in %s: %w", full, err)
	}
	return matches, nil
}

// ExecuteShell runs command through "sh -c" in workingDir, subject to
// the permission gate. A command that exits non-zero is not an error:
// its combined output is returned with a failure preamble so the caller
// can surface it.
func (e *Executor) ExecuteShell(ctx context.Context, command, workingDir string) (string, error) {
	if e.gate != nil {
		if !e.gate.RequestShellExecution(command) {
			log.Printf("[tools] shell execution denied: %s", command)
			return "", fmt.Errorf("execute %q: %w", command, permission.ErrDenied)
		}
	}

	full := e.resolve(workingDir)
	log.Printf("[tools] executing shell command: %s in %s", command, full)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = full

	stdout, stderr := new(strings.Builder), new(strings.Builder)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return "", fmt.Errorf("execute %q: %w", command, err)
		}
		return fmt.Sprintf("Command failed:\nStdout: %s\nStderr: %s", stdout, stderr), nil
	}

	return stdout.String(), nil
}

// FileExists reports whether a file exists at path.
func (e *Executor) FileExists(path string) bool {
	_, err := os.Stat(e.resolve(path))
	return err == nil
}
