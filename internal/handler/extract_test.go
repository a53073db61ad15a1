package handler

import (
	"reflect"
	"testing"
)

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "command line",
			response: "COMMAND: ls -la\nEXPLANATION: lists files",
			want:     "ls -la",
		},
		{
			name:     "command mid line",
			response: "Here you go. COMMAND: echo hi",
			want:     "echo hi",
		},
		{
			name:     "no command line drops explanation",
			response: "echo hello\nEXPLANATION: prints hello",
			want:     "echo hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCommand(tt.response); got != tt.want {
				t.Errorf("extractCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsDangerousCommand(t *testing.T) {
	dangerous := []string{
		"rm -rf /",
		"sudo rm -rf /*",
		":(){ :|:& };:",
		"mkfs.ext4 /dev/sdb1",
		"dd if=/dev/zero of=/dev/sda",
		"cat file > /dev/sda",
	}
	for _, cmd := range dangerous {
		if !isDangerousCommand(cmd) {
			t.Errorf("isDangerousCommand(%q) = false, want true", cmd)
		}
	}

	safe := []string{
		"ls -la",
		"rm -rf ./build",
		"echo hello > out.txt",
		"dd if=input.img of=output.img",
	}
	for _, cmd := range safe {
		if isDangerousCommand(cmd) {
			t.Errorf("isDangerousCommand(%q) = true, want false", cmd)
		}
	}
}

func TestDetectScriptCreation(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"printf 'echo hi\\n' > deploy.sh && chmod +x deploy.sh", "deploy.sh"},
		{"touch scrape.py", "scrape.py"},
		{"ls -la", ""},
		{"echo done", ""},
	}
	for _, tt := range tests {
		if got := detectScriptCreation(tt.command); got != tt.want {
			t.Errorf("detectScriptCreation(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestExtractField(t *testing.T) {
	response := "OPERATION: read\npath: /tmp/notes.txt\nCONTENT: hello world"

	tests := []struct {
		field string
		want  string
	}{
		{"OPERATION", "read"},
		{"PATH", "/tmp/notes.txt"},
		{"CONTENT", "hello world"},
		{"PATTERN", ""},
	}
	for _, tt := range tests {
		if got := extractField(response, tt.field); got != tt.want {
			t.Errorf("extractField(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestExtractCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "fenced with language tag",
			response: "Here:\n```go\npackage main\n```\nExplanation: trivial",
			want:     "package main",
		},
		{
			name:     "no fences returns whole response",
			response: "just prose",
			want:     "just prose",
		},
		{
			name:     "single fence returns whole response",
			response: "broken ```go\nfunc main() {}",
			want:     "broken ```go\nfunc main() {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCodeBlock(tt.response); got != tt.want {
				t.Errorf("extractCodeBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractFilePath(t *testing.T) {
	if got := extractFilePath("File: src/parser.go\n```go\n```"); got != "src/parser.go" {
		t.Errorf("extractFilePath() = %q, want src/parser.go", got)
	}
	if got := extractFilePath("no path here"); got != "" {
		t.Errorf("extractFilePath() = %q, want empty", got)
	}
}

func TestExtractFileReference(t *testing.T) {
	tests := []struct {
		task string
		want string
	}{
		{"analyze main.go for bugs", "main.go"},
		{"review lib/parser.rs carefully", "lib/parser.rs"},
		{"explain the architecture", ""},
		{"look at .gitignore", ""},
		{"check notes.txt please", ""},
	}
	for _, tt := range tests {
		if got := extractFileReference(tt.task); got != tt.want {
			t.Errorf("extractFileReference(%q) = %q, want %q", tt.task, got, tt.want)
		}
	}
}

func TestParseToolCalls(t *testing.T) {
	response := "TOOL: search\nARGUMENTS: {\"query\": \"golang\"}\nTOOL: fetch\nARGUMENTS: not json\nTOOL: bare"

	calls := parseToolCalls(response)
	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(calls))
	}

	if calls[0].name != "search" {
		t.Errorf("calls[0].name = %q, want search", calls[0].name)
	}
	if !reflect.DeepEqual(calls[0].arguments, map[string]any{"query": "golang"}) {
		t.Errorf("calls[0].arguments = %v, want query=golang", calls[0].arguments)
	}

	// Invalid JSON and missing ARGUMENTS both yield empty maps.
	for _, i := range []int{1, 2} {
		if len(calls[i].arguments) != 0 {
			t.Errorf("calls[%d].arguments = %v, want empty", i, calls[i].arguments)
		}
	}

	if got := parseToolCalls("no tools mentioned"); len(got) != 0 {
		t.Errorf("parseToolCalls(prose) = %v, want none", got)
	}
}
