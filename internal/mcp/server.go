package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
)

// ServerConfig describes how to launch one tool provider process.
// Supplied once at registration; immutable afterward.
type ServerConfig struct {
	// Name is the provider's unique key in the manager.
	Name string `mapstructure:"name" json:"name"`
	// Command is the executable to spawn.
	Command string `mapstructure:"command" json:"command"`
	// Args are the command's arguments.
	Args []string `mapstructure:"args" json:"args"`
	// Env holds extra environment variables for the process.
	Env map[string]string `mapstructure:"env" json:"env,omitempty"`
}

// ProviderError indicates a failure confined to one tool provider:
// a spawn failure, a protocol-level parse failure, or a failure the
// remote side reported. It is fatal to the affected call only.
type ProviderError struct {
	// Server is the provider's registered name.
	Server string
	// Tool is the tool being called, if any.
	Tool string
	// Msg is the failure detail.
	Msg string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("provider %s: tool %s: %s", e.Server, e.Tool, e.Msg)
	}
	return fmt.Sprintf("provider %s: %s", e.Server, e.Msg)
}

// Server wraps one live tool provider process. Lifecycle is
// unstarted -> running (after spawn plus discovery) -> stopped.
// A stopped server cannot be restarted; create a new instance.
type Server struct {
	config ServerConfig

	// mu serializes the request/response exchange. The protocol is
	// strictly one-at-a-time per provider; mu guards nothing else, so
	// an in-flight (or hung) exchange never blocks cached-tool reads
	// or calls against other providers.
	mu sync.Mutex

	// stateMu guards lifecycle fields and the tool cache. The cache is
	// written once during Start, so reads never contend with exchanges.
	stateMu sync.RWMutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	tools   []Tool
	started bool
	stopped bool
}

// NewServer creates an unstarted Server for the given config.
func NewServer(config ServerConfig) *Server {
	return &Server{config: config}
}

// Name returns the provider's registered name.
func (s *Server) Name() string {
	return s.config.Name
}

// Start spawns the provider process with piped stdio and immediately
// performs tool discovery. A spawn or discovery failure is fatal to
// this instance: the child, if any, is killed before returning.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.spawn(); err != nil {
		return err
	}

	// Teardown on every discovery failure path so the child never leaks.
	if err := s.discoverTools(); err != nil {
		s.kill()
		return err
	}

	log.Printf("[mcp] provider %s started with %d tools", s.config.Name, len(s.Tools()))
	return nil
}

// spawn launches the child process and transitions to running.
// Callers hold mu.
func (s *Server) spawn() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.started {
		return fmt.Errorf("provider %s already started", s.config.Name)
	}
	if s.stopped {
		return fmt.Errorf("provider %s already stopped", s.config.Name)
	}

	log.Printf("[mcp] starting provider: %s", s.config.Name)

	cmd := exec.Command(s.config.Command, s.config.Args...)
	cmd.Env = os.Environ()
	for key, value := range s.config.Env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return &ProviderError{Server: s.config.Name, Msg: fmt.Sprintf("spawn %s: %v", s.config.Command, err)}
	}

	s.cmd = cmd
	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)
	s.started = true
	return nil
}

// discoverTools runs the tools/list exchange and caches the returned
// descriptors. The cache lives until the process stops. Callers hold mu.
func (s *Server) discoverTools() error {
	resp, err := s.exchange(NewListToolsRequest())
	if err != nil {
		return err
	}
	if !resp.Success || resp.Result == nil {
		return nil
	}

	var tools []Tool
	if err := json.Unmarshal(resp.Result, &tools); err != nil {
		// A provider with an unparseable tool list is still usable for
		// prompts/resources; it just exposes no tools.
		return nil
	}

	s.stateMu.Lock()
	s.tools = tools
	s.stateMu.Unlock()
	return nil
}

// exchange writes one request line and reads one response line.
// Callers hold mu; the wire I/O runs without stateMu so lifecycle
// reads stay responsive while a provider is slow.
func (s *Server) exchange(req *Request) (*Response, error) {
	s.stateMu.RLock()
	running := s.started && !s.stopped
	stdin, stdout := s.stdin, s.stdout
	s.stateMu.RUnlock()

	if !running {
		return nil, &ProviderError{Server: s.config.Name, Msg: "provider not running"}
	}

	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if _, err := stdin.Write(append(line, '\n')); err != nil {
		return nil, &ProviderError{Server: s.config.Name, Msg: fmt.Sprintf("write request: %v", err)}
	}

	respLine, err := stdout.ReadString('\n')
	if err != nil {
		return nil, &ProviderError{Server: s.config.Name, Msg: fmt.Sprintf("read response: %v", err)}
	}

	var resp Response
	if err := json.Unmarshal([]byte(respLine), &resp); err != nil {
		return nil, &ProviderError{Server: s.config.Name, Msg: fmt.Sprintf("decode response: %v", err)}
	}
	return &resp, nil
}

// Send performs one synchronous request/response exchange.
func (s *Server) Send(req *Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchange(req)
}

// CallTool invokes a named tool and returns the unwrapped result value.
// A remote-reported failure, or a successful response with no result,
// is a ProviderError.
func (s *Server) CallTool(name string, arguments map[string]any) (json.RawMessage, error) {
	resp, err := s.Send(NewCallToolRequest(name, arguments))
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &ProviderError{Server: s.config.Name, Tool: name, Msg: resp.Error}
	}
	if resp.Result == nil {
		return nil, &ProviderError{Server: s.config.Name, Tool: name, Msg: "no result from tool call"}
	}
	return resp.Result, nil
}

// Tools returns the cached tool descriptors. Reads the cache only and
// never waits on an in-flight exchange.
func (s *Server) Tools() []Tool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	out := make([]Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// Tool returns the cached descriptor for a named tool, if present.
func (s *Server) Tool(name string) (Tool, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	for _, tool := range s.tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}

// Stop terminates the provider process. Stopping an already-stopped or
// never-started server is a no-op. Stop does not wait for an in-flight
// exchange; killing the child fails that exchange with a read error.
func (s *Server) Stop() error {
	s.stateMu.Lock()
	if s.stopped || !s.started {
		s.stopped = true
		s.stateMu.Unlock()
		return nil
	}
	s.stateMu.Unlock()

	log.Printf("[mcp] stopping provider: %s", s.config.Name)
	s.kill()
	return nil
}

// kill terminates the child best-effort and reaps it.
func (s *Server) kill() {
	s.stateMu.Lock()
	s.stopped = true
	stdin, cmd := s.stdin, s.cmd
	s.stateMu.Unlock()

	if stdin != nil {
		stdin.Close()
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
}
