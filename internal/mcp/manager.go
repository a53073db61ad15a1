package mcp

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Manager owns a named collection of tool providers. The provider map
// allows concurrent readers; registration and teardown take the write
// lock. Calls against distinct providers proceed independently: the
// map lock is held only while resolving, and each provider serializes
// its own exchanges.
type Manager struct {
	mu sync.RWMutex
	// servers maps provider name to its running Server.
	servers map[string]*Server
	// order records registration order so tool resolution is
	// deterministic when multiple providers expose the same tool name.
	order []string
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{servers: make(map[string]*Server)}
}

// Register constructs and starts a provider for config, then inserts it
// under config.Name. A prior entry under the same name is replaced but
// not stopped; stop it first if replacement is intended.
func (m *Manager) Register(config ServerConfig) error {
	log.Printf("[mcp] registering provider: %s", config.Name)

	// Start outside the lock; discovery can block on the child.
	server := NewServer(config)
	if err := server.Start(); err != nil {
		return fmt.Errorf("register provider %s: %w", config.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.servers[config.Name]; !exists {
		m.order = append(m.order, config.Name)
	}
	m.servers[config.Name] = server
	return nil
}

// ListAllTools returns a snapshot of every provider's tool descriptors,
// keyed by provider name.
func (m *Manager) ListAllTools() map[string][]Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make(map[string][]Tool, len(m.servers))
	for name, server := range m.servers {
		all[name] = server.Tools()
	}
	return all
}

// FindTool scans providers in registration order for a tool with the
// given name. The first provider scanned wins when names collide.
func (m *Manager) FindTool(toolName string) (string, Tool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, name := range m.order {
		server, ok := m.servers[name]
		if !ok {
			continue
		}
		if tool, ok := server.Tool(toolName); ok {
			return name, tool, true
		}
	}
	return "", Tool{}, false
}

// CallTool resolves the provider owning toolName and forwards the call.
func (m *Manager) CallTool(toolName string, arguments map[string]any) (json.RawMessage, error) {
	m.mu.RLock()
	var target *Server
	for _, name := range m.order {
		if server, ok := m.servers[name]; ok {
			if _, found := server.Tool(toolName); found {
				target = server
				break
			}
		}
	}
	m.mu.RUnlock()

	if target == nil {
		return nil, fmt.Errorf("tool %q not found", toolName)
	}

	log.Printf("[mcp] calling tool %s on provider %s", toolName, target.Name())
	return target.CallTool(toolName, arguments)
}

// StopServer stops the named provider and removes it from the map.
// Unknown names are a no-op.
func (m *Manager) StopServer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	server, ok := m.servers[name]
	if !ok {
		return nil
	}
	err := server.Stop()
	delete(m.servers, name)
	m.removeFromOrder(name)
	return err
}

// StopAll stops every provider and clears the map. Stops are
// best-effort; the first error is returned after all providers have
// been attempted.
func (m *Manager) StopAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for name, server := range m.servers {
		log.Printf("[mcp] stopping provider: %s", name)
		if err := server.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.servers = make(map[string]*Server)
	m.order = nil
	return firstErr
}

// Count returns the number of registered providers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.servers)
}

// removeFromOrder drops name from the registration-order slice.
// Callers hold mu.
func (m *Manager) removeFromOrder(name string) {
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
