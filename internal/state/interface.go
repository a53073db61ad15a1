package state

import "io"

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// ProjectStore persists the single project-context record.
type ProjectStore interface {
	SaveProjectContext(pc *ProjectContext) error
	GetProjectContext() (*ProjectContext, error)
	ProjectSummary() (string, error)
}

// SessionStore persists per-session task logs.
type SessionStore interface {
	CreateSession(s *SessionMemory) error
	UpdateSession(s *SessionMemory) error
	GetSession(id string) (*SessionMemory, error)
	ListSessions(limit int) ([]SessionMemory, error)
	AppendMessage(sessionID, message string) error
	SessionMessages(sessionID string) ([]string, error)
}

// Store is the full persistence interface the orchestration layer
// depends on, decoupled from the concrete SQLite implementation.
type Store interface {
	io.Closer
	Migrator
	ProjectStore
	SessionStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store        = (*DB)(nil)
	_ Migrator     = (*DB)(nil)
	_ ProjectStore = (*DB)(nil)
	_ SessionStore = (*DB)(nil)
)
