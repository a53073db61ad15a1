// Package permission implements the shared authorization gate consulted
// before any side-effecting operation runs. The gate starts in Ask mode
// and can be escalated, one-way, to AllowAll for the rest of the process.
package permission

import (
	"errors"
	"sync"
)

// Mode is the gate's authorization mode.
type Mode string

const (
	// ModeAsk prompts for every side-effecting operation.
	ModeAsk Mode = "ask"
	// ModeAllowAll allows every operation without prompting.
	ModeAllowAll Mode = "allow_all"
)

// Decision is the outcome of an interactive permission prompt.
type Decision int

const (
	// DecisionDeny rejects this one operation.
	DecisionDeny Decision = iota
	// DecisionAllow approves this one operation.
	DecisionAllow
	// DecisionAllowAll approves this operation and escalates the gate
	// to AllowAll for the remainder of the session.
	DecisionAllowAll
	// DecisionCancel cancels the task; treated as a denial.
	DecisionCancel
)

// ErrDenied is returned (wrapped) by side-effecting primitives when the
// user declines or cancels an operation. It is recoverable: the caller
// may re-issue with different parameters or escalated permissions.
var ErrDenied = errors.New("permission denied")

// Prompter asks the user to approve a pending operation.
type Prompter interface {
	// ConfirmFileWrite prompts for a file write to path. preview holds
	// at most the first 200 characters of the content.
	ConfirmFileWrite(path, preview string) Decision
	// ConfirmShellExecution prompts for executing a shell command.
	ConfirmShellExecution(command string) Decision
}

// Gate is the process-wide permission state shared by every
// side-effecting call site.
type Gate struct {
	mu       sync.Mutex
	mode     Mode
	prompter Prompter
}

// NewGate creates a Gate in the given mode using the given prompter.
func NewGate(mode Mode, prompter Prompter) *Gate {
	return &Gate{mode: mode, prompter: prompter}
}

// Mode returns the current authorization mode without mutating it.
func (g *Gate) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// Escalate transitions the gate to AllowAll. The transition is one-way;
// escalating an already-escalated gate is a no-op.
func (g *Gate) Escalate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = ModeAllowAll
}

// RequestFileWrite asks whether a file write to path may proceed.
func (g *Gate) RequestFileWrite(path, preview string) bool {
	if g.Mode() == ModeAllowAll {
		return true
	}
	return g.apply(g.prompter.ConfirmFileWrite(path, preview))
}

// RequestShellExecution asks whether a shell command may run.
func (g *Gate) RequestShellExecution(command string) bool {
	if g.Mode() == ModeAllowAll {
		return true
	}
	return g.apply(g.prompter.ConfirmShellExecution(command))
}

// apply maps a prompt decision onto the gate state and the boolean
// answer the caller receives.
func (g *Gate) apply(decision Decision) bool {
	switch decision {
	case DecisionAllow:
		return true
	case DecisionAllowAll:
		g.Escalate()
		return true
	default:
		return false
	}
}
