package permission

import (
	"sync"
	"testing"
)

// scriptedPrompter returns queued decisions and counts prompts.
type scriptedPrompter struct {
	mu        sync.Mutex
	decisions []Decision
	prompts   int
}

func (p *scriptedPrompter) next() Decision {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts++
	if len(p.decisions) == 0 {
		return DecisionDeny
	}
	d := p.decisions[0]
	p.decisions = p.decisions[1:]
	return d
}

func (p *scriptedPrompter) ConfirmFileWrite(path, preview string) Decision {
	return p.next()
}

func (p *scriptedPrompter) ConfirmShellExecution(command string) Decision {
	return p.next()
}

func (p *scriptedPrompter) promptCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prompts
}

func TestGate_AllowAllMode(t *testing.T) {
	prompter := &scriptedPrompter{}
	gate := NewGate(ModeAllowAll, prompter)

	if !gate.RequestFileWrite("/tmp/test.txt", "content") {
		t.Error("RequestFileWrite should return true under AllowAll")
	}
	if !gate.RequestShellExecution("ls -la") {
		t.Error("RequestShellExecution should return true under AllowAll")
	}
	if prompter.promptCount() != 0 {
		t.Errorf("AllowAll mode prompted %d times, want 0", prompter.promptCount())
	}
}

func TestGate_AskDecisions(t *testing.T) {
	tests := []struct {
		name     string
		decision Decision
		want     bool
	}{
		{"allow once", DecisionAllow, true},
		{"deny once", DecisionDeny, false},
		{"cancel", DecisionCancel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(ModeAsk, &scriptedPrompter{decisions: []Decision{tt.decision}})
			if got := gate.RequestShellExecution("echo hi"); got != tt.want {
				t.Errorf("RequestShellExecution = %v, want %v", got, tt.want)
			}
			if gate.Mode() != ModeAsk {
				t.Errorf("mode = %q, want ask (no escalation)", gate.Mode())
			}
		})
	}
}

func TestGate_EscalationSticks(t *testing.T) {
	prompter := &scriptedPrompter{decisions: []Decision{DecisionAllowAll}}
	gate := NewGate(ModeAsk, prompter)

	if !gate.RequestShellExecution("make build") {
		t.Fatal("escalating decision should allow the triggering operation")
	}
	if gate.Mode() != ModeAllowAll {
		t.Fatalf("mode = %q, want allow_all after escalation", gate.Mode())
	}

	// Subsequent checks on the same gate pass without interaction.
	if !gate.RequestFileWrite("out.txt", "data") {
		t.Error("RequestFileWrite should return true after escalation")
	}
	if prompter.promptCount() != 1 {
		t.Errorf("prompted %d times, want 1 (escalation only)", prompter.promptCount())
	}
}

func TestGate_ConcurrentEscalation(t *testing.T) {
	// Every goroutine either sees Ask and escalates, or sees AllowAll
	// and passes. All must return true; the final mode is AllowAll.
	gate := NewGate(ModeAsk, &scriptedPrompter{decisions: []Decision{
		DecisionAllowAll, DecisionAllowAll, DecisionAllowAll, DecisionAllowAll,
		DecisionAllowAll, DecisionAllowAll, DecisionAllowAll, DecisionAllowAll,
	}})

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = gate.RequestShellExecution("true")
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		if !ok {
			t.Errorf("goroutine %d was denied", i)
		}
	}
	if gate.Mode() != ModeAllowAll {
		t.Errorf("mode = %q, want allow_all", gate.Mode())
	}
}
