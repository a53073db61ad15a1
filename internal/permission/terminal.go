package permission

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// TerminalPrompter prompts for permission decisions on a terminal.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading from stdin and writing
// to stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// ConfirmFileWrite prompts for a pending file write.
func (p *TerminalPrompter) ConfirmFileWrite(path, preview string) Decision {
	header := color.New(color.FgYellow, color.Bold)
	header.Fprintln(p.out, "\nFILE WRITE PERMISSION REQUESTED")
	fmt.Fprintf(p.out, "  Path: %s\n", path)
	fmt.Fprintln(p.out, "\n  Content preview (first 200 chars):")
	for i, line := range strings.Split(preview, "\n") {
		if i >= 10 {
			break
		}
		fmt.Fprintf(p.out, "  | %s\n", line)
	}
	return p.choose("Allow this write", "Deny this write")
}

// ConfirmShellExecution prompts for a pending shell command.
func (p *TerminalPrompter) ConfirmShellExecution(command string) Decision {
	header := color.New(color.FgYellow, color.Bold)
	header.Fprintln(p.out, "\nSHELL COMMAND PERMISSION REQUESTED")
	fmt.Fprintf(p.out, "  Command: %s\n", command)
	return p.choose("Execute this command", "Deny execution")
}

// choose renders the four-way option menu and loops until a valid
// choice is read. A read failure is treated as a denial.
func (p *TerminalPrompter) choose(allowLabel, denyLabel string) Decision {
	fmt.Fprintln(p.out, "\n  Options:")
	fmt.Fprintf(p.out, "    [y] %s\n", allowLabel)
	fmt.Fprintf(p.out, "    [n] %s\n", denyLabel)
	fmt.Fprintln(p.out, "    [a] Allow ALL future operations (blanket permission)")
	fmt.Fprintln(p.out, "    [q] Quit/Cancel task")

	for {
		fmt.Fprint(p.out, "\n  Your choice [y/n/a/q]: ")

		line, err := p.in.ReadString('\n')
		if err != nil {
			return DecisionDeny
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			fmt.Fprintln(p.out, "  >> Allowed")
			return DecisionAllow
		case "n", "no":
			fmt.Fprintln(p.out, "  >> Denied")
			return DecisionDeny
		case "a", "all":
			color.New(color.FgRed).Fprintln(p.out, "  >> WARNING: enabling blanket permissions for this session")
			return DecisionAllowAll
		case "q", "quit":
			fmt.Fprintln(p.out, "  >> Task cancelled")
			return DecisionCancel
		default:
			fmt.Fprintln(p.out, "  Invalid choice. Please enter y, n, a, or q.")
		}
	}
}

// Verify TerminalPrompter implements Prompter at compile time.
var _ Prompter = (*TerminalPrompter)(nil)
