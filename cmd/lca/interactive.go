package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/ZephrFish/LCA/internal/orchestrator"
	"github.com/ZephrFish/LCA/internal/version"
)

// runInteractive is the default mode: a readline loop that executes
// each entered task and handles a few slash commands locally.
func runInteractive() error {
	sys, cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	color.Cyan("lca %s — local coding agent", version.Get())
	fmt.Printf("Provider: %s  Model: %s\n", cfg.Provider, cfg.Model)
	fmt.Println("Type a task, or /help for commands.")
	fmt.Println()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          color.GreenString("lca> "),
		HistoryFile:     historyFile(),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initialize input: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := handleCommand(sys, input); quit {
				return nil
			}
			continue
		}

		result, err := sys.ExecuteTask(context.Background(), input)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}
		if result.Success {
			color.Green("done")
		} else {
			color.Red("failed")
		}
		fmt.Println(result.Output)
		fmt.Println()
	}
}

// handleCommand runs one slash command. It returns true when the loop
// should exit.
func handleCommand(sys *orchestrator.System, input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /handlers   list registered handlers")
		fmt.Println("  /tools      list tools from configured tool servers")
		fmt.Println("  /quit       exit")
		fmt.Println("Anything else is executed as a task.")

	case "/handlers":
		for _, name := range sys.Handlers() {
			fmt.Println("  " + name)
		}

	case "/tools":
		all := sys.Manager().ListAllTools()
		if len(all) == 0 {
			fmt.Println("No tools available.")
			break
		}
		for provider, providerTools := range all {
			color.Cyan("%s", provider)
			for _, tool := range providerTools {
				fmt.Printf("  %s  %s\n", color.YellowString(tool.Name), tool.Description)
			}
		}

	default:
		color.Red("unknown command %s (try /help)", input)
	}
	return false
}

// historyFile returns the readline history location, or empty if no
// home directory is available.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".local", "share", "lca")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
