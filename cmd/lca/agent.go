package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var agentCmd = &cobra.Command{
	Use:   "agent <name> <task>",
	Short: "Send a task directly to a named handler, skipping planning",
	Long: `Sends the task straight to one handler: code, shell, file,
analysis, or tools. No decomposition happens; the handler receives the
task text verbatim.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, _, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		name := args[0]
		task := strings.Join(args[1:], " ")

		h, ok := sys.Handler(name)
		if !ok {
			return fmt.Errorf("unknown handler %q (available: %s)", name, strings.Join(sys.Handlers(), ", "))
		}

		result, err := h.Execute(cmd.Context(), task, sys.Context())
		if err != nil {
			return fmt.Errorf("handler %s: %w", name, err)
		}

		if result.Success {
			color.Green("[%s] completed", name)
		} else {
			color.Red("[%s] failed", name)
		}
		fmt.Println(result.Output)
		return nil
	},
}
