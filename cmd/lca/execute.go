package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var executeCmd = &cobra.Command{
	Use:   "execute <task>",
	Short: "Execute a single task and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, _, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		task := strings.Join(args, " ")
		result, err := sys.ExecuteTask(cmd.Context(), task)
		if err != nil {
			return fmt.Errorf("execute task: %w", err)
		}

		if result.Success {
			color.Green("Task completed")
		} else {
			color.Red("Task failed")
		}
		fmt.Println(result.Output)

		if !result.Success {
			return fmt.Errorf("task failed")
		}
		return nil
	},
}
