package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZephrFish/LCA/internal/config"
	"github.com/ZephrFish/LCA/internal/state"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize project context for the given directory",
	Long: `Inspects the project's build files, detects its language and
framework, and stores the result so analysis tasks can include project
context in their prompts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		pc, err := state.InitProject(root)
		if err != nil {
			return fmt.Errorf("inspect project: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath := state.DefaultDBPath()
		if cfg.DataDir != "" {
			dbPath = filepath.Join(cfg.DataDir, "lca.db")
		}

		store, err := state.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open state database: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		if err := store.SaveProjectContext(pc); err != nil {
			return fmt.Errorf("save project context: %w", err)
		}

		color.Green("Project context initialized")
		summary, err := store.ProjectSummary()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, summary)
		return nil
	},
}
