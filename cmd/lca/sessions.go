package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZephrFish/LCA/internal/config"
	"github.com/ZephrFish/LCA/internal/state"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent task sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		sessions, err := store.ListSessions(sessionsLimit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		for _, s := range sessions {
			status := color.GreenString("ok")
			if !s.Success {
				status = color.RedString("failed")
			}
			fmt.Printf("%s  %s  [%s]  %s\n",
				s.CreatedAt.Format("2006-01-02 15:04"), shortID(s.ID), status, s.Task)
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Maximum number of sessions to show")
}
