package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ZephrFish/LCA/internal/config"
	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/internal/orchestrator"
	"github.com/ZephrFish/LCA/internal/permission"
	"github.com/ZephrFish/LCA/internal/state"
)

var (
	flagProvider   string
	flagModel      string
	flagWorkingDir string
	flagAllowAll   bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lca",
	Short: "Local coding agent",
	Long: `lca is a local coding agent that plans tasks, routes them to
capability-specific handlers, and executes them against your project.

With no arguments, launches an interactive session where you can type
tasks and watch them execute.

Core capabilities:
- Decomposes requests into dependency-ordered subtasks
- Generates and edits code via a local or remote model
- Runs shell commands and file operations behind a permission gate
- Calls external tools over stdio tool servers`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "Completion provider: ollama, lmstudio, or anthropic")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model identifier for the provider")
	rootCmd.PersistentFlags().StringVarP(&flagWorkingDir, "working-dir", "w", "", "Directory file operations and commands run in (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&flagAllowAll, "allow-all", false, "Skip confirmation prompts for file writes and shell commands")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup wires config, completion client, permission gate, state store,
// and tool servers into a ready System. The returned cleanup stops tool
// providers and closes the store.
func setup() (*orchestrator.System, *config.Config, func(), error) {
	if !flagVerbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagAllowAll {
		cfg.Permissions.AllowAll = true
	}

	workingDir := flagWorkingDir
	if workingDir == "" {
		if workingDir, err = os.Getwd(); err != nil {
			return nil, nil, nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	client, err := llm.New(cfg.Provider, cfg.LLMOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create completion client: %w", err)
	}

	mode := permission.ModeAsk
	if cfg.Permissions.AllowAll {
		mode = permission.ModeAllowAll
	}
	gate := permission.NewGate(mode, permission.NewTerminalPrompter())

	dbPath := state.DefaultDBPath()
	if cfg.DataDir != "" {
		dbPath = filepath.Join(cfg.DataDir, "lca.db")
	}
	store, err := state.Open(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open state database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	sys := orchestrator.NewSystem(orchestrator.Options{
		LLM:        client,
		Model:      cfg.Model,
		WorkingDir: workingDir,
		Gate:       gate,
		Store:      store,
	})

	for _, server := range cfg.MCPServers {
		if err := sys.RegisterToolServer(server); err != nil {
			fmt.Fprintf(os.Stderr, "warning: tool server %s: %v\n", server.Name, err)
		}
	}

	cleanup := func() {
		sys.Shutdown()
		store.Close()
	}
	return sys, cfg, cleanup, nil
}
