package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List tools exposed by configured tool servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		if len(cfg.MCPServers) == 0 {
			fmt.Println("No tool servers configured. Add mcp_servers entries to your config.")
			return nil
		}

		all := sys.Manager().ListAllTools()
		if len(all) == 0 {
			fmt.Println("No tools discovered from configured servers.")
			return nil
		}

		for provider, providerTools := range all {
			color.Cyan("%s (%d tools)", provider, len(providerTools))
			for _, tool := range providerTools {
				fmt.Printf("  %s  %s\n", color.YellowString(tool.Name), tool.Description)
			}
		}
		return nil
	},
}
