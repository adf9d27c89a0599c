package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xmazu/envy/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server (stdio) for AI/IDE integration",
	Long: `Run the Model Context Protocol server on stdio. Exposes validate_env,
format_env and sort_env. format_env and sort_env only return the new content
unless called with write=true, which rewrites the file and keeps a .bak copy.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	version := rootCmd.Version
	if version == "" {
		version = "dev"
	}
	return mcpserver.Run(commandContext(cmd), version)
}
