package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xmazu/envy/internal/config"
	"github.com/xmazu/envy/internal/tui"
	"github.com/xmazu/envy/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project config file",
	Long: `Write .envy.yaml at the workspace root with the built-in defaults:

  format:
    dupes: keep-first
  sort:
    method: group
  validate:
    check_required: false
    error: false
    example: .env.example

Commands run anywhere below the workspace root pick these values up; flags
given on the command line still take precedence.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	wsRoot, err := workspace.FindRoot(".")
	if err != nil {
		return fmt.Errorf("find workspace root: %w", err)
	}

	path, err := config.WriteProjectFile(wsRoot, config.Default())
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr(cmd), "%s Created %s\n", tui.Success("✓"), path)

	files, err := workspace.ListEnvFiles(wsRoot)
	if err != nil {
		return fmt.Errorf("list .env files: %w", err)
	}
	if len(files) > 0 {
		fmt.Fprintf(stderr(cmd), "%s Found %d .env files; run %s to see them\n",
			tui.Muted("·"), len(files), tui.Key("envy ls"))
	}
	return nil
}
