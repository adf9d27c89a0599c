package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xmazu/envy/internal/config"
	"github.com/xmazu/envy/internal/storage"
	"github.com/xmazu/envy/internal/tui"
	"github.com/xmazu/envy/internal/workspace"
)

// writeMode selects where a rewritten file goes.
type writeMode struct {
	stdout      bool
	interactive bool
}

func stdout(cmd *cobra.Command) io.Writer {
	if cmd != nil {
		return cmd.OutOrStdout()
	}
	return os.Stdout
}

func stderr(cmd *cobra.Command) io.Writer {
	if cmd != nil {
		return cmd.ErrOrStderr()
	}
	return os.Stderr
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// boolSetting resolves a boolean flag against its config value. An explicitly
// set flag always wins, so --error=false can turn off a configured default.
func boolSetting(cmd *cobra.Command, name string, flag, configured bool) bool {
	if cmd != nil && cmd.Flags().Changed(name) {
		return flag
	}
	return flag || configured
}

func expandTargets(args []string) ([]string, error) {
	paths, err := workspace.ExpandPaths(args)
	if err != nil {
		return nil, err
	}
	log.Debug().Strs("paths", paths).Msg("resolved targets")
	return paths, nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", path).Strs("sources", cfg.Sources).Msg("config loaded")
	return cfg, nil
}

// writeResult replaces path with text, or prints it with --stdout. With
// --interactive the user confirms first; declining is not an error.
func writeResult(cmd *cobra.Command, path, text string, mode writeMode) error {
	if mode.stdout {
		_, err := io.WriteString(stdout(cmd), text)
		return err
	}

	if mode.interactive {
		ok, err := tui.Confirm(
			fmt.Sprintf("Write changes to %s?", path),
			fmt.Sprintf("The current content is kept in %s%s", path, storage.BackupSuffix),
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(stderr(cmd), "%s %s left unchanged\n", tui.Muted("·"), path)
			return nil
		}
	}

	backup, err := storage.WriteAtomic(path, []byte(text))
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Debug().Str("file", path).Str("backup", backup).Msg("file rewritten")
	fmt.Fprintf(stderr(cmd), "Backup of %s located at %s\n", path, backup)
	return nil
}
