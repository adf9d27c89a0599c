package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xmazu/envy/internal/envfile"
	"github.com/xmazu/envy/internal/formatter"
	"github.com/xmazu/envy/internal/tui"
)

var formatCmd = &cobra.Command{
	Use:   "format <path>...",
	Short: "Normalize .env files",
	Long: `Rewrite .env files in a normalized form:

  - strip leading "export " from keys
  - trim whitespace around keys and values
  - remove duplicate keys (keep the first or the last occurrence)
  - drop lines that are not KEY=VALUE assignments

Comments and blank lines are kept. The previous content is saved as <path>.bak.
Use --dry-run to see the changes line by line without writing.

Examples:
  envy format .env
  envy format --dupes keep-last .env.local
  envy format -n 'apps/**/.env'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFormat,
}

var (
	formatDupes       string
	formatDryRun      bool
	formatStdout      bool
	formatInteractive bool
)

func init() {
	formatCmd.Flags().StringVarP(&formatDupes, "dupes", "d", "", "Duplicate key policy: keep-first or keep-last (default from config, else keep-first)")
	formatCmd.Flags().BoolVarP(&formatDryRun, "dry-run", "n", false, "Show changes without writing")
	formatCmd.Flags().BoolVar(&formatStdout, "stdout", false, "Print the result instead of rewriting the file")
	formatCmd.Flags().BoolVarP(&formatInteractive, "interactive", "i", false, "Ask before writing each file")
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	paths, err := expandTargets(args)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := formatFile(cmd, path); err != nil {
			return err
		}
	}
	return nil
}

func formatFile(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	policy := formatDupes
	if policy == "" {
		policy = cfg.Format.Dupes
	}
	dupes, err := formatter.ParseDupePolicy(policy)
	if err != nil {
		return err
	}

	lines, err := envfile.ParseFile(path)
	if err != nil {
		return err
	}

	res := formatter.Format(lines, formatter.Options{Dupes: dupes, DryRun: formatDryRun})

	if formatDryRun {
		out := stdout(cmd)
		fmt.Fprintf(out, "\n%s\n\n", tui.Header("Formatting file: "+path))
		formatter.WritePreview(out, res.Changes, formatter.Width(len(lines)))
		formatter.WriteSummary(out, res, dupes)
		return nil
	}

	diag := stderr(cmd)
	fmt.Fprintf(diag, "\n%s\n\n", tui.Header("Formatting file: "+path))
	for _, w := range res.Warnings {
		log.Debug().Str("file", path).Int("line", w.Line).Msg(w.Message)
		fmt.Fprintf(diag, "%s %s (line %d)\n", tui.Warning("!"), w.Message, w.Line)
	}
	formatter.WriteSummary(diag, res, dupes)
	fmt.Fprintln(diag)

	return writeResult(cmd, path, res.Text, writeMode{stdout: formatStdout, interactive: formatInteractive})
}
