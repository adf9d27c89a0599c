package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xmazu/envy/internal/envfile"
	"github.com/xmazu/envy/internal/sorter"
)

var sortCmd = &cobra.Command{
	Use:   "sort <path>...",
	Short: "Sort the entries of .env files",
	Long: `Reorder the KEY=VALUE entries of .env files.

  group  entries grouped by the key prefix before the first "_" (DB_HOST and
         DB_USER under "# DB"); keys without a prefix go under "# MISC"
  alpha  one alphabetical list

Comments, blank lines and invalid lines are not kept. The previous content is
saved as <path>.bak.

Examples:
  envy sort .env
  envy sort --method alpha --dry-run .env`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSort,
}

var (
	sortMethod      string
	sortDryRun      bool
	sortStdout      bool
	sortInteractive bool
)

func init() {
	sortCmd.Flags().StringVarP(&sortMethod, "method", "m", "", "Sort method: alpha or group (default from config, else group)")
	sortCmd.Flags().BoolVarP(&sortDryRun, "dry-run", "n", false, "Print the sorted content without writing")
	sortCmd.Flags().BoolVar(&sortStdout, "stdout", false, "Print the result instead of rewriting the file")
	sortCmd.Flags().BoolVarP(&sortInteractive, "interactive", "i", false, "Ask before writing each file")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	paths, err := expandTargets(args)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := sortFile(cmd, path); err != nil {
			return err
		}
	}
	return nil
}

func sortFile(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	name := sortMethod
	if name == "" {
		name = cfg.Sort.Method
	}
	method, err := sorter.ParseMethod(name)
	if err != nil {
		return err
	}

	lines, err := envfile.ParseFile(path)
	if err != nil {
		return err
	}
	text := sorter.Sort(lines, method)

	return writeResult(cmd, path, text, writeMode{
		stdout:      sortStdout || sortDryRun,
		interactive: sortInteractive,
	})
}
