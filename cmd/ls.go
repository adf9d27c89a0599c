package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xmazu/envy/internal/envfile"
	"github.com/xmazu/envy/internal/tui"
	"github.com/xmazu/envy/internal/validator"
	"github.com/xmazu/envy/internal/workspace"
)

var lsCmd = &cobra.Command{
	Use:   "ls [directory]",
	Short: "List .env files in a directory tree",
	Long: `Discover and list .env and .env.* files under the given directory.
Without an argument the workspace root (git repository, monorepo or envy
project) is used. Each file shows its key count and, when it has any, the
number of validation errors and warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	explicitDir := len(args) == 1

	root := "."
	if explicitDir {
		root = args[0]
	} else {
		wsRoot, err := workspace.FindRoot(".")
		if err != nil {
			return fmt.Errorf("detect workspace: %w", err)
		}
		root = wsRoot
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	files, err := workspace.ListEnvFiles(root)
	if err != nil {
		return fmt.Errorf("list .env files: %w", err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil
	}

	out := stdout(cmd)
	if marker := workspace.FindMarker(root); !explicitDir && marker != "" {
		fmt.Fprintf(out, "%s%s (%s)\n\n", tui.Label("Workspace: "), root, workspace.FormatMarkerForDisplay(marker))
	}

	labels, err := describeAll(commandContext(cmd), root, paths)
	if err != nil {
		return err
	}
	tree := workspace.BuildEnvTree(paths)
	workspace.PrintEnvTree(out, tree, "", true, func(n *workspace.EnvTreeNode) string {
		return n.Name + " " + tui.Muted(labels[n.File])
	})
	return nil
}

// describeAll parses the files in parallel, keyed by relative path.
func describeAll(ctx context.Context, root string, paths []string) (map[string]string, error) {
	descs := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runtime.NumCPU(), 2))
	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			descs[i] = describeEnvFile(filepath.Join(root, rel))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("describe .env files: %w", err)
	}

	labels := make(map[string]string, len(paths))
	for i, rel := range paths {
		labels[rel] = descs[i]
	}
	return labels, nil
}

func describeEnvFile(path string) string {
	lines, err := envfile.ParseFile(path)
	if err != nil {
		return "(unreadable)"
	}
	keys := len(envfile.KeySet(lines))
	report := validator.Validate(lines, validator.Options{})
	errs, warns := report.Count(validator.SeverityError), report.Count(validator.SeverityWarning)

	unit := "keys"
	if keys == 1 {
		unit = "key"
	}
	switch {
	case errs > 0:
		return fmt.Sprintf("(%d %s, %d errors, %d warnings)", keys, unit, errs, warns)
	case warns > 0:
		return fmt.Sprintf("(%d %s, %d warnings)", keys, unit, warns)
	default:
		return fmt.Sprintf("(%d %s)", keys, unit)
	}
}
