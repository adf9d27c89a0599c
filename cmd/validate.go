package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xmazu/envy/internal/envfile"
	"github.com/xmazu/envy/internal/tui"
	"github.com/xmazu/envy/internal/validator"
	"github.com/xmazu/envy/internal/watch"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Check .env files for problems",
	Long: `Report problems in .env files without changing them.

Errors:   duplicate keys, empty keys, empty values
Warnings: whitespace in keys or unquoted values, ${VAR} references to keys
          that are not defined, keys missing compared to .env.example
          (with --check-required)
Info:     lines that are not KEY=VALUE assignments

The exit status is 1 only with --error and at least one error.

Examples:
  envy validate .env
  envy validate -c -e .env
  envy validate --watch .env .env.local`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

var (
	validateCheckRequired bool
	validateError         bool
	validateWatch         bool
)

func init() {
	validateCmd.Flags().BoolVarP(&validateCheckRequired, "check-required", "c", false, "Require every key defined in the example file next to each target")
	validateCmd.Flags().BoolVarP(&validateError, "error", "e", false, "Exit with status 1 when an error is found")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "Validate again whenever a file changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths, err := expandTargets(args)
	if err != nil {
		return err
	}

	if validateWatch {
		validateAll(cmd, paths)
		return watchAndValidate(cmd, paths)
	}

	valid, err := validateAllStrict(cmd, paths)
	if err != nil {
		return err
	}
	if !valid {
		return ErrValidationFailed
	}
	return nil
}

// validateAllStrict stops at the first unreadable file.
func validateAllStrict(cmd *cobra.Command, paths []string) (bool, error) {
	valid := true
	for _, path := range paths {
		report, err := validateFile(cmd, path, len(paths) > 1)
		if err != nil {
			return false, err
		}
		valid = valid && report.Valid
	}
	return valid, nil
}

// validateAll reports unreadable files and carries on, for watch mode where a
// file may be briefly missing while an editor saves it.
func validateAll(cmd *cobra.Command, paths []string) {
	for _, path := range paths {
		if _, err := validateFile(cmd, path, len(paths) > 1); err != nil {
			fmt.Fprintf(stderr(cmd), "%s %v\n", tui.Error("Error:"), err)
		}
	}
}

func validateFile(cmd *cobra.Command, path string, header bool) (*validator.Report, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	opts := validator.Options{
		ErrorMode: boolSetting(cmd, "error", validateError, cfg.ErrorMode()),
	}
	if boolSetting(cmd, "check-required", validateCheckRequired, cfg.CheckRequired()) {
		example := validator.ExamplePath(path, cfg.Validate.Example)
		opts.Required, err = validator.RequiredKeys(example)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("file", example).Int("keys", len(opts.Required)).Msg("required keys loaded")
	}

	lines, err := envfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	report := validator.Validate(lines, opts)

	out := stdout(cmd)
	if header {
		fmt.Fprintf(out, "\n%s\n", tui.Header(path))
	}
	validator.WriteReport(out, report)
	return report, nil
}

func watchAndValidate(cmd *cobra.Command, paths []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	w, err := watch.NewFileWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	for _, path := range paths {
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
	return revalidateOnChange(ctx, cmd, paths, w.Start())
}

func revalidateOnChange(ctx context.Context, cmd *cobra.Command, paths []string, changes <-chan struct{}) error {
	fmt.Fprintf(stderr(cmd), "\n%s\n", tui.Muted("Watching for changes (Ctrl+C to stop)..."))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			fmt.Fprintf(stdout(cmd), "\n%s\n", tui.Muted("Change detected, validating again"))
			validateAll(cmd, paths)
		}
	}
}
