package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xmazu/envy/internal/tui"
)

// ErrValidationFailed is returned by validate when strict mode finds a hard
// error. The report has already been printed, so Execute exits silently.
var ErrValidationFailed = errors.New("validation failed")

var (
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:           "envy",
	Short:         "Format, sort and validate .env files",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `envy keeps .env files tidy: it normalizes whitespace and export prefixes,
drops duplicate keys and invalid lines, sorts entries, and checks for problems
such as empty values or ${VAR} references to keys that are never defined.

Rewrites are atomic and the previous content is kept next to the file as
<path>.bak.

EXAMPLES:

  envy format .env
  envy format --dupes keep-last --dry-run .env.local
  envy sort --method alpha 'apps/**/.env'
  envy validate --check-required --error .env

Defaults can be set per project in .envy.yaml (see envy init) or globally in
~/.config/envy/config.yaml.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		if noColor {
			tui.DisableColor()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.SetVersionTemplate("envy version {{.Version}}\n")
}

func setupLogging() {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}).With().Timestamp().Logger()
}

// SetVersion sets the version string shown by --version (e.g. from ldflags).
func SetVersion(v string) { rootCmd.Version = v }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrValidationFailed) {
			fmt.Fprintf(os.Stderr, "%s %v\n", tui.Error("Error:"), err)
		}
		os.Exit(1)
	}
}
