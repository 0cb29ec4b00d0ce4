package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
	"github.com/sinclairtarget/git-fame/internal/config"
	"github.com/sinclairtarget/git-fame/internal/pretty"
)

var Commit = "unknown"
var Version = "unknown"

var progStart time.Time

// Exit status when the report was produced but some files couldn't be blamed.
const exitPartial = 2

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "main")
	}

	return pkgLogger
}

type globalFlags struct {
	verbose    bool
	noColor    bool
	configPath string
}

// Main sets up the command tree and maps errors to exit codes.
//
// Running git-fame without a subcommand produces the full report.
func main() {
	progStart = time.Now()

	// Ctrl-C stops new blame queries from being started
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd := rootCmd()

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		var attrErr *concurrent.AttributionError
		if errors.As(err, &attrErr) {
			os.Exit(exitPartial)
		}

		pretty.Errorf(os.Stderr, "%v", err)

		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintln(os.Stderr, "Use --help to display usage.")
		}

		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var globals globalFlags
	var limit int

	root := &cobra.Command{
		Use:   "git-fame",
		Short: "Tallies lines of code by author using git blame",
		Long: strings.TrimSpace(`
git-fame blames every tracked file in a repository and reports how many lines
each author last touched, broken down by file extension, along with commit
counts from git shortlog.

Results are written to a semicolon-delimited file and summarized in a table.
		`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			pretty.SetColorEnabled(
				!globals.noColor && pretty.AllowDynamic(os.Stdout),
			)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}

			cfg, err := loadConfig(cmd, globals)
			if err != nil {
				return err
			}

			return fame(cmd.Context(), cfg, limit)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&globals.verbose, "verbose", "v", false, "Enables debug logging")
	flags.BoolVar(&globals.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&globals.configPath, "config", "", "Config file (default is .git-fame.yaml in . or $HOME)")
	addConfigFlags(flags)

	root.Flags().IntVarP(&limit, "limit", "n", 0, "Limit rows in summary table (0 for no limit)")

	root.AddCommand(filesCmd(&globals))
	root.AddCommand(blameCmd(&globals))
	root.AddCommand(cacheCmd(&globals))
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Version, Commit)
		},
	}
}

// Loads and validates configuration, then sets up logging to match.
func loadConfig(cmd *cobra.Command, globals globalFlags) (*config.Config, error) {
	configureLogging(slog.LevelInfo)
	if globals.verbose {
		configureLogging(slog.LevelDebug)
	}

	cfg, err := config.Load(globals.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	if !globals.verbose {
		level, _ := cfg.SlogLevel() // Already validated
		configureLogging(level)
	}

	logger().Debug("log level set", "level", cfg.LogLevel, "verbose", globals.verbose)
	return cfg, nil
}

func configureLogging(level slog.Level) {
	handler := slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{
			Level: level,
		},
	)
	logger := slog.New(handler)
	slog.SetDefault(logger)
	pkgLogger = nil
}
