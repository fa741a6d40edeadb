// Package commands implements the CLI commands for groundwork.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/groundwork/cmd"
	"github.com/thoreinstein/groundwork/cmd/groundwork/commands/flags"
	"github.com/thoreinstein/groundwork/internal/aggregate"
	"github.com/thoreinstein/groundwork/internal/config"
	"github.com/thoreinstein/groundwork/internal/configfile"
	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/internal/logging"
	"github.com/thoreinstein/groundwork/internal/paths"
)

// debugEnv raises verbosity when no -v flag is given: "1" or "true" for
// debug, "2" for trace.
const debugEnv = "GROUNDWORK_DEBUG"

// skipConfigAnnotation marks commands that run without loading config.
const skipConfigAnnotation = "groundwork/skip-config"

// configOption holds the repeatable --config/-c flag.
var configOption flags.ConfigOption

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// noDefaultConfig skips the per-user and project config files.
var noDefaultConfig bool

// openLogFile is the log file opened by the last setupLogging call.
var openLogFile *os.File

func init() {
	pf := rootCmd.PersistentFlags()
	configOption.Register(pf)
	pf.CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	pf.BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	pf.StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	pf.StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	pf.BoolVar(&noDefaultConfig, "no-default-config", false,
		"ignore the per-user and project config files")
	pf.String("name", "", "override the configured name")
	pf.Int("port", 0, "override the configured port")

	rootCmd.Version = cmd.Info().Version
	rootCmd.SetVersionTemplate("groundwork version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "Layered configuration from JSON, TOML and YAML files",
	Long: `groundwork builds one configuration out of several files.

Built-in defaults come first, then the per-user file
($XDG_CONFIG_HOME/groundwork/config.yaml), then ./groundwork.yaml, then
every --config file in the order given. Later files win on single values
while lists from all files are concatenated. Each file may be JSON, TOML
or YAML; the format is taken from the file suffix.`,
	Example: `  # Show the effective configuration
  groundwork config show

  # Layer two files and read one value
  groundwork -c base.yaml -c local.toml config get port

  # Check files without applying them
  groundwork config validate base.yaml local.toml

  See Also: groundwork config, groundwork version`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd, nil); err != nil {
			return err
		}
		if skipConfig(cmd) {
			return nil
		}
		return loadConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func skipConfig(cmd *cobra.Command) bool {
	if cmd.Name() == "help" {
		return true
	}
	_, ok := cmd.Annotations[skipConfigAnnotation]
	return ok
}

// setupLogging configures the default logger from the flags and, once
// loaded, the settings.
func setupLogging(cmd *cobra.Command, s *config.Settings) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pass either -q or -v")
	}

	level := resolveLevel(s)
	format, file := logFormat, logFile
	if s != nil {
		// Flags are bound into the settings, so these already honor them.
		format, file = s.Logging.Format, s.Logging.File
	}

	logFmt, err := logging.ParseFormat(format)
	if err != nil {
		return errors.NewUserError(err, "Use --log-format text or json")
	}

	if openLogFile != nil {
		openLogFile.Close()
		openLogFile = nil
	}
	var sink io.Writer
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		openLogFile = f
		sink = f
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: logFmt,
		Output: cmd.ErrOrStderr(),
		File:   sink,
	})
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// resolveLevel picks the log level. -q wins, then -v, then the debug
// environment variable, then general.verbose and logging.level.
func resolveLevel(s *config.Settings) slog.Level {
	if quiet {
		return slog.LevelError
	}

	v := verbosity
	if v == 0 {
		if val, ok := os.LookupEnv(debugEnv); ok {
			switch val {
			case "1", "true":
				v = 2 // Debug
			case "2":
				v = 3 // Trace
			}
		}
	}
	if v == 0 && s != nil {
		v = s.General.Verbose
	}
	if v > 0 || s == nil {
		return logging.LevelFromVerbosity(v)
	}

	level, err := logging.ParseLevel(s.Logging.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// configSources lists the files to aggregate: the implicit files that
// exist, then the --config files.
func configSources() ([]string, error) {
	explicit, err := configOption.Resolve()
	if err != nil {
		return nil, err
	}

	var sources []string
	if !noDefaultConfig {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
		}
		sources = paths.DefaultSources(cwd)
	}
	return append(sources, explicit...), nil
}

// newStore returns a settings store with the command's override flags bound.
func newStore(cmd *cobra.Command) *config.Store {
	store := config.NewStore(nil)
	store.BindFlags(cmd.Flags())
	return store
}

// loadConfig aggregates the config sources and stores the result in the
// command context.
func loadConfig(cmd *cobra.Command) error {
	sources, err := configSources()
	if err != nil {
		return err
	}

	res, err := aggregate.New[*config.Settings](newStore(cmd)).Run(cmd.Context(), sources)
	if err != nil {
		return configError(err)
	}

	if err := setupLogging(cmd, res.Settings); err != nil {
		return err
	}
	logging.FromContext(cmd.Context()).Debug("configuration loaded", "sources", res.Sources)

	ctx := config.NewContext(cmd.Context(), res.Settings)
	cmd.SetContext(context.WithValue(ctx, resultKey{}, res))
	return nil
}

// configError turns an aggregation failure into a user error that names
// the offending file.
func configError(err error) error {
	var srcErr *aggregate.SourceError
	if errors.As(err, &srcErr) {
		return errors.NewUserError(err, "Run: groundwork config validate "+srcErr.Source)
	}
	return errors.NewConfigError(err)
}

type resultKey struct{}

// loaded returns the configuration loaded for cmd.
func loaded(cmd *cobra.Command) (*aggregate.Result[*config.Settings], error) {
	res, ok := cmd.Context().Value(resultKey{}).(*aggregate.Result[*config.Settings])
	if !ok {
		return nil, errors.NewSystemError(errors.New("configuration not loaded"), "")
	}
	return res, nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ReportError prints err for the user and returns the process exit code.
func ReportError(w io.Writer, err error) int {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)

	var loadErr *configfile.LoadError
	if errors.As(err, &loadErr) && loadErr.Document != "" {
		fmt.Fprintln(w)
		for line := range strings.SplitSeq(strings.TrimRight(loadErr.Document, "\n"), "\n") {
			fmt.Fprintf(w, "  | %s\n", line)
		}
		if loadErr.Column > 0 && !strings.Contains(loadErr.Document, "\n") {
			fmt.Fprintf(w, "  | %s^\n", strings.Repeat(" ", loadErr.Column-1))
		}
	}

	for _, hint := range errors.Hints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
	if s := errors.SuggestionOf(err); s != "" {
		fmt.Fprintln(w, s)
	}

	return errors.ExitCode(err)
}
