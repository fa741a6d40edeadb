package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/groundwork/cmd/groundwork/commands/flags"
	"github.com/thoreinstein/groundwork/internal/aggregate"
	"github.com/thoreinstein/groundwork/internal/cli/prompt"
	"github.com/thoreinstein/groundwork/internal/config"
	"github.com/thoreinstein/groundwork/internal/configfile"
	"github.com/thoreinstein/groundwork/internal/deepmerge"
	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/internal/logging"
	"github.com/thoreinstein/groundwork/internal/paths"
	"github.com/thoreinstein/groundwork/internal/validator"
)

// showFormat holds the --format flag of config show.
var showFormat string

// showReveal disables secret masking in config show.
var showReveal bool

// exportFormat holds the --format flag of config export.
var exportFormat string

// validateFormat holds the --format flag of config validate.
var validateFormat string

// newSelector builds the key picker for config get. Tests replace it.
var newSelector = prompt.NewSelector

func init() {
	configShowCmd.Flags().StringVarP(&showFormat, "format", "f", "yaml",
		"output format: json, toml, yaml")
	configShowCmd.Flags().BoolVar(&showReveal, "reveal", false,
		"print secret-looking values instead of masking them")
	configExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "infer",
		"file format: json, toml, yaml (default: from the file suffix)")
	configValidateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text",
		"report format: text, json")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSourcesCmd)
	configCmd.AddCommand(configExportCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	Long: `Inspect the configuration built from defaults and config files.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show everything
  groundwork config

  # Read one value
  groundwork config get logging.level

See Also: groundwork config show, groundwork config validate`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the merged configuration in JSON, TOML or YAML.

Values whose keys look like secrets (token, password, key, ...) are masked
unless --reveal is given.`,
	Example: `  # Show as YAML
  groundwork config show

  # Show as JSON with secrets
  groundwork config show --format json --reveal

See Also: groundwork config get, groundwork config export`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys. Array values are printed one per line.
Without a key, an interactive picker lists every key when run in a terminal.`,
	Example: `  # Get the port
  groundwork config get port

  # Get a nested value
  groundwork config get logging.format

See Also: groundwork config show`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigGet,
}

var configSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the config files that were applied",
	Long:  `List the config files in the order they were applied, after the built-in defaults.`,
	Example: `  groundwork config sources

See Also: groundwork config show`,
	Args: cobra.NoArgs,
	RunE: runConfigSources,
}

var configExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the effective configuration to a file",
	Long: `Write the merged configuration to a file.

The format is taken from the file suffix unless --format is given. The
file is replaced atomically.`,
	Example: `  # Snapshot the configuration as TOML
  groundwork config export snapshot.toml

See Also: groundwork config show`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigExport,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check config files without applying them",
	Long: `Load, merge and validate config files on top of the built-in defaults.

The files are checked in the order given, exactly as --config would apply
them, but the implicit config files are not read. The first problem found is
reported with the file that caused it: a parse error with its line and
column, or every invalid setting at once. Empty files are reported as
warnings.`,
	Example: `  # Check one file
  groundwork config validate groundwork.yaml

  # Check that two files work together
  groundwork config validate base.yaml local.toml

  # Machine-readable report
  groundwork config validate --format json groundwork.yaml

See Also: groundwork config show`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runConfigValidate,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	res, err := loaded(cmd)
	if err != nil {
		return err
	}

	format, err := configfile.ParseFormat(showFormat)
	if err != nil || format == configfile.Infer {
		return errors.NewUserError(errors.Wrapf(errors.ErrUnsupportedFormat, "--format %q", showFormat),
			"Use --format json, toml or yaml")
	}

	m := res.Merged
	if !showReveal {
		m = logging.Redact(m)
	}

	data, err := configfile.Marshal(format, m)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	res, err := loaded(cmd)
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		key, err = pickKey(res.Merged)
		if err != nil {
			return err
		}
	}

	val, ok := config.Get(res.Merged, key)
	if !ok {
		return errors.NewUserError(errors.Newf("key %q is not set", key), "Run: groundwork config show")
	}
	return printValue(cmd.OutOrStdout(), val)
}

func pickKey(m map[string]any) (string, error) {
	keys := config.Keys(m)
	choices := make([]prompt.Choice, 0, len(keys))
	for _, k := range keys {
		v, _ := config.Get(m, k)
		choices = append(choices, prompt.Choice{Key: k, Value: v})
	}

	choice, err := newSelector().SelectKey(choices)
	if err != nil {
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			return "", errors.NewUserError(err, "Pass the key as an argument")
		}
		return "", errors.NewUserError(err, "")
	}
	return choice.Key, nil
}

func printValue(w io.Writer, val any) error {
	switch v := val.(type) {
	case []any:
		// Array values - print one per line
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case deepmerge.Set:
		for _, item := range v.Sorted() {
			fmt.Fprintln(w, item)
		}
	case map[string]any:
		data, err := configfile.Marshal(configfile.YAML, v)
		if err != nil {
			return errors.NewSystemError(err, "")
		}
		_, err = w.Write(data)
		return err
	case nil:
		fmt.Fprintln(w, "null")
	default:
		fmt.Fprintln(w, cast.ToString(v))
	}
	return nil
}

func runConfigSources(cmd *cobra.Command, _ []string) error {
	res, err := loaded(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "0. (defaults)")
	for i, s := range res.Sources {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, s, configfile.DetermineFormat(s))
	}
	return nil
}

func runConfigExport(cmd *cobra.Command, args []string) error {
	res, err := loaded(cmd)
	if err != nil {
		return err
	}

	format, err := configfile.ParseFormat(exportFormat)
	if err != nil {
		return errors.NewUserError(err, "Use --format json, toml or yaml")
	}

	path := args[0]
	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating output directory"), "")
	}
	if err := configfile.WriteFile(path, format, res.Merged); err != nil {
		if errors.Is(err, errors.ErrUnsupportedFormat) {
			return errors.NewUserError(err, "Use a .json, .toml or .yaml file name, or pass --format")
		}
		return errors.NewSystemError(err, "")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported configuration to %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	format, err := validator.ParseFormat(validateFormat)
	if err != nil {
		return errors.NewUserError(err, "Use --format text or json")
	}

	files, err := flags.ResolveFiles(args)
	if err != nil {
		return err
	}

	result := &validator.Result{Sources: files}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f] {
			result.Warn(f, "listed more than once; later copies are merged again")
		}
		seen[f] = true
	}

	load := func(source string) (map[string]any, error) {
		m, err := configfile.Load(source, configfile.Infer)
		if err == nil && len(m) == 0 {
			result.Warn(source, "document is empty")
		}
		return m, err
	}

	agg := aggregate.New[*config.Settings](newStore(cmd), aggregate.WithLoader(load))
	res, runErr := agg.Run(cmd.Context(), files)
	if runErr != nil {
		result.Add(validator.FromError(runErr)...)
	} else {
		result.Keys = len(config.Keys(res.Merged))
	}

	if err := validator.NewReporter(cmd.OutOrStdout(), format).Report(result); err != nil {
		return errors.NewSystemError(err, "")
	}
	var srcErr *aggregate.SourceError
	if errors.As(runErr, &srcErr) {
		return errors.NewUserError(runErr, "")
	}
	if runErr != nil {
		return configError(runErr)
	}
	return nil
}
