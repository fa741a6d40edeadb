package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/groundwork/internal/aggregate"
	"github.com/thoreinstein/groundwork/internal/config"
	"github.com/thoreinstein/groundwork/internal/configfile"
	"github.com/thoreinstein/groundwork/internal/editor"
	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/internal/paths"
	"github.com/thoreinstein/groundwork/internal/validator"
)

// newEditor builds the editor for config edit.
var newEditor = editor.New

func init() {
	configCmd.AddCommand(configEditCmd)
}

var configEditCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Edit a config file and check the result",
	Long: `Open a config file in your editor, then validate it.

Without an argument, edits the per-user config file, creating it from the
built-in defaults if it does not exist. The editor is taken from $EDITOR,
then $VISUAL, falling back to nano or vi.`,
	Example: `  # Edit the per-user config
  groundwork config edit

  # Edit the project config with VS Code
  EDITOR="code --wait" groundwork config edit groundwork.yaml

See Also: groundwork config validate`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runConfigEdit,
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := paths.UserConfigFile()
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return errors.NewUserError(errors.Wrapf(err, "resolving %s", args[0]), "")
		}
		path = abs
	}

	store := newStore(cmd)
	if err := seedConfig(path, store); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Location: %s\n", path)

	ed := newEditor()
	ed.Stdin = cmd.InOrStdin()
	ed.Stdout = w
	ed.Stderr = cmd.ErrOrStderr()
	if err := ed.Edit(cmd.Context(), path); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to your editor command")
	}

	res, err := aggregate.New[*config.Settings](store).Run(cmd.Context(), []string{path})
	if err != nil {
		result := &validator.Result{Sources: []string{path}}
		result.Add(validator.FromError(err)...)
		if rerr := validator.NewReporter(cmd.ErrOrStderr(), validator.FormatText).Report(result); rerr != nil {
			return errors.NewSystemError(rerr, "")
		}
		return errors.NewUserError(err, "Run: groundwork config edit "+path)
	}

	fmt.Fprintf(w, "Saved %s (%d keys in effect)\n", path, len(config.Keys(res.Merged)))
	return nil
}

// seedConfig writes the store's defaults to path unless it already exists.
func seedConfig(path string, store *config.Store) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return errors.NewUserError(errors.Wrap(errors.ErrIsDirectory, path), "Pass a config file, not a directory")
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return errors.NewSystemError(errors.Wrapf(err, "checking %s", path), "")
	}

	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
	}
	if err := configfile.WriteFile(path, configfile.Infer, store.Defaults()); err != nil {
		if errors.Is(err, errors.ErrUnsupportedFormat) {
			return errors.NewUserError(err, "Use a .json, .toml or .yaml file name")
		}
		return errors.NewSystemError(err, "")
	}
	return nil
}
