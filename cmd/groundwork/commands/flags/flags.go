// Package flags provides shared flag types for CLI commands.
package flags

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// ConfigOption collects repeatable --config/-c paths.
type ConfigOption struct {
	paths []string
}

// Register adds the --config/-c flag to fs.
func (o *ConfigOption) Register(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&o.paths, "config", "c", nil,
		"config file to apply, may be repeated; later files win")
}

// Raw returns the paths as given on the command line.
func (o *ConfigOption) Raw() []string {
	return o.paths
}

// Reset forgets every collected path.
func (o *ConfigOption) Reset() {
	o.paths = nil
}

// Resolve returns the collected paths made absolute. Each must name an
// existing file; otherwise a user error is returned.
func (o *ConfigOption) Resolve() ([]string, error) {
	return ResolveFiles(o.paths)
}

// ResolveFiles makes each path absolute and checks it names an existing
// regular file.
func ResolveFiles(paths []string) ([]string, error) {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.NewUserError(errors.Wrapf(err, "resolving %s", p), "")
		}

		info, err := os.Stat(abs)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			err = errors.Mark(errors.Wrapf(err, "config file %s", p), errors.ErrNotFound)
			return nil, errors.NewUserError(err, "Check the path passed to --config")
		case err != nil:
			return nil, errors.NewUserError(errors.Wrapf(err, "config file %s", p), "")
		case info.IsDir():
			return nil, errors.NewUserError(errors.Wrapf(errors.ErrIsDirectory, "config file %s", p),
				"Pass a file, not a directory, to --config")
		}
		resolved = append(resolved, abs)
	}
	return resolved, nil
}
