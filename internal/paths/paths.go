package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// AppName names the per-user config directory and the project config file.
const AppName = "groundwork"

// Candidate file names, in order of preference, for the implicit config
// sources. Only the first existing candidate of each location is used.
var (
	userConfigNames    = []string{"config.yaml", "config.yml", "config.toml", "config.json"}
	projectConfigNames = []string{AppName + ".yaml", AppName + ".yml", AppName + ".toml", AppName + ".json"}
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the per-user groundwork config directory.
// Returns: <ConfigHome>/groundwork/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// UserConfigFile returns the preferred per-user config file path, whether
// or not it exists.
func UserConfigFile() string {
	return filepath.Join(ConfigDir(), userConfigNames[0])
}

// ProjectConfigFile returns the preferred project config file in dir,
// whether or not it exists.
func ProjectConfigFile(dir string) string {
	return filepath.Join(dir, projectConfigNames[0])
}

// DefaultSources returns the implicit config files that exist, lowest
// precedence first: the per-user file, then the project file in dir.
func DefaultSources(dir string) []string {
	var sources []string
	if p, ok := firstFile(ConfigDir(), userConfigNames); ok {
		sources = append(sources, p)
	}
	if p, ok := firstFile(dir, projectConfigNames); ok {
		sources = append(sources, p)
	}
	return sources
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) (string, bool) {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}
