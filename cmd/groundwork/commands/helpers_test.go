package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// isolate points the implicit config locations at empty temp dirs and
// returns the project directory, which is also made the working directory.
func isolate(t *testing.T) (configHome, project string) {
	t.Helper()
	configHome = t.TempDir()
	project = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv(debugEnv, "")
	os.Unsetenv(debugEnv)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	t.Chdir(project)
	return configHome, project
}

// resetFlags restores every flag of the command tree to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	configOption.Reset()

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Value.Type() != "stringArray" {
					if err := f.Value.Set(f.DefValue); err != nil {
						t.Fatalf("resetting --%s: %v", f.Name, err)
					}
				}
				f.Changed = false
			})
		}
		// Subcommands keep the context of their last run; clear it so the
		// next run inherits the root's.
		c.SetContext(nil) //nolint:staticcheck
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
