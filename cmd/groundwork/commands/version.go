package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/groundwork/cmd"
	"github.com/thoreinstein/groundwork/internal/configfile"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version information",
	Long:        `Print the version, commit, build date and supported config formats of groundwork.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	Run: func(c *cobra.Command, _ []string) {
		info := cmd.Info()
		w := c.OutOrStdout()
		fmt.Fprintf(w, "groundwork version %s\n", info.Version)
		fmt.Fprintf(w, "  commit:    %s\n", info.Commit)
		fmt.Fprintf(w, "  built:     %s\n", info.Date)
		fmt.Fprintf(w, "  go:        %s\n", info.Go)
		fmt.Fprintf(w, "  formats:   %v\n", configfile.Loadable())
	},
}
