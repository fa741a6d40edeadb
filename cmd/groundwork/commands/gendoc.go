package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/internal/paths"
)

var (
	genDocDir string
	genDocMan bool
)

var genDocCmd = &cobra.Command{
	Use:         "gen-doc",
	Short:       "Generate reference documentation for the CLI",
	Hidden:      true,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runGenDoc,
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "Output directory for documentation")
	genDocCmd.Flags().BoolVar(&genDocMan, "man", false, "Generate man pages instead of Markdown")
	rootCmd.AddCommand(genDocCmd)
}

func runGenDoc(cmd *cobra.Command, _ []string) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "Pass --dir")
	}

	if err := paths.EnsureDir(genDocDir, 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating output directory"), "")
	}

	var err error
	if genDocMan {
		header := &doc.GenManHeader{Title: "GROUNDWORK", Section: "1", Source: "groundwork " + rootCmd.Version}
		err = doc.GenManTree(rootCmd, header, genDocDir)
	} else {
		// Markdown pages get site frontmatter and site-relative links.
		err = doc.GenMarkdownTreeCustom(rootCmd, genDocDir, filePrepender, linkHandler)
	}
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "generating documentation"), "")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
	return nil
}

func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// groundwork_config_show.md -> groundwork config show
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s command"
draft: false
toc: true
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
