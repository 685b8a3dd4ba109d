package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/guini/internal/licenses"
	"github.com/oukeidos/guini/internal/version"
)

const projectURL = "https://github.com/oukeidos/guini"

func newAboutCmd() *cobra.Command {
	var notices bool
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if notices {
				fmt.Fprint(out, licenses.NoticesText())
				return
			}
			fmt.Fprintf(out, "%s %s: a GUI for INI-described command-line scripts\n", version.AppName, version.Version)
			fmt.Fprintln(out, projectURL)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().BoolVar(&notices, "notices", false, "Print third-party license notices")
	return cmd
}
