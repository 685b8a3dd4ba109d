package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/guini/internal/settings"
)

func newSettingsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change guini.ini (default: show)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(cmd, global)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)

	show := &cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(cmd, global)
		},
	}
	path := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			p := global.settingsPath
			if p == "" {
				p = settings.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
		},
	}
	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings(global)
			if err != nil {
				return err
			}
			old := st.Settings
			if err := st.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}
			v, _ := st.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v)
			if settings.Diff(old, st.Settings) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Restart the GUI for this change to take effect.")
			}
			return nil
		},
	}
	for _, sub := range []*cobra.Command{show, path, set} {
		sub.SetUsageTemplate(subcommandUsageTemplate)
	}
	cmd.AddCommand(show, path, set)
	return cmd
}

func runSettingsShow(cmd *cobra.Command, global *globalOptions) error {
	st, err := loadSettings(global)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", st.Path())
	width := 0
	for _, k := range settings.Keys() {
		if len(k) > width {
			width = len(k)
		}
	}
	for _, k := range settings.Keys() {
		v, _ := st.Get(k)
		fmt.Fprintf(out, "%s = %s\n", padRight(k, width), v)
	}
	return nil
}
