package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/argv"
	"github.com/oukeidos/guini/internal/launcher"
)

type argsOptions struct {
	sets    []string
	command bool
}

func newArgsCmd(global *globalOptions) *cobra.Command {
	opts := argsOptions{}
	cmd := &cobra.Command{
		Use:   "args <config.ini>",
		Short: "Print the argument vector that run would pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadForm(args[0], opts.sets)
			if err != nil {
				return err
			}
			if err := l.form.Validate(l.values); err != nil {
				return apperrors.Validation(err.Error(), err)
			}
			vec, err := argv.Assemble(l.form, l.values)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.command {
				if err := l.form.Apply(l.cfg, l.values); err != nil {
					return err
				}
				script, err := l.cfg.ScriptPath("")
				if err != nil {
					return err
				}
				interp := l.cfg.Interpreter()
				if interp == "" {
					interp = launcher.DefaultInterpreter()
				}
				fmt.Fprintln(out, argv.CommandLine(interp, script, vec))
				return nil
			}
			for _, a := range vec {
				fmt.Fprintln(out, a)
			}
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Override a field (key=value or Section.key=value); repeatable")
	cmd.Flags().BoolVar(&opts.command, "command", false, "Print the full command line instead of one argument per line")
	return cmd
}
