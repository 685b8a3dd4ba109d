package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/cleanup"
	"github.com/oukeidos/guini/internal/logger"
	"github.com/oukeidos/guini/internal/version"
)

type globalOptions struct {
	settingsPath string
	logFilePath  string
	debug        bool
}

func execute() {
	os.Exit(executeArgs(os.Args[1:], os.Stdout, os.Stderr))
}

// executeArgs runs the CLI and returns the process exit code.
func executeArgs(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err == nil {
		return 0
	}
	var exit *exitCodeError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %s\n", apperrors.PublicMessage(err))
	return 1
}

// exitCodeError carries a script's exit status out of cobra.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "guini",
		Short: "Run INI-described scripts from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			if hasAnyFlagSet(cmd) {
				_ = cmd.Usage()
				return fmt.Errorf("a command is required")
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(opts)
		},
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.settingsPath, "settings", "", "Path to guini.ini (default: next to the executable, or $GUINI_SETTINGS)")
	pf.StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newRunCmd(opts),
		newFieldsCmd(opts),
		newArgsCmd(opts),
		newSettingsCmd(opts),
		newSecretCmd(opts),
		newAboutCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "Generate a shell completion script"
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}

func initLogging(opts *globalOptions) error {
	level := logger.LevelWarn
	if opts.debug {
		level = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return apperrors.IO("Failed to open log file.", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
		if !opts.debug {
			level = logger.LevelInfo
		}
	}
	logger.Init(level, logFileW)
	return nil
}
