package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/argv"
	"github.com/oukeidos/guini/internal/launcher"
	"github.com/oukeidos/guini/internal/logger"
	"github.com/oukeidos/guini/internal/prompt"
	"github.com/oukeidos/guini/internal/secrets"
	"github.com/oukeidos/guini/internal/session"
)

type runOptions struct {
	sets        []string
	background  bool
	interpreter string
	saveOutput  string
	saveINI     bool
	yes         bool
	quiet       bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run <config.ini>",
		Short: "Run the script described by an INI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], global, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	f := cmd.Flags()
	f.StringArrayVar(&opts.sets, "set", nil, "Override a field (key=value or Section.key=value); repeatable")
	f.BoolVar(&opts.background, "background", false, "Start detached without capturing output")
	f.StringVar(&opts.interpreter, "interpreter", "", "Interpreter to run the script with (default: config, settings, then python3)")
	f.StringVar(&opts.saveOutput, "save-output", "", "Save the run transcript to this file")
	f.BoolVar(&opts.saveINI, "save", false, "Write the --set values back into the INI file")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Overwrite the transcript file without asking")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the script's own output")
	return cmd
}

func runRun(cmd *cobra.Command, path string, global *globalOptions, opts *runOptions) error {
	l, err := loadForm(path, opts.sets)
	if err != nil {
		return err
	}
	if err := l.form.Validate(l.values); err != nil {
		return apperrors.Validation(err.Error(), err)
	}
	args, err := argv.Assemble(l.form, l.values)
	if err != nil {
		return err
	}
	if err := l.form.Apply(l.cfg, l.values); err != nil {
		return err
	}
	script, err := l.cfg.ScriptPath("")
	if err != nil {
		return err
	}
	if opts.saveINI {
		if err := saveINI(l); err != nil {
			return err
		}
	}

	interp := opts.interpreter
	if interp == "" {
		interp = l.cfg.Interpreter()
	}
	if interp == "" {
		if st, err := loadSettings(global); err == nil {
			interp = st.Interpreter
		} else {
			logger.Warn("settings unavailable, using default interpreter", "error", err)
		}
	}
	exe, warning, err := launcher.ResolveInterpreter(interp, opts.background)
	if err != nil {
		return err
	}

	spec := launcher.Spec{Executable: exe, Script: script, Dir: l.cfg.Dir(), Args: args}
	out := newTerminalSink(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.quiet)
	out.emit(session.RunBanner(time.Now())...)
	if warning != "" {
		out.emit(session.WarningLine(warning))
	}
	out.emit(session.CommandEcho(argv.CommandLine(exe, script, args)))

	if opts.background {
		pid, err := launcher.StartDetached(spec)
		if err != nil {
			return err
		}
		out.emit(session.BackgroundNotice(pid))
		return nil
	}

	ctx, stop := signalContext()
	defer stop()
	reg := launcher.NewRegistry()
	p, err := reg.Start(ctx, 0, spec, out)
	if err != nil {
		return err
	}
	res := p.Result()
	out.wait()

	if opts.saveOutput != "" {
		if err := saveTranscript(&out.transcript, opts.saveOutput, opts.yes); err != nil {
			return err
		}
	}

	switch {
	case res.Status == launcher.Terminated:
		return &exitCodeError{code: 130}
	case res.Status == launcher.Crashed:
		return &exitCodeError{code: 1}
	case res.ExitCode != 0:
		return &exitCodeError{code: res.ExitCode}
	}
	return nil
}

func saveINI(l *loaded) error {
	values, err := secrets.Persist(l.cfg.Path(), l.form, l.values)
	if err != nil {
		return apperrors.IO("Could not store secret values.", err)
	}
	if err := l.form.Apply(l.cfg, values); err != nil {
		return err
	}
	return l.cfg.Save()
}

func saveTranscript(t *session.Transcript, path string, force bool) error {
	if _, err := os.Stat(path); err == nil {
		ok, err := prompt.DefaultConfirmer().ConfirmOverwrite(path, force)
		if err != nil {
			return apperrors.IO(err.Error(), err)
		}
		if !ok {
			logger.Warn("Transcript not saved", "path", path)
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return apperrors.IO("", err)
	}
	return t.Save(path)
}

// terminalSink prints process output and records the transcript.
type terminalSink struct {
	out, errOut io.Writer
	quiet       bool
	transcript  session.Transcript

	mu       sync.Mutex
	finished chan struct{}
}

func newTerminalSink(out, errOut io.Writer, quiet bool) *terminalSink {
	return &terminalSink{out: out, errOut: errOut, quiet: quiet, finished: make(chan struct{})}
}

func (s *terminalSink) emit(lines ...session.Line) {
	s.transcript.Append(lines...)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lines {
		switch l.Kind {
		case session.Stdout:
			fmt.Fprintln(s.out, l.Text)
		case session.Stderr:
			fmt.Fprintln(s.errOut, stderrStyle.Render(l.Text))
		default:
			if !s.quiet {
				fmt.Fprintln(s.errOut, styleFor(l.Kind).Render(l.Text))
			}
		}
	}
}

func (s *terminalSink) Stdout(line string) {
	s.transcript.Append(session.StdoutLine(line))
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}

func (s *terminalSink) Stderr(line string) {
	s.emit(session.StderrLine(line))
}

func (s *terminalSink) Finished(r launcher.Result) {
	s.emit(session.Footer(r)...)
	close(s.finished)
}

func (s *terminalSink) wait() { <-s.finished }

func styleFor(k session.Kind) lipgloss.Style {
	switch k {
	case session.Command:
		return commandStyle
	case session.Success:
		return successStyle
	case session.Failure:
		return failureStyle
	case session.Warning:
		return warningStyle
	default:
		return infoStyle
	}
}
