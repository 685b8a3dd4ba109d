package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
	"golang.org/x/term"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/form"
	"github.com/oukeidos/guini/internal/logger"
	"github.com/oukeidos/guini/internal/scriptconfig"
	"github.com/oukeidos/guini/internal/secrets"
	"github.com/oukeidos/guini/internal/settings"
)

var (
	isTerminal   = term.IsTerminal
	promptSecret = secrets.Prompt
)

// loaded is a config with its generated form and current values.
type loaded struct {
	cfg    *scriptconfig.Config
	form   *form.Form
	values form.Values
}

// loadForm reads path, builds the form and applies stored secrets and
// --set overrides.
func loadForm(path string, sets []string) (*loaded, error) {
	cfg, err := scriptconfig.Load(path)
	if err != nil {
		return nil, err
	}
	f, err := form.Build(cfg)
	if err != nil {
		return nil, apperrors.Config("", err)
	}
	values := f.Defaults()
	secrets.Fill(cfg.Path(), f, values)
	if err := applySets(f, values, sets); err != nil {
		return nil, err
	}
	return &loaded{cfg: cfg, form: f, values: values}, nil
}

// applySets parses "key=value" or "Section.key=value" overrides. A bare key
// is looked up in [Arguments] first, then [Command].
func applySets(f *form.Form, values form.Values, sets []string) error {
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return apperrors.Validation(fmt.Sprintf("Invalid --set %q: expected key=value", s), nil)
		}
		key = strings.TrimSpace(key)
		field, found := lookupField(f, key)
		if !found {
			return apperrors.Validation(fmt.Sprintf("Unknown field %q", key), nil)
		}
		values[field.Ref()] = value
	}
	return nil
}

func lookupField(f *form.Form, key string) (form.Field, bool) {
	if section, k, ok := strings.Cut(key, "."); ok {
		if fd, found := f.Field(section, k); found {
			return fd, true
		}
	}
	for _, section := range []string{scriptconfig.SectionArguments, scriptconfig.SectionCommand} {
		if fd, found := f.Field(section, key); found {
			return fd, true
		}
	}
	return form.Field{}, false
}

func loadSettings(opts *globalOptions) (*settings.Store, error) {
	path := opts.settingsPath
	if path == "" {
		path = settings.DefaultPath()
	}
	return settings.Load(path)
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	w := uniseg.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to at most width cells, ending with "…".
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + "…"
}

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	stderrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)
