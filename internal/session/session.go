// Package session produces the text shown in output tabs and keeps a
// plain-text transcript that can be saved.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/files"
	"github.com/oukeidos/guini/internal/launcher"
)

// Kind tells the UI how to style a line.
type Kind int

const (
	Info Kind = iota
	Command
	Stdout
	Stderr
	Success
	Failure
	Warning
)

type Line struct {
	Kind Kind
	Text string
}

const (
	stdoutPrefix = "> "
	stderrPrefix = "! ERROR: "
	rule         = "============================================================"
	stamp        = "2006-01-02 15:04:05"
)

// Header opens a new output tab.
func Header(now time.Time, interpreter, version string) []Line {
	lines := []Line{{Info, fmt.Sprintf("--- Session started at: %s ---", now.Format(stamp))}}
	if version != "" {
		lines = append(lines, Line{Info, "Interpreter version: " + version})
	}
	if interpreter != "" {
		lines = append(lines, Line{Info, "Interpreter executable: " + interpreter})
	}
	return append(lines, Line{Info, ""})
}

// RunBanner separates consecutive runs in one tab.
func RunBanner(now time.Time) []Line {
	return []Line{
		{Info, ""},
		{Info, rule},
		{Info, fmt.Sprintf("--- Starting new run at: %s ---", now.Format(stamp))},
	}
}

// CommandEcho shows the command about to run.
func CommandEcho(cmdline string) Line {
	return Line{Command, "$ " + cmdline}
}

func StdoutLine(s string) Line { return Line{Stdout, stdoutPrefix + s} }
func StderrLine(s string) Line { return Line{Stderr, stderrPrefix + s} }

// Footer summarises a finished run.
func Footer(r launcher.Result) []Line {
	end := r.Started.Add(r.Elapsed)
	lines := []Line{{Info, fmt.Sprintf("--- Finished at %s (Elapsed: %.2fs) ---", end.Format("15:04:05"), r.Elapsed.Seconds())}}
	switch {
	case r.Status != launcher.Exited:
		lines = append(lines, Line{Failure, "! Process was terminated or crashed."})
	case r.ExitCode == 0:
		lines = append(lines, Line{Success, "--- Process finished with exit code 0 ---"})
	default:
		lines = append(lines, Line{Failure, fmt.Sprintf("--- Process finished with exit code %d ---", r.ExitCode)})
	}
	return lines
}

// WarningLine reports a problem that did not stop the run.
func WarningLine(s string) Line { return Line{Warning, "Warning: " + s} }

// BackgroundNotice is shown instead of output when a script runs detached.
func BackgroundNotice(pid int) Line {
	return Line{Info, fmt.Sprintf("--- Started in background (pid %d); output is not captured ---", pid)}
}

// FinishedTitle marks a tab whose process has ended.
func FinishedTitle(name string) string {
	return "[Finished] " + strings.TrimPrefix(name, "[Finished] ")
}

// Transcript collects lines for one tab. It is safe for concurrent use.
type Transcript struct {
	mu    sync.Mutex
	lines []Line
}

func (t *Transcript) Append(lines ...Line) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, lines...)
}

func (t *Transcript) Lines() []Line {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Line(nil), t.lines...)
}

func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = nil
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}

// String returns the transcript as plain text, one line per entry.
func (t *Transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var b strings.Builder
	for _, l := range t.lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Save writes the transcript to path atomically.
func (t *Transcript) Save(path string) error {
	if err := files.AtomicWrite(path, []byte(t.String()), files.DefaultPerm); err != nil {
		return apperrors.IO(fmt.Sprintf("Could not save output to %s", path), err)
	}
	return nil
}
