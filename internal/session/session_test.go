package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oukeidos/guini/internal/launcher"
)

func TestFooter(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	cases := []struct {
		name   string
		result launcher.Result
		last   Line
	}{
		{"success", launcher.Result{Status: launcher.Exited, ExitCode: 0}, Line{Success, "--- Process finished with exit code 0 ---"}},
		{"failure", launcher.Result{Status: launcher.Exited, ExitCode: 2}, Line{Failure, "--- Process finished with exit code 2 ---"}},
		{"crash", launcher.Result{Status: launcher.Crashed, ExitCode: -1}, Line{Failure, "! Process was terminated or crashed."}},
		{"terminated", launcher.Result{Status: launcher.Terminated}, Line{Failure, "! Process was terminated or crashed."}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.result.Started = start
			tc.result.Elapsed = 1234 * time.Millisecond
			lines := Footer(tc.result)
			if lines[0].Text != "--- Finished at 10:00:01 (Elapsed: 1.23s) ---" {
				t.Errorf("first line = %q", lines[0].Text)
			}
			if got := lines[len(lines)-1]; got != tc.last {
				t.Errorf("last line = %+v, want %+v", got, tc.last)
			}
		})
	}
}

func TestHeaderAndBanner(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 5, 7, 0, time.Local)
	h := Header(now, "/usr/bin/python3", "Python 3.12.1")
	if h[0].Text != "--- Session started at: 2026-03-01 09:05:07 ---" {
		t.Errorf("header = %q", h[0].Text)
	}
	if !strings.Contains(h[1].Text, "3.12.1") || !strings.Contains(h[2].Text, "/usr/bin/python3") {
		t.Errorf("header lines = %+v", h)
	}
	b := RunBanner(now)
	if b[1].Text != strings.Repeat("=", 60) || !strings.HasPrefix(b[2].Text, "--- Starting new run at: ") {
		t.Errorf("banner = %+v", b)
	}
}

func TestLinePrefixes(t *testing.T) {
	if got := StdoutLine("hi").Text; got != "> hi" {
		t.Errorf("stdout = %q", got)
	}
	if got := StderrLine("bad").Text; got != "! ERROR: bad" {
		t.Errorf("stderr = %q", got)
	}
	if l := WarningLine("pythonw.exe not found"); l.Kind != Warning || l.Text != "Warning: pythonw.exe not found" {
		t.Errorf("warning = %+v", l)
	}
	if got := CommandEcho(`python3 "a b.py"`).Text; got != `$ python3 "a b.py"` {
		t.Errorf("echo = %q", got)
	}
	if got := FinishedTitle(FinishedTitle("Output 2")); got != "[Finished] Output 2" {
		t.Errorf("title = %q", got)
	}
}

func TestTranscriptSave(t *testing.T) {
	var tr Transcript
	tr.Append(StdoutLine("one"), StderrLine("two"))
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := tr.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "> one\n! ERROR: two\n" {
		t.Fatalf("saved %q", data)
	}
	tr.Clear()
	if tr.Len() != 0 {
		t.Fatal("Clear left lines behind")
	}
}
