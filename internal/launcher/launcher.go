// Package launcher runs scripts as child processes and streams their output.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/logger"
)

// ErrAlreadyRunning is returned when a tab already owns a live process.
var ErrAlreadyRunning = errors.New("a process is already running in this tab")

// DefaultGrace is how long Terminate waits after the interrupt before
// killing the process.
const DefaultGrace = 3 * time.Second

const maxLineSize = 1024 * 1024

// drainDelay is how long output is still read after the script exits.
// Children it left running may keep the pipes open; they are closed then.
const drainDelay = time.Second

// TabID identifies an output tab.
type TabID int

// Spec describes one script invocation.
type Spec struct {
	Executable string
	Script     string
	Dir        string
	Args       []string
	// Env is added to the parent environment.
	Env []string
}

// Command returns the full argument vector, interpreter first.
func (s Spec) Command() []string {
	out := make([]string, 0, len(s.Args)+2)
	out = append(out, s.Executable, s.Script)
	return append(out, s.Args...)
}

func (s Spec) workDir() string {
	if s.Dir != "" {
		return s.Dir
	}
	return filepath.Dir(s.Script)
}

func (s Spec) environ() []string {
	env := append(os.Environ(), s.Env...)
	return append(env, "PYTHONUNBUFFERED=1")
}

type Status int

const (
	Exited Status = iota
	Crashed
	Terminated
)

func (s Status) String() string {
	switch s {
	case Crashed:
		return "crashed"
	case Terminated:
		return "terminated"
	default:
		return "exited"
	}
}

// Result describes a finished process.
type Result struct {
	RunID    string
	ExitCode int
	Status   Status
	Started  time.Time
	Elapsed  time.Duration
	// Err is set when waiting on the process failed for a reason other
	// than a non-zero exit.
	Err error
}

// Success reports a clean exit with code 0.
func (r Result) Success() bool { return r.Status == Exited && r.ExitCode == 0 }

// Sink receives process output. Methods are called from reader goroutines;
// Stdout and Stderr may be called concurrently with each other.
type Sink interface {
	Stdout(line string)
	Stderr(line string)
	Finished(Result)
}

type Process struct {
	tab     TabID
	runID   string
	cmd     *exec.Cmd
	started time.Time
	grace   time.Duration

	mu         sync.Mutex
	terminated bool

	done   chan struct{}
	result Result
}

func (p *Process) RunID() string { return p.runID }
func (p *Process) Tab() TabID     { return p.tab }
func (p *Process) Pid() int       { return p.cmd.Process.Pid }

// Done is closed once the process has exited and its output is drained.
func (p *Process) Done() <-chan struct{} { return p.done }

// Result is valid after Done is closed.
func (p *Process) Result() Result {
	<-p.done
	return p.result
}

// Terminate asks the process to stop and kills it if it is still running
// after the grace period.
func (p *Process) Terminate() error {
	p.mu.Lock()
	already := p.terminated
	p.terminated = true
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	default:
	}
	if already {
		return nil
	}
	if err := interrupt(p.cmd.Process); err != nil {
		logger.Debug("interrupt failed, killing", "run_id", p.runID, "error", err)
		return p.kill()
	}
	go func() {
		select {
		case <-p.done:
		case <-time.After(p.grace):
			logger.Warn("process ignored interrupt, killing", "run_id", p.runID)
			_ = p.kill()
		}
	}()
	return nil
}

func (p *Process) kill() error {
	if err := killGroup(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *Process) wasTerminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}

// Registry tracks the running process of each tab.
type Registry struct {
	mu    sync.Mutex
	procs map[TabID]*Process
	// Grace overrides DefaultGrace when positive.
	Grace time.Duration
}

func NewRegistry() *Registry {
	return &Registry{procs: make(map[TabID]*Process)}
}

// Start launches spec for tab and streams its output to sink. Cancelling
// ctx terminates the process.
func (r *Registry) Start(ctx context.Context, tab TabID, spec Spec, sink Sink) (*Process, error) {
	if spec.Executable == "" {
		return nil, apperrors.Launch("No interpreter configured.", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.procs[tab]; busy {
		return nil, apperrors.Launch("A process is already running in this tab.", ErrAlreadyRunning)
	}

	grace := r.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	p := &Process{
		tab:   tab,
		runID: newRunID(),
		grace: grace,
		done:  make(chan struct{}),
	}

	cmdArgs := spec.Command()
	cmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	cmd.Dir = spec.workDir()
	cmd.Env = spec.environ()
	cmd.SysProcAttr = attachedAttr()
	cmd.Cancel = func() error {
		p.mu.Lock()
		p.terminated = true
		p.mu.Unlock()
		return interrupt(cmd.Process)
	}
	cmd.WaitDelay = grace
	p.cmd = cmd

	stdout, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, apperrors.Launch("", err)
	}
	stderr, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdout, stdoutW)
		return nil, apperrors.Launch("", err)
	}
	cmd.Stdout, cmd.Stderr = stdoutW, stderrW
	err = cmd.Start()
	closeAll(stdoutW, stderrW)
	if err != nil {
		closeAll(stdout, stderr)
		return nil, apperrors.Launch(fmt.Sprintf("Failed to start process: %v", err), err)
	}
	p.started = time.Now()
	r.procs[tab] = p

	logger.Info("process started",
		"tab", int(tab),
		"run_id", p.runID,
		"pid", cmd.Process.Pid,
		"script", filepath.Base(spec.Script),
		"args", len(spec.Args),
	)
	go r.wait(p, stdout, stderr, sink)
	return p, nil
}

func closeAll(fs ...*os.File) {
	for _, f := range fs {
		_ = f.Close()
	}
}

func (r *Registry) wait(p *Process, stdout, stderr *os.File, sink Sink) {
	drained := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, sink.Stdout)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, sink.Stderr)
	}()
	go func() {
		wg.Wait()
		close(drained)
	}()

	err := p.cmd.Wait()
	select {
	case <-drained:
	case <-time.After(drainDelay):
		logger.Warn("output still open after exit, closing", "run_id", p.runID)
		closeAll(stdout, stderr)
		select {
		case <-drained:
		case <-time.After(drainDelay):
		}
	}
	closeAll(stdout, stderr)

	res := Result{
		RunID:   p.runID,
		Started: p.started,
		Elapsed: time.Since(p.started),
	}
	res.ExitCode, res.Status, res.Err = classify(err, p.wasTerminated())
	p.result = res

	r.mu.Lock()
	if r.procs[p.tab] == p {
		delete(r.procs, p.tab)
	}
	r.mu.Unlock()
	close(p.done)

	logger.Info("process finished",
		"tab", int(p.tab),
		"run_id", p.runID,
		"status", res.Status.String(),
		"exit_code", res.ExitCode,
		"elapsed", res.Elapsed.Round(time.Millisecond).String(),
	)
	sink.Finished(res)
}

func classify(err error, terminated bool) (int, Status, error) {
	if err == nil {
		if terminated {
			return 0, Terminated, nil
		}
		return 0, Exited, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		switch {
		case terminated:
			return code, Terminated, nil
		case code < 0:
			return code, Crashed, nil
		default:
			return code, Exited, nil
		}
	}
	if terminated {
		return -1, Terminated, err
	}
	return -1, Crashed, err
}

// scanLines emits r line by line. Lines longer than maxLineSize are
// emitted in maxLineSize pieces.
func scanLines(r io.Reader, emit func(string)) {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	flush := func() {
		emit(strings.ToValidUTF8(string(line), "\uFFFD"))
		line = line[:0]
	}
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			if len(line) > 0 {
				flush()
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logger.Debug("output stream ended with error", "error", err)
			}
			return
		}
		line = append(line, chunk...)
		if !more || len(line) >= maxLineSize {
			flush()
		}
	}
}

// Running reports whether tab has a live process.
func (r *Registry) Running(tab TabID) bool {
	_, ok := r.Get(tab)
	return ok
}

func (r *Registry) Get(tab TabID) (*Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[tab]
	return p, ok
}

// Count returns the number of live processes.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// Terminate stops the process of tab, if any.
func (r *Registry) Terminate(tab TabID) error {
	p, ok := r.Get(tab)
	if !ok {
		return nil
	}
	return p.Terminate()
}

// TerminateAll stops every live process and waits up to timeout for them
// to exit.
func (r *Registry) TerminateAll(timeout time.Duration) {
	r.mu.Lock()
	procs := make([]*Process, 0, len(r.procs))
	for _, p := range r.procs {
		procs = append(procs, p)
	}
	r.mu.Unlock()

	deadline := time.After(timeout)
	for _, p := range procs {
		_ = p.Terminate()
	}
	for _, p := range procs {
		select {
		case <-p.done:
		case <-deadline:
			return
		}
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
