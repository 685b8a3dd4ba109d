// Package cleanup runs shutdown hooks such as closing log files, stopping
// file watchers and terminating child processes.
package cleanup

import (
	"errors"
	"sync"
)

// Stack runs hooks in reverse registration order.
type Stack struct {
	mu    sync.Mutex
	hooks []hook
}

type hook struct {
	name string
	fn   func() error
}

// Push adds a named hook.
func (s *Stack) Push(name string, fn func() error) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, hook{name: name, fn: fn})
	s.mu.Unlock()
}

// Run executes and forgets every hook. Errors are joined and prefixed with
// the hook name.
func (s *Stack) Run() error {
	s.mu.Lock()
	local := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	var errs []error
	for i := len(local) - 1; i >= 0; i-- {
		if err := local[i].fn(); err != nil {
			errs = append(errs, &HookError{Name: local[i].name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of pending hooks.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hooks)
}

type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string { return "cleanup " + e.Name + ": " + e.Err.Error() }
func (e *HookError) Unwrap() error { return e.Err }

var global Stack

// Register adds a hook to the process-wide stack.
func Register(name string, fn func() error) { global.Push(name, fn) }

// RunAll runs the process-wide stack.
func RunAll() error { return global.Run() }
