package cleanup

import (
	"errors"
	"strings"
	"testing"
)

func TestStackRunsInReverseOrder(t *testing.T) {
	var s Stack
	var order []string
	s.Push("log file", func() error { order = append(order, "log file"); return nil })
	s.Push("watcher", func() error { order = append(order, "watcher"); return nil })
	s.Push("nil", nil)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "watcher,log file" {
		t.Fatalf("order = %v", order)
	}
	if s.Len() != 0 {
		t.Fatal("hooks should be forgotten after Run")
	}
}

func TestStackJoinsErrors(t *testing.T) {
	var s Stack
	boom := errors.New("boom")
	s.Push("first", func() error { return boom })
	s.Push("second", func() error { return nil })
	err := s.Run()
	var he *HookError
	if !errors.As(err, &he) || he.Name != "first" || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}
}
