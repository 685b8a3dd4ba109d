package main

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWithPanicGuardRecovers(t *testing.T) {
	var called atomic.Bool
	withPanicGuard("test.guard", func(any) {
		called.Store(true)
	}, func() {
		panic("boom")
	})
	if !called.Load() {
		t.Fatalf("panic callback was not called")
	}
}

func TestWithPanicGuardNoPanic(t *testing.T) {
	var called atomic.Bool
	withPanicGuard("test.guard.no_panic", func(any) {
		called.Store(true)
	}, func() {})
	if called.Load() {
		t.Fatalf("panic callback should not be called")
	}
}

func TestSafeGoRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	safeGo("test.safe_go.panic", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("safeGo goroutine did not finish")
	}
}

func TestAppSafeDoSurvivesPanic(t *testing.T) {
	a := createTestApp(t, nil)
	a.safeDo("test.safe_do.panic", func() {
		panic("boom")
	})

	ran := false
	a.safeDo("test.safe_do.after", func() { ran = true })
	if !ran {
		t.Fatal("UI callbacks should keep running after a recovered panic")
	}
	if a.status.Text == "" {
		t.Error("recovered panic should be reported in the status bar")
	}
}
