//go:build !windows

package launcher

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestExitWithChildHoldingOutput(t *testing.T) {
	reg := NewRegistry()
	sink := newRecordSink()
	p, err := reg.Start(context.Background(), 1, helperSpec(t, "orphan"), sink)
	if err != nil {
		t.Fatal(err)
	}
	pid := p.Pid()
	t.Cleanup(func() { _ = unix.Kill(-pid, unix.SIGKILL) })

	select {
	case res := <-sink.done:
		if !res.Success() {
			t.Fatalf("result = %+v, want clean exit", res)
		}
	case <-time.After(drainDelay + 5*time.Second):
		t.Fatal("Finished not delivered while a child still holds the output pipes")
	}
	if reg.Running(1) {
		t.Fatal("tab should be free once the script has exited")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.stdout) == 0 || !strings.HasPrefix(sink.stdout[0], "started") {
		t.Fatalf("stdout = %q", sink.stdout)
	}
}

func TestTerminateStopsChildren(t *testing.T) {
	reg := NewRegistry()
	reg.Grace = 500 * time.Millisecond
	sink := newRecordSink()
	p, err := reg.Start(context.Background(), 1, helperSpec(t, "tree"), sink)
	if err != nil {
		t.Fatal(err)
	}
	pid := p.Pid()
	t.Cleanup(func() { _ = unix.Kill(-pid, unix.SIGKILL) })

	select {
	case <-sink.ready:
	case <-time.After(20 * time.Second):
		t.Fatal("child never became ready")
	}
	stopped := time.Now()
	if err := reg.Terminate(1); err != nil {
		t.Fatal(err)
	}
	if res := sink.wait(t); res.Status != Terminated {
		t.Fatalf("result = %+v, want terminated", res)
	}
	// A surviving child would hold the pipes open until drainDelay.
	if waited := time.Since(stopped); waited >= drainDelay {
		t.Fatalf("output stayed open for %v after Terminate", waited)
	}
}
