package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.ini")
	if err := os.WriteFile(path, []byte("[Command]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	fired := make(chan struct{}, 10)
	w, err := New(path, 100*time.Millisecond, func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.ini"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("[Command]\nscript_file_name = a.py\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("got %d notifications, want 1", n)
	}
}

func TestWatcherSuppress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.ini")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	fired := make(chan struct{}, 10)
	w, err := New(path, 50*time.Millisecond, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.Suppress(time.Second)
	if err := os.WriteFile(path, []byte("own save"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Fatal("suppressed write should not notify")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.ini")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, 0, func() {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
