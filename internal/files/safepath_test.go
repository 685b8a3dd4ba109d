package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafePath_NoChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath failed: %v", err)
	}
	if changed || got != path {
		t.Fatalf("expected %q unchanged, got %q (changed=%v)", path, got, changed)
	}
}

func TestSafePath_WithCollision(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "output.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath failed: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed path")
	}
	if want := filepath.Join(tmpDir, "output_1.txt"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSafePath_Empty(t *testing.T) {
	if _, _, err := SafePath(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
