package launcher

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/oukeidos/guini/internal/apperrors"
)

var (
	goos     = runtime.GOOS
	lookPath = exec.LookPath
)

// DefaultInterpreter is used when neither the settings nor the config name one.
func DefaultInterpreter() string {
	if goos == "windows" {
		return "python"
	}
	return "python3"
}

// ResolveInterpreter finds the executable to run scripts with. configured
// may be empty. In background mode on Windows the console-less pythonw.exe
// next to the interpreter is preferred; warning is set when it is missing
// and the script will run with a console.
func ResolveInterpreter(configured string, background bool) (exe string, warning string, err error) {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = DefaultInterpreter()
	}
	exe, err = lookPath(name)
	if err != nil {
		return "", "", apperrors.Launch("Python interpreter not found: "+name, err)
	}
	if !background || goos != "windows" {
		return exe, "", nil
	}
	if strings.EqualFold(filepath.Base(exe), "pythonw.exe") {
		return exe, "", nil
	}
	pythonw := filepath.Join(filepath.Dir(exe), "pythonw.exe")
	if _, statErr := os.Stat(pythonw); statErr == nil {
		return pythonw, "", nil
	}
	return exe, "pythonw.exe not found, running in the background with a console window.", nil
}

// Version returns the interpreter's "--version" output, or "" if it cannot
// be run.
func Version(ctx context.Context, exe string) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, exe, "--version").CombinedOutput()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
