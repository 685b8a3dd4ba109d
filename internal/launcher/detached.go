package launcher

import (
	"os/exec"
	"path/filepath"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/logger"
)

// StartDetached launches spec in its own session without capturing output
// and returns its pid. The process outlives Guini.
func StartDetached(spec Spec) (int, error) {
	if spec.Executable == "" {
		return 0, apperrors.Launch("No interpreter configured.", nil)
	}
	args := spec.Command()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = spec.workDir()
	cmd.Env = spec.environ()
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return 0, apperrors.Launch("Failed to start process in background.", err)
	}
	pid := cmd.Process.Pid
	logger.Info("process started in background", "pid", pid, "script", filepath.Base(spec.Script))
	go func() { _ = cmd.Wait() }()
	return pid, nil
}
