//go:build !windows

package launcher

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// attachedAttr puts the script in its own process group so that
// interrupt and killGroup also reach the children it starts.
func attachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func interrupt(p *os.Process) error {
	if err := unix.Kill(-p.Pid, unix.SIGINT); err == nil {
		return nil
	}
	return p.Signal(os.Interrupt)
}

func killGroup(p *os.Process) error {
	if err := unix.Kill(-p.Pid, unix.SIGKILL); err == nil {
		return nil
	}
	return p.Kill()
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
