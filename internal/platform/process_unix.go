//go:build !windows

package platform

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func spawnAttr() *syscall.SysProcAttr {
	return nil
}

func killProcess(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}

func shellCommand(command string) (string, []string) {
	return "/bin/sh", []string{"-c", command}
}
