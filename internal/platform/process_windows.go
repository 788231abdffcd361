//go:build windows

package platform

import (
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

const platformName = NameWindows

const openCommand = "start $url"

var browserCandidates = map[string][]string{
	BrowserChrome: {
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	},
	BrowserFirefox: {
		`C:\Program Files\Mozilla Firefox\firefox.exe`,
		`C:\Program Files (x86)\Mozilla Firefox\firefox.exe`,
	},
}

func spawnAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

func killProcess(pid int) error {
	handle, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)

	return windows.TerminateProcess(handle, 1)
}

func shellCommand(command string) (string, []string) {
	return "cmd", []string{"/C", command}
}

func escapeProgram(path string) string {
	if strings.Contains(path, " ") && !strings.HasPrefix(path, `"`) {
		return `"` + path + `"`
	}
	return path
}
