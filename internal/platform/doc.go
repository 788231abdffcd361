// Package platform isolates the operating-system specific parts of launching
// and halting display clients.
//
// A Platform knows how to spawn a program directly (returning its process
// id), how to forcefully kill a process id, how to run a fire-and-forget
// shell command line, how to escape a program path for that shell, which
// command opens the system default browser, and where browsers are
// usually installed.
//
// The variant is chosen at build time: posix (Linux and other unixes),
// macos, and windows.
package platform
