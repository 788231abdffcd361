package main

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/webdisplay/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┌┐ ┌┬┐┬┌─┐┌─┐┬  ┌─┐┬ ┬
  ║║║├┤ ├┴┐ │││└─┐├─┘│  ├─┤└┬┘
  ╚╩╝└─┘└─┘─┴┘┴└─┘┴  ┴─┘┴ ┴ ┴
`

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "webdisplay",
		Short: "Show web windows in a browser or embedded engine",
		Long: `webdisplay runs an embedded HTTP/WebSocket server and opens
windows on it in a browser, a headless browser or an embedded engine.

Settings are read from command-line flags, WEBGUI_* environment
variables and webdisplay.json, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default ./webdisplay.json if present)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(
		showCmd(&flags),
		serveCmd(&flags),
		haltCmd(),
		configCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err, flags.verbose))
		os.Exit(1)
	}
}

// formatError renders a command error. Coded errors get the full block
// with --verbose and a single line otherwise.
func formatError(err error, verbose bool) string {
	var de *errors.DisplayError
	if !stderrors.As(err, &de) {
		return fmt.Sprintf("\033[31mError:\033[0m %s", err)
	}
	if verbose {
		return de.Format()
	}
	line := "\033[31mError:\033[0m " + de.FormatCompact()
	if de.Detail != "" || de.Wrapped != nil || de.Suggestion != "" {
		line += " (run with --verbose for details)"
	}
	return line
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
