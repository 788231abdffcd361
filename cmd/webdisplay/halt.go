package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/webdisplay/internal/platform"
	"github.com/vango-dev/webdisplay/pkg/webwin"
)

func haltCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "halt TAG...",
		Short: "Kill display clients by launch tag",
		Long: `Kill display clients started with direct spawn. Each TAG has the
form pid:<n> as recorded for the window key. Other tags are ignored.
Kill failures are logged with --verbose.

Examples:
  webdisplay halt pid:4242`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			haltTags(webwin.NewSupervisor(platform.Current(), slog.Default(), nil), args)
		},
	}
}

// haltTags sends each pid tag to s and reports what it did.
func haltTags(s *webwin.Supervisor, tags []string) {
	for _, tag := range tags {
		pid, ok := webwin.ParsePIDTag(tag)
		if !ok {
			warn("ignoring %q: not a pid tag", tag)
			continue
		}
		s.Halt(tag)
		success("Halted pid %d", pid)
	}
}
