package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/webdisplay/internal/config"
	"github.com/vango-dev/webdisplay/pkg/webwin"
)

type showOptions struct {
	where    string
	batch    bool
	width    int
	height   int
	page     string
	port     int
	loopback bool
	wait     time.Duration
	metrics  string
}

func showCmd(flags *globalFlags) *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Open a window and keep it served until it is closed",
		Long: `Open one window on the embedded server and display it.

--where selects the launch mode: native (default), an engine name
(lorca, cef, qt5), chrome, chromium, firefox, browser, a program name,
or a command template using $url, $width, $height and $prog.

The command waits for the display client to connect, then serves the
window until the client disconnects or the process is interrupted.

Examples:
  webdisplay show
  webdisplay show --where=firefox --width=1024 --height=768
  webdisplay show --where=chrome --batch
  webdisplay show --where='epiphany --new-window $url'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.where, "where", "w", "", "Launch mode or program (default from Display setting)")
	cmd.Flags().BoolVarP(&opts.batch, "batch", "b", false, "Show the window headless")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Client width in pixels (default 800)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Client height in pixels (default 600)")
	cmd.Flags().StringVar(&opts.page, "page", "", "HTML file served as the window page")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "HTTP port to try first (default from HttpPort setting)")
	cmd.Flags().BoolVar(&opts.loopback, "loopback", false, "Listen on 127.0.0.1 only")
	cmd.Flags().DurationVar(&opts.wait, "wait", -1, "How long to wait for the client to connect (0 waits forever, default WaitForTmout)")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "Serve Prometheus metrics on this address")

	return cmd
}

func runShow(flags *globalFlags, opts showOptions) error {
	overrides := config.Values{}
	if opts.port > 0 {
		overrides.Set(config.KeyHttpPort, strconv.Itoa(opts.port))
	}
	if opts.loopback {
		overrides.Set(config.KeyHttpLoopback, "yes")
	}

	cfg, err := loadConfig(flags.configPath, overrides)
	if err != nil {
		return err
	}

	var page string
	if opts.page != "" {
		data, err := os.ReadFile(opts.page)
		if err != nil {
			return fmt.Errorf("reading page: %w", err)
		}
		page = string(data)
	}

	printBanner()
	fmt.Println()

	s := newSession(cfg, false)
	defer s.close()

	ctx, cancel := signalContext()
	defer cancel()
	s.serveMetrics(ctx, opts.metrics)

	win := s.manager.CreateWindow(opts.batch)
	win.SetGeometry(opts.width, opts.height)
	if page != "" {
		win.SetDefaultPage(page)
	}

	if err := win.Show(ctx, opts.where); err != nil {
		errorMsg("could not show window %d", win.ID())
		return err
	}
	success("Window %d shown", win.ID())
	if url, err := win.GetUrl(ctx, false); err == nil {
		info("endpoint %s", url)
	}
	if addr := s.manager.Addr(); addr != "" {
		info("server   %s", addr)
	}

	connected := s.manager.WaitFor(func(time.Duration) int {
		if ctx.Err() != nil {
			return -1
		}
		return win.NumConnections()
	}, opts.wait)
	switch {
	case connected < 0:
		return nil
	case connected == 0:
		warn("no client connected to window %d", win.ID())
		return nil
	}
	success("Client connected")

	waitDisconnect(ctx, win)
	info("window closed")
	return nil
}

// waitDisconnect blocks until the window has no clients or ctx is done.
func waitDisconnect(ctx context.Context, win *webwin.Window) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if win.NumConnections() == 0 {
				return
			}
		}
	}
}
