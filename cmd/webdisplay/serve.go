package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vango-dev/webdisplay/internal/config"
)

type serveOptions struct {
	port     int
	bind     string
	loopback bool
	windows  int
	where    string
	batch    bool
	metrics  string
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the embedded server until interrupted",
		Long: `Bind the embedded HTTP/WebSocket server and keep it running.

With --windows, that many windows are created and shown with --where.
The server answers GET /healthz with the number of registered windows.

Examples:
  webdisplay serve --port=8800
  webdisplay serve --windows=2 --where=chrome --batch --metrics=:9100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "HTTP port to try first (default from HttpPort setting)")
	cmd.Flags().StringVar(&opts.bind, "bind", "", "Interface to listen on")
	cmd.Flags().BoolVar(&opts.loopback, "loopback", false, "Listen on 127.0.0.1 only")
	cmd.Flags().IntVarP(&opts.windows, "windows", "n", 0, "Number of windows to create and show")
	cmd.Flags().StringVarP(&opts.where, "where", "w", "", "Launch mode for the windows")
	cmd.Flags().BoolVarP(&opts.batch, "batch", "b", false, "Show every window headless")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "Serve Prometheus metrics on this address")

	return cmd
}

func runServe(flags *globalFlags, opts serveOptions) error {
	overrides := config.Values{}
	if opts.port > 0 {
		overrides.Set(config.KeyHttpPort, strconv.Itoa(opts.port))
	}
	if opts.bind != "" {
		overrides.Set(config.KeyHttpBind, opts.bind)
	}
	if opts.loopback {
		overrides.Set(config.KeyHttpLoopback, "yes")
	}

	cfg, err := loadConfig(flags.configPath, overrides)
	if err != nil {
		return err
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()

	s := newSession(cfg, opts.batch)
	defer s.close()

	ctx, cancel := signalContext()
	defer cancel()

	addr, err := s.manager.EnsureServer(ctx, true)
	if err != nil {
		return err
	}
	success("Listening on %s", addr)
	info("health   %s/healthz", addr)
	s.serveMetrics(ctx, opts.metrics)

	for i := 0; i < opts.windows; i++ {
		win := s.manager.CreateWindow(false)
		if err := win.Show(ctx, opts.where); err != nil {
			errorMsg("window %d: %v", win.ID(), err)
			win.Destroy()
			continue
		}
		url, _ := win.GetUrl(ctx, true)
		success("Window %d shown at %s", win.ID(), url)
	}

	<-ctx.Done()
	fmt.Println("\n\n  Shutting down...")
	return nil
}
