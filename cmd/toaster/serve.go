package main

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/toaster/internal/playground"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr        string
		metricsPath string
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the toast playground",
		Long: `Start an interactive playground for the configured notifier.

The page shows the live toast stack. Toasts can be created from the
page or by posting events:

  curl -X POST localhost:3000/toasts -d '{"level":"success","message":"Saved"}'

Examples:
  toaster serve
  toaster serve --addr=0.0.0.0:8080
  toaster serve --config=toaster.yaml --open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if metricsPath != "" {
				cfg.Serve.MetricsPath = metricsPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			tc, err := cfg.ToastConfig()
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Log, cmd.ErrOrStderr())
			srv, err := playground.New(playground.Options{
				Addr:        cfg.Serve.Addr,
				MetricsPath: cfg.Serve.MetricsPath,
				Toast:       tc,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printBanner(w)
			info(w, "playground")
			success(w, "Serving on http://%s", cfg.Serve.Addr)
			info(w, "Metrics at http://%s%s", cfg.Serve.Addr, cfg.Serve.MetricsPath)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if openBrowser {
				go openURL("http://" + cfg.Serve.Addr)
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&metricsPath, "metrics-path", "", "Prometheus metrics path (default from config)")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open browser on start")

	return cmd
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd

	switch {
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("start"):
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}

	_ = cmd.Start()
}

// commandExists checks if a command exists in PATH.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
