package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verifact/internal/pipeline"
	"github.com/ppiankov/verifact/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the checker over HTTP",
	Long: `Serve starts an HTTP server with:
  GET  /healthz   liveness probe
  POST /verify    multipart upload (field "file"), returns the report as JSON
  GET  /metrics   Prometheus metrics

One document is checked at a time; concurrent uploads get 409 Conflict.

Example:
  verifact serve --addr :8080
  curl -F file=@annual-report.pdf http://localhost:8080/verify`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, map[string]string{"server.addr": "addr"})
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.NewPipeline(cfg, pipeline.Options{}, logger)
	if err != nil {
		return describe(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "✓ Listening on %s\n", cfg.Server.Addr)
	return server.New(p, cfg.Server, logger).ListenAndServe(ctx, cfg.Server.Addr)
}
