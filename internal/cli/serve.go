package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplint/internal/server"
	"github.com/matzehuels/deplint/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tree and lint runs over HTTP",
		Long: `Start an HTTP server exposing tree and lint runs as a JSON API.

  GET  /v1/tree/{package}?range=&depth=&kind=&annotate=
  POST /v1/lint
  GET  /v1/version
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := server.NewMetrics(reg)
	observability.SetPipelineHooks(metrics)
	observability.SetManifestCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	registry := c.registryURL("")
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(c.newFetcher(registry), c.Logger, metrics).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stderr := cmd.ErrOrStderr()
	printInfo(stderr, "Listening on %s", addr)
	printKeyValue(stderr, "registry", registry)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	printSuccess(stderr, "Server stopped")
	return nil
}
