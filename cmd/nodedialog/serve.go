package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/nodedialog"
	"github.com/aretw0/nodedialog/internal/cli"
	"github.com/aretw0/nodedialog/internal/logging"
	httpAdapter "github.com/aretw0/nodedialog/pkg/adapters/http"
	"github.com/aretw0/nodedialog/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Start the HTTP server",
	Long: `Hosts the dialog graph over HTTP. Clients create speakers, advance them and
post their choices; counters are exposed on /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		port, _ := cmd.Flags().GetString("port")

		logger := logging.New(logging.ResolveLevel(opts.LogLevel, "info"))

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		engine, err := cli.NewEngine(opts, logger, nodedialog.WithLifecycleHooks(metrics.Hooks(logger)))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(engine, httpAdapter.WithLogger(logger), httpAdapter.WithMetrics(reg)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting NodeDialog Server", "addr", srv.Addr, "graph", opts.Path)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("NodeDialog Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addLocaleFlags(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
