package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/draftboard/internal/adapters/http/api"
	"github.com/okian/draftboard/internal/adapters/http/site"
	"github.com/okian/draftboard/internal/adapters/http/swagger"
	"github.com/okian/draftboard/internal/adapters/repository"
	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 60 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func serveCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest snapshot over HTTP, building one first if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Addr
			}
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(ctx, c.log, store)

			svc := c.newService(store)
			if err := prime(ctx, svc, c.log); err != nil {
				return err
			}

			go startSystemMetricsUpdater(ctx)

			mux := newMux(ctx, svc, c.cfg.MaxLeaderboardLimit)
			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				c.log.Info(ctx, "starting HTTP server", logger.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}
			c.log.Info(ctx, "shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				c.log.Error(ctx, "server shutdown failed", logger.Error(err))
			}
			c.log.Info(ctx, "server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to addr)")
	return cmd
}

// prime restores the latest snapshot, building one when the store is empty.
func prime(ctx context.Context, svc *service.Service, log logger.Logger) error {
	_, err := svc.Restore(ctx)
	if err == nil || !errors.Is(err, repository.ErrNoSnapshot) {
		return err
	}
	log.Info(ctx, "no snapshot stored; building")
	_, err = svc.Build(ctx)
	return err
}

func newMux(ctx context.Context, svc *service.Service, maxLimit int) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc, maxLimit).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater periodically publishes runtime metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
