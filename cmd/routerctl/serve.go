package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/staterouter/internal/config"
	"github.com/comalice/staterouter/internal/core"
	"github.com/comalice/staterouter/internal/httpapi"
	"github.com/comalice/staterouter/internal/production"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr     string
	watch    bool
	stateDir string
}

func newServeCmd(a *app) *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the router over HTTP with a websocket transition stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the router when the config file changes")
	cmd.Flags().StringVar(&opts.stateDir, "state-dir", "", "badger directory for snapshot history (empty disables it)")
	return cmd
}

func (a *app) serve(ctx context.Context, opts serveOptions) error {
	f, err := a.load()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := production.NewMetricsObserver(reg)
	hub := httpapi.NewHub(a.logger)
	defer hub.Close()

	extra := []core.Option{
		core.WithObserver(production.NewLogObserver(a.logger)),
		core.WithObserver(metrics),
		core.WithObserver(production.NewTracingObserver(otel.GetTracerProvider())),
		core.WithObserver(hub),
	}

	var snapshots *production.BadgerRegistry
	if opts.stateDir != "" {
		snapshots, err = production.OpenBadgerRegistry(opts.stateDir)
		if err != nil {
			return err
		}
		defer snapshots.Close()
		extra = append(extra, core.WithRegistry(snapshots))
	}

	router, err := a.build(f, extra...)
	if err != nil {
		return err
	}
	if err := router.Resume(ctx); err != nil {
		return err
	}

	svc := httpapi.NewService(router, hub, reg, a.logger)
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{Addr: opts.addr, Handler: svc.Handler(), ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("serving", zap.String("addr", opts.addr), zap.String("router", router.ID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if opts.watch {
		w, err := config.NewWatcher(a.configPath, a.logger, func(next *config.File) {
			r, err := a.build(next, extra...)
			if err != nil {
				a.logger.Error("rebuild router", zap.Error(err))
				return
			}
			if err := svc.Swap(ctx, r); err != nil {
				a.logger.Error("swap router", zap.Error(err))
				return
			}
			a.logger.Info("router reloaded", zap.String("version", r.Version()))
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
