package handlers

import (
	"context"
	"fmt"
	"net"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/acs-assignment/appboot/internal/config"
	"github.com/acs-assignment/appboot/internal/server"
)

// ServeOptions holds the flags of the serve command.
type ServeOptions struct {
	MetricsAddr string
}

// netListen opens listeners. Replaced in tests.
var netListen = net.Listen

// Serve runs the placeholder application until ctx is canceled.
func Serve(ctx context.Context, opts ServeOptions) error {
	log := logr.FromContextOrDiscard(ctx).WithName("server")

	cfg, err := config.LoadListenFrom(ctx, envLookuper)
	if err != nil {
		return fmt.Errorf("failed to resolve listen address: %w", err)
	}

	timeouts, err := loadTimeouts(ctx)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := server.New(cfg,
		server.WithLogger(log),
		server.WithRegisterer(reg),
		server.WithShutdownTimeout(timeouts.Shutdown),
	)
	if err != nil {
		return err
	}

	ln, err := netListen("tcp", srv.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr(), err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})

	if opts.MetricsAddr != "" {
		mln, err := netListen("tcp", opts.MetricsAddr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("failed to listen on %s: %w", opts.MetricsAddr, err)
		}
		g.Go(func() error {
			return server.ServeMetrics(gctx, mln, reg, log.WithName("metrics"))
		})
	}

	return g.Wait()
}
