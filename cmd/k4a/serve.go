package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dialup-inc/kinect/serve"
	"github.com/dialup-inc/kinect/stream"
)

// ServeAction tracks bodies and publishes them on the configured address.
func ServeAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(c)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := stream.NewMetrics(reg)

	srv := serve.NewServer(reg)
	srv.Logger = e.log.With().Str("component", "serve").Logger()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve.ListenAndServe(ctx, e.cfg.Listen, srv)
	})
	g.Go(func() error {
		started := func(p pipeline) {
			srv.SetSerial(p.Serial)
			srv.AddPump("capture", p.Capture.Stats)
			srv.AddPump("bodies", p.Bodies.Stats)
		}
		return trackBodies(ctx, e, metrics, started, func(ctx context.Context, frames <-chan stream.BodyFrame) error {
			return srv.Run(ctx, frames)
		})
	})
	e.log.Info().Str("listen", e.cfg.Listen).Msg("serving")
	return g.Wait()
}
