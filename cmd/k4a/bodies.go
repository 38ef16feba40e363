package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
	"github.com/dialup-inc/kinect/stream"
)

// pipeline is a running device to tracker chain.
type pipeline struct {
	Serial  string
	Capture *stream.CapturePump
	Bodies  *stream.BodyPump
}

// sink consumes body frames until the channel closes or it has had enough.
type sink func(ctx context.Context, frames <-chan stream.BodyFrame) error

// trackBodies opens the device and a tracker, then runs a CapturePump into
// a BodyPump whose frames go to consume. started, if set, sees the pumps
// before they run. The run ends when ctx is done, a pump fails or consume
// returns an error.
func trackBodies(ctx context.Context, e *env, metrics *stream.Metrics, started func(pipeline), consume sink) error {
	dev, closeDev, err := e.openDevice()
	if err != nil {
		return err
	}
	defer closeDev()

	serial, err := dev.SerialNumber()
	if err != nil {
		return err
	}
	cal, err := dev.Calibration(e.cfg.Device.DepthMode, e.cfg.Device.ColorResolution)
	if err != nil {
		return err
	}
	bt, err := e.tracking()
	if err != nil {
		return err
	}
	tracker, err := bt.NewTracker(cal, e.cfg.Tracker)
	if err != nil {
		return err
	}
	defer tracker.Close()

	p := pipeline{
		Serial: serial,
		Capture: &stream.CapturePump{
			Source:      dev,
			Timeout:     e.cfg.CaptureTimeout,
			MaxFailures: e.cfg.MaxFailures,
			Logger:      e.log.With().Str("pump", "capture").Logger(),
			Metrics:     metrics,
		},
		Bodies: &stream.BodyPump{
			Tracker: tracker,
			Timeout: e.cfg.CaptureTimeout,
			Logger:  e.log.With().Str("pump", "bodies").Logger(),
			Metrics: metrics,
		},
	}
	if started != nil {
		started(p)
	}

	captures := make(chan *k4a.Capture, e.cfg.Buffer)
	frames := make(chan stream.BodyFrame, e.cfg.Buffer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Capture.Run(gctx, captures) })
	g.Go(func() error { return p.Bodies.Run(gctx, captures, frames) })
	g.Go(func() error {
		err := consume(gctx, frames)
		// keep the body pump from blocking on a sink that quit early
		for range frames {
		}
		return err
	})
	err = g.Wait()

	// captures the body pump did not get to
	for c := range captures {
		c.Close()
	}
	return err
}

var errEnough = errors.New("enough frames")

// BodiesAction prints the bodies found in each tracker result.
func BodiesAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(c)
	defer stop()

	limit := c.Int(flagFrames)
	w := c.App.Writer
	var printed int
	err = trackBodies(ctx, e, nil, nil, func(ctx context.Context, frames <-chan stream.BodyFrame) error {
		for f := range frames {
			printFrame(w, f)
			printed++
			if limit > 0 && printed >= limit {
				return errEnough
			}
		}
		return nil
	})
	if errors.Is(err, errEnough) {
		return nil
	}
	return err
}

func printFrame(w io.Writer, f stream.BodyFrame) {
	fmt.Fprintf(w, "frame %d at %v: %d bodies\n", f.Seq, f.DeviceTimestamp, len(f.Bodies))
	for _, b := range f.Bodies {
		fmt.Fprintf(w, "  body %d\n", b.ID)
		for _, j := range []k4abt.JointID{k4abt.JointPelvis, k4abt.JointHead} {
			joint := b.Skeleton.Joint(j)
			p := joint.Position
			fmt.Fprintf(w, "    %-8s %8.1f %8.1f %8.1f  %s\n", j, p.X(), p.Y(), p.Z(), joint.ConfidenceLevel)
		}
	}
}
