package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4arecord"
	"github.com/dialup-inc/kinect/stream"
)

// RecordAction writes the device's captures, and IMU samples unless
// disabled, to a file until the duration passes or the user interrupts.
func RecordAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(c)
	defer stop()
	if d := c.Duration(flagDuration); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	rec, err := e.record()
	if err != nil {
		return err
	}
	dev, closeDev, err := e.openDevice()
	if err != nil {
		return err
	}
	defer closeDev()

	path := c.String(flagOutput)
	r, err := rec.Create(path, dev, e.cfg.Device)
	if err != nil {
		return err
	}

	imu := c.Bool(flagIMU)
	n, err := record(ctx, e, dev, r, imu)
	err = multierr.Append(err, r.Flush())
	err = multierr.Append(err, r.Close())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Recorded %d captures and %d IMU samples to %s\n", n.captures, n.samples, path)
	return nil
}

type recorded struct {
	captures, samples int
}

func record(ctx context.Context, e *env, dev *k4a.Device, r *k4arecord.Recording, imu bool) (recorded, error) {
	var n recorded

	if err := r.AddTag("K4A_TOOL", "k4a"); err != nil {
		return n, err
	}
	if imu {
		if err := r.AddIMUTrack(); err != nil {
			return n, err
		}
	}
	if err := r.WriteHeader(); err != nil {
		return n, err
	}

	if imu {
		if err := dev.StartIMU(); err != nil {
			return n, err
		}
		defer dev.StopIMU()
	}

	pump := &stream.CapturePump{
		Source:      dev,
		Timeout:     e.cfg.CaptureTimeout,
		MaxFailures: e.cfg.MaxFailures,
		Logger:      e.log.With().Str("pump", "capture").Logger(),
	}
	captures := make(chan *k4a.Capture, e.cfg.Buffer)
	samples := make(chan k4a.IMUSample, 64)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pump.Run(gctx, captures) })
	if imu {
		g.Go(func() error { return readIMU(gctx, e, dev, samples) })
	} else {
		close(samples)
	}

	// The recording is written from this goroutine only.
	g.Go(func() error {
		cs, ss := captures, samples
		for cs != nil || ss != nil {
			select {
			case c, ok := <-cs:
				if !ok {
					cs = nil
					continue
				}
				err := r.WriteCapture(c)
				c.Close()
				if err != nil {
					return err
				}
				n.captures++
			case s, ok := <-ss:
				if !ok {
					ss = nil
					continue
				}
				if err := r.WriteIMUSample(s); err != nil {
					return err
				}
				n.samples++
			}
		}
		return nil
	})

	err := g.Wait()
	for c := range captures {
		c.Close()
	}
	return n, err
}

// readIMU forwards IMU samples until ctx is done and closes out.
func readIMU(ctx context.Context, e *env, dev *k4a.Device, out chan<- k4a.IMUSample) error {
	defer close(out)
	for ctx.Err() == nil {
		s, err := dev.GetIMUSample(e.cfg.CaptureTimeout)
		switch {
		case err == nil:
		case errors.Is(err, k4a.ErrTimedOut):
			continue
		default:
			return err
		}
		select {
		case out <- s:
		case <-ctx.Done():
		}
	}
	return nil
}
