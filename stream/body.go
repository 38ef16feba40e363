package stream

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
)

// Tracker is the part of *k4abt.Tracker a BodyPump uses.
type Tracker interface {
	EnqueueCapture(c *k4a.Capture, timeout time.Duration) error
	PopResult(timeout time.Duration) (*k4abt.Frame, error)
}

// BodyFrame is a body tracking result copied out of native memory.
type BodyFrame struct {
	Seq             uint64        `json:"seq"`
	DeviceTimestamp time.Duration `json:"device_timestamp"`
	SystemTimestamp time.Duration `json:"system_timestamp"`
	Bodies          []k4abt.Body  `json:"bodies"`
}

// BodyPump enqueues every capture it receives and emits the tracker's
// results in order. Captures that find the tracker's input queue full for
// longer than Timeout are dropped; results not ready within Timeout are
// picked up on a later round.
type BodyPump struct {
	Tracker Tracker
	Timeout time.Duration
	Logger  zerolog.Logger
	Metrics *Metrics

	n   counters
	seq uint64
}

// Stats returns the pump's counters: Captures counts frames popped.
func (p *BodyPump) Stats() Stats { return p.n.stats() }

func (p *BodyPump) timeout() time.Duration {
	if p.Timeout == 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

// Run consumes captures from in until it is closed or ctx is done, then
// drains the tracker and closes out. Every capture received is closed.
// It returns the first tracker failure.
func (p *BodyPump) Run(ctx context.Context, in <-chan *k4a.Capture, out chan<- BodyFrame) error {
	defer close(out)
	for {
		var c *k4a.Capture
		var ok bool
		select {
		case c, ok = <-in:
		case <-ctx.Done():
			return nil
		}
		if !ok {
			return p.drain(ctx, out)
		}

		err := p.Tracker.EnqueueCapture(c, p.timeout())
		c.Close()
		switch {
		case err == nil:
		case errors.Is(err, k4a.ErrTimedOut):
			p.n.drops.Inc()
			p.Metrics.drop()
			p.Logger.Debug().Msg("tracker queue full, capture dropped")
			continue
		default:
			p.n.failures.Inc()
			p.Metrics.failure("enqueue_capture")
			return err
		}

		if err := p.pop(ctx, p.timeout(), out); err != nil && !errors.Is(err, k4a.ErrTimedOut) {
			return err
		}
	}
}

// drain pops what the tracker still holds.
func (p *BodyPump) drain(ctx context.Context, out chan<- BodyFrame) error {
	for ctx.Err() == nil {
		err := p.pop(ctx, p.timeout(), out)
		if errors.Is(err, k4a.ErrTimedOut) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *BodyPump) pop(ctx context.Context, timeout time.Duration, out chan<- BodyFrame) error {
	frame, err := p.Tracker.PopResult(timeout)
	switch {
	case err == nil:
	case errors.Is(err, k4a.ErrTimedOut):
		p.n.timeouts.Inc()
		p.Metrics.timeout("pop_result")
		return err
	default:
		p.n.failures.Inc()
		p.Metrics.failure("pop_result")
		return err
	}

	bf, err := Copy(frame)
	frame.Close()
	if err != nil {
		return err
	}
	p.seq++
	bf.Seq = p.seq
	p.n.captures.Inc()
	p.Metrics.frame(len(bf.Bodies))

	select {
	case out <- bf:
	case <-ctx.Done():
	}
	return nil
}

// Copy reads everything out of a frame. The frame stays open.
func Copy(f *k4abt.Frame) (BodyFrame, error) {
	bodies, err := f.Bodies()
	if err != nil {
		return BodyFrame{}, err
	}
	return BodyFrame{
		DeviceTimestamp: f.DeviceTimestamp(),
		SystemTimestamp: f.SystemTimestamp(),
		Bodies:          bodies,
	}, nil
}
