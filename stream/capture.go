package stream

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/dialup-inc/kinect/k4a"
)

// DefaultTimeout bounds each blocking read of a pump.
const DefaultTimeout = time.Second

// Source produces captures. *k4a.Device and *k4arecord.Playback satisfy it.
type Source interface {
	GetCapture(timeout time.Duration) (*k4a.Capture, error)
}

// Stats counts what a pump has seen so far.
type Stats struct {
	Captures uint64 `json:"captures"`
	Timeouts uint64 `json:"timeouts"`
	Failures uint64 `json:"failures"`
	Drops    uint64 `json:"drops"`
}

type counters struct {
	captures atomic.Uint64
	timeouts atomic.Uint64
	failures atomic.Uint64
	drops    atomic.Uint64
}

func (c *counters) stats() Stats {
	return Stats{
		Captures: c.captures.Load(),
		Timeouts: c.timeouts.Load(),
		Failures: c.failures.Load(),
		Drops:    c.drops.Load(),
	}
}

// CapturePump reads captures from Source and delivers them to a channel.
//
// Timeouts are counted and the read is retried. Failures are counted and
// retried after RetryDelay until MaxFailures happen in a row; 0 retries
// forever. When the channel is full the capture is released and counted as
// a drop, so a slow consumer never stalls the device. k4a.ErrEOF from a
// playback ends the run without error.
type CapturePump struct {
	Source      Source
	Timeout     time.Duration
	MaxFailures int
	RetryDelay  time.Duration
	Logger      zerolog.Logger
	Metrics     *Metrics

	n counters
}

// Stats returns the pump's counters. It is safe to call while Run is
// running.
func (p *CapturePump) Stats() Stats { return p.n.stats() }

func (p *CapturePump) timeout() time.Duration {
	if p.Timeout == 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

// Run reads until ctx is done, the source ends or fails too often. It runs
// on the caller's goroutine and closes out when it returns. Each capture
// sent on out belongs to the receiver, which must Close it.
//
// A read blocked in the native layer is not interrupted by ctx; use a
// finite Timeout or stop the device to bound how long Run takes to notice.
func (p *CapturePump) Run(ctx context.Context, out chan<- *k4a.Capture) error {
	defer close(out)

	var failures int
	for ctx.Err() == nil {
		c, err := p.Source.GetCapture(p.timeout())
		switch {
		case err == nil:
		case errors.Is(err, k4a.ErrTimedOut):
			p.n.timeouts.Inc()
			p.Metrics.timeout("get_capture")
			p.Logger.Debug().Err(err).Msg("capture timed out")
			continue
		case errors.Is(err, k4a.ErrEOF):
			p.Logger.Info().Msg("end of recording")
			return nil
		default:
			failures++
			p.n.failures.Inc()
			p.Metrics.failure("get_capture")
			if p.MaxFailures > 0 && failures >= p.MaxFailures {
				return errors.Wrapf(err, "%d failed reads in a row", failures)
			}
			p.Logger.Warn().Err(err).Int("failures", failures).Msg("capture failed")
			if !sleep(ctx, p.RetryDelay) {
				return nil
			}
			continue
		}
		failures = 0
		p.n.captures.Inc()
		p.Metrics.capture()

		select {
		case out <- c:
		default:
			c.Close()
			p.n.drops.Inc()
			p.Metrics.drop()
			p.Logger.Debug().Msg("consumer busy, capture dropped")
		}
	}
	return nil
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
