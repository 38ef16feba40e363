package k4abt

import (
	"time"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/native"
)

// Tracker turns captures into body frames. Captures go in with
// EnqueueCapture and results come out, in order, from PopResult. A Tracker
// is not safe for concurrent use except for Shutdown, which unblocks
// pending calls from another goroutine.
type Tracker struct {
	api *API
	h   *native.Handle
}

func (t *Tracker) Handle() TrackerHandle { return TrackerHandle(t.h.Load()) }

// EnqueueCapture queues a capture for processing, waiting up to timeout for
// room in the input queue. The tracker takes its own reference; the caller
// still owns c.
func (t *Tracker) EnqueueCapture(c *k4a.Capture, timeout time.Duration) error {
	return t.api.fn.TrackerEnqueueCapture(t.Handle(), c.Handle(), k4a.TimeoutMillis(timeout)).
		Err("k4abt_tracker_enqueue_capture")
}

// PopResult waits up to timeout for the next body frame.
func (t *Tracker) PopResult(timeout time.Duration) (*Frame, error) {
	var h FrameHandle
	if err := t.api.fn.TrackerPopResult(t.Handle(), &h, k4a.TimeoutMillis(timeout)).Err("k4abt_tracker_pop_result"); err != nil {
		return nil, err
	}
	return t.api.wrapFrame(h), nil
}

// SetTemporalSmoothing sets joint smoothing across frames, from 0 (none) to
// 1 (full).
func (t *Tracker) SetTemporalSmoothing(factor float32) {
	t.api.fn.TrackerSetTemporalSmoothing(t.Handle(), factor)
}

// Shutdown stops the tracker. Pending and later enqueue and pop calls
// return once the queued results are drained.
func (t *Tracker) Shutdown() {
	if h := t.Handle(); h != 0 {
		t.api.fn.TrackerShutdown(h)
	}
}

// Close shuts the tracker down and destroys it. Calling it again does
// nothing.
func (t *Tracker) Close() error {
	if h := TrackerHandle(t.h.Take()); h != 0 {
		t.api.fn.TrackerShutdown(h)
		t.api.fn.TrackerDestroy(h)
	}
	return nil
}
