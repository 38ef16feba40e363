package sim

import (
	"sync"
	"time"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
)

const trackerQueueSize = 3

type tracker struct {
	results   chan uintptr
	done      chan struct{}
	closeOnce sync.Once
	smoothing float32
	seq       uint64
}

func (t *tracker) shutdown() {
	t.closeOnce.Do(func() { close(t.done) })
}

type frame struct {
	refs     int
	capture  uintptr
	indexMap uintptr
	bodies   []k4abt.Body
	deviceTS uint64
	systemTS uint64
}

// Smoothing returns the temporal smoothing set on a tracker handle.
func (p *Provider) Smoothing(h k4abt.TrackerHandle) float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.trackers[uintptr(h)]; ok {
		return t.smoothing
	}
	return 0
}

func (p *Provider) releaseFrameLocked(h uintptr) {
	f, ok := p.frames[h]
	if !ok {
		return
	}
	f.refs--
	if f.refs > 0 {
		return
	}
	delete(p.frames, h)
	p.releaseLocked(f.capture)
	if f.indexMap != 0 {
		p.releaseLocked(f.indexMap)
	}
}

// newFrameLocked computes a frame for capture c, taking a reference to it.
func (p *Provider) newFrameLocked(t *tracker, c uintptr) uintptr {
	capture := p.objects[c]
	depth := p.objects[capture.images[slotDepth]]

	f := &frame{
		refs:     1,
		capture:  c,
		bodies:   syntheticBodies(p.bodies, t.seq),
		deviceTS: depth.deviceTS,
		systemTS: depth.systemTS,
	}
	t.seq++
	p.refLocked(c)

	if m, ok := p.newImageLocked(k4a.ImageFormatCustom8, depth.width, depth.height, depth.width); ok {
		o := p.objects[m]
		o.deviceTS, o.systemTS = f.deviceTS, f.systemTS
		band := max(int(depth.width)/max(len(f.bodies), 1), 1)
		for y := 0; y < int(depth.height); y++ {
			for x := 0; x < int(depth.width); x++ {
				v := byte(k4abt.BodyIndexMapBackground)
				// each body covers the middle half of its band
				if i := x / band; i < len(f.bodies) && x%band >= band/4 && x%band < band*3/4 && y > int(depth.height)/8 {
					v = byte(i)
				}
				o.buf[y*int(o.stride)+x] = v
			}
		}
		f.indexMap = m
	}

	h := p.newHandleLocked()
	p.frames[h] = f
	return h
}

func (p *Provider) trackingFunctions() *k4abt.Functions {
	return &k4abt.Functions{
		TrackerCreate: func(cal *k4a.Calibration, cfg k4abt.RawTrackerConfiguration, out *k4abt.TrackerHandle) k4a.Result {
			if p.call("k4abt_tracker_create") || cal == nil {
				return k4a.ResultFailed
			}
			if cal.DepthMode == k4a.DepthModeOff || cal.DepthMode == k4a.DepthModePassiveIR {
				return k4a.ResultFailed
			}
			if cfg.ProcessingMode > k4abt.ProcessingModeGPUDirectML {
				return k4a.ResultFailed
			}
			p.mu.Lock()
			defer p.mu.Unlock()
			h := p.newHandleLocked()
			p.trackers[h] = &tracker{
				results:   make(chan uintptr, trackerQueueSize),
				done:      make(chan struct{}),
				smoothing: k4abt.DefaultSmoothingFactor,
			}
			*out = k4abt.TrackerHandle(h)
			return k4a.ResultSucceeded
		},
		TrackerDestroy: func(h k4abt.TrackerHandle) {
			p.call("k4abt_tracker_destroy")
			p.mu.Lock()
			defer p.mu.Unlock()
			t, ok := p.trackers[uintptr(h)]
			if !ok {
				return
			}
			t.shutdown()
			for len(t.results) > 0 {
				p.releaseFrameLocked(<-t.results)
			}
			delete(p.trackers, uintptr(h))
		},
		TrackerSetTemporalSmoothing: func(h k4abt.TrackerHandle, factor float32) {
			p.call("k4abt_tracker_set_temporal_smoothing")
			p.mu.Lock()
			defer p.mu.Unlock()
			if t, ok := p.trackers[uintptr(h)]; ok {
				t.smoothing = factor
			}
		},
		TrackerShutdown: func(h k4abt.TrackerHandle) {
			p.call("k4abt_tracker_shutdown")
			p.mu.Lock()
			defer p.mu.Unlock()
			if t, ok := p.trackers[uintptr(h)]; ok {
				t.shutdown()
			}
		},
		TrackerEnqueueCapture: p.trackerEnqueueCapture,
		TrackerPopResult:      p.trackerPopResult,

		FrameRelease: func(h k4abt.FrameHandle) {
			p.call("k4abt_frame_release")
			p.mu.Lock()
			defer p.mu.Unlock()
			p.releaseFrameLocked(uintptr(h))
		},
		FrameReference: func(h k4abt.FrameHandle) {
			p.call("k4abt_frame_reference")
			p.mu.Lock()
			defer p.mu.Unlock()
			if f, ok := p.frames[uintptr(h)]; ok {
				f.refs++
			}
		},
		FrameGetNumBodies: func(h k4abt.FrameHandle) uint32 {
			return frameValue(p, "k4abt_frame_get_num_bodies", h, 0, func(f *frame) uint32 { return uint32(len(f.bodies)) })
		},
		FrameGetBodySkeleton: func(h k4abt.FrameHandle, index uint32, out *k4abt.Skeleton) k4a.Result {
			return frameValue(p, "k4abt_frame_get_body_skeleton", h, k4a.ResultFailed, func(f *frame) k4a.Result {
				if int(index) >= len(f.bodies) || out == nil {
					return k4a.ResultFailed
				}
				*out = f.bodies[index].Skeleton
				return k4a.ResultSucceeded
			})
		},
		FrameGetBodyID: func(h k4abt.FrameHandle, index uint32) uint32 {
			return frameValue(p, "k4abt_frame_get_body_id", h, uint32(k4abt.InvalidBodyID), func(f *frame) uint32 {
				if int(index) >= len(f.bodies) {
					return k4abt.InvalidBodyID
				}
				return f.bodies[index].ID
			})
		},
		FrameGetDeviceTimestampUsec: func(h k4abt.FrameHandle) uint64 {
			return frameValue(p, "k4abt_frame_get_device_timestamp_usec", h, 0, func(f *frame) uint64 { return f.deviceTS })
		},
		FrameGetSystemTimestampNsec: func(h k4abt.FrameHandle) uint64 {
			return frameValue(p, "k4abt_frame_get_system_timestamp_nsec", h, 0, func(f *frame) uint64 { return f.systemTS })
		},
		FrameGetBodyIndexMap: func(h k4abt.FrameHandle) k4a.ImageHandle {
			return frameValue(p, "k4abt_frame_get_body_index_map", h, 0, func(f *frame) k4a.ImageHandle {
				if f.indexMap != 0 {
					p.refLocked(f.indexMap)
				}
				return k4a.ImageHandle(f.indexMap)
			})
		},
		FrameGetCapture: func(h k4abt.FrameHandle) k4a.CaptureHandle {
			return frameValue(p, "k4abt_frame_get_capture", h, 0, func(f *frame) k4a.CaptureHandle {
				p.refLocked(f.capture)
				return k4a.CaptureHandle(f.capture)
			})
		},
	}
}

// frameValue reads from a frame under the provider lock.
func frameValue[T any](p *Provider, symbol string, h k4abt.FrameHandle, def T, get func(*frame) T) T {
	p.call(symbol)
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.frames[uintptr(h)]; ok {
		return get(f)
	}
	return def
}

func (p *Provider) trackerEnqueueCapture(h k4abt.TrackerHandle, c k4a.CaptureHandle, timeoutMS int32) k4a.WaitResult {
	if p.call("k4abt_tracker_enqueue_capture") {
		return k4a.WaitResultFailed
	}
	p.mu.Lock()
	t, ok := p.trackers[uintptr(h)]
	capture := p.objectLocked(uintptr(c), kindCapture)
	if !ok || capture == nil || capture.images[slotDepth] == 0 {
		p.mu.Unlock()
		return k4a.WaitResultFailed
	}
	select {
	case <-t.done:
		p.mu.Unlock()
		return k4a.WaitResultFailed
	default:
	}
	f := p.newFrameLocked(t, uintptr(c))
	p.mu.Unlock()

	sent, timedOut := send(t.results, f, t.done, timeoutMS)
	if !sent {
		p.mu.Lock()
		p.releaseFrameLocked(f)
		p.mu.Unlock()
	}
	return waitResult(sent, timedOut)
}

func send(q chan<- uintptr, v uintptr, stop <-chan struct{}, timeoutMS int32) (ok, timedOut bool) {
	select {
	case q <- v:
		return true, false
	default:
	}
	if timeoutMS == 0 {
		return false, true
	}
	var timer <-chan time.Time
	if timeoutMS > 0 {
		t := time.NewTimer(time.Duration(timeoutMS) * time.Millisecond)
		defer t.Stop()
		timer = t.C
	}
	select {
	case q <- v:
		return true, false
	case <-stop:
		return false, false
	case <-timer:
		return false, true
	}
}

func (p *Provider) trackerPopResult(h k4abt.TrackerHandle, out *k4abt.FrameHandle, timeoutMS int32) k4a.WaitResult {
	if p.call("k4abt_tracker_pop_result") {
		return k4a.WaitResultFailed
	}
	p.mu.Lock()
	t, ok := p.trackers[uintptr(h)]
	p.mu.Unlock()
	if !ok {
		return k4a.WaitResultFailed
	}

	select {
	case f := <-t.results:
		*out = k4abt.FrameHandle(f)
		return k4a.WaitResultSucceeded
	default:
	}
	select {
	case <-t.done:
		return k4a.WaitResultFailed
	default:
	}

	f, got, timedOut := wait(t.results, t.done, timeoutMS)
	if !got && !timedOut {
		// shut down: hand out what is still queued
		select {
		case f = <-t.results:
			got = true
		default:
		}
	}
	if got {
		*out = k4abt.FrameHandle(f)
	}
	return waitResult(got, timedOut)
}
