package k4abt

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/native"
)

// Frame is one body tracking result. Bodies read from it are copies and
// stay valid after Close.
type Frame struct {
	api *API
	h   *native.Handle
}

func (a *API) wrapFrame(h FrameHandle) *Frame {
	if h == 0 {
		return nil
	}
	return &Frame{api: a, h: native.NewHandle(uintptr(h))}
}

func (f *Frame) Handle() FrameHandle { return FrameHandle(f.h.Load()) }

// Close releases this reference. Calling it again does nothing.
func (f *Frame) Close() error {
	if h := FrameHandle(f.h.Take()); h != 0 {
		f.api.fn.FrameRelease(h)
	}
	return nil
}

// Clone returns a second owner of the same frame.
func (f *Frame) Clone() *Frame {
	h := f.Handle()
	if h == 0 {
		return nil
	}
	f.api.fn.FrameReference(h)
	return f.api.wrapFrame(h)
}

func (f *Frame) NumBodies() int { return int(f.api.fn.FrameGetNumBodies(f.Handle())) }

// BodyID returns the id of the body at index, InvalidBodyID if out of range.
func (f *Frame) BodyID(index int) uint32 {
	return f.api.fn.FrameGetBodyID(f.Handle(), uint32(index))
}

// Skeleton copies out the skeleton of the body at index.
func (f *Frame) Skeleton(index int) (Skeleton, error) {
	var s Skeleton
	if err := f.api.fn.FrameGetBodySkeleton(f.Handle(), uint32(index), &s).Err("k4abt_frame_get_body_skeleton"); err != nil {
		return s, errors.Wrapf(err, "body %d", index)
	}
	return s, nil
}

// Body copies out the body at index.
func (f *Frame) Body(index int) (Body, error) {
	s, err := f.Skeleton(index)
	if err != nil {
		return Body{}, err
	}
	return Body{ID: f.BodyID(index), Skeleton: s}, nil
}

// Bodies copies out every body in the frame.
func (f *Frame) Bodies() ([]Body, error) {
	n := f.NumBodies()
	bodies := make([]Body, 0, n)
	for i := 0; i < n; i++ {
		b, err := f.Body(i)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// DeviceTimestamp is the device time of the capture the frame came from.
func (f *Frame) DeviceTimestamp() time.Duration {
	return time.Duration(f.api.fn.FrameGetDeviceTimestampUsec(f.Handle())) * time.Microsecond
}

// SystemTimestamp is the host time of the capture, 0 when the library does
// not report it.
func (f *Frame) SystemTimestamp() time.Duration {
	if f.api.fn.FrameGetSystemTimestampNsec == nil {
		return 0
	}
	return time.Duration(f.api.fn.FrameGetSystemTimestampNsec(f.Handle()))
}

// BodyIndexMap returns an 8 bit image the size of the depth image in which
// each pixel holds the index of the body it belongs to or
// BodyIndexMapBackground. The caller must Close it.
func (f *Frame) BodyIndexMap() *k4a.Image {
	return f.api.core.WrapImage(f.api.fn.FrameGetBodyIndexMap(f.Handle()))
}

// Capture returns the capture the frame was computed from. The caller must
// Close it.
func (f *Frame) Capture() *k4a.Capture {
	return f.api.core.WrapCapture(f.api.fn.FrameGetCapture(f.Handle()))
}
