package k4a

import (
	"time"
	"unsafe"

	"github.com/dialup-inc/kinect/native"
)

// Image is one reference to a native image buffer. Like Capture it is
// reference counted, and Clone and Close add and drop references.
type Image struct {
	api *API
	h   *native.Handle
}

// Handle returns the native handle, or 0 after Close.
func (i *Image) Handle() ImageHandle { return ImageHandle(i.h.Load()) }

func (i *Image) handleOrZero() ImageHandle {
	if i == nil {
		return 0
	}
	return i.Handle()
}

// Close releases this reference. Calling it again does nothing.
func (i *Image) Close() error {
	if h := ImageHandle(i.h.Take()); h != 0 {
		i.api.fn.ImageRelease(h)
	}
	return nil
}

// Clone returns a second owner of the same image.
func (i *Image) Clone() *Image {
	h := i.Handle()
	if h == 0 {
		return nil
	}
	i.api.fn.ImageReference(h)
	return i.api.WrapImage(h)
}

// Buffer returns the image memory without copying. The slice is valid only
// until the last reference to the image is closed.
func (i *Image) Buffer() []byte {
	h := i.Handle()
	if h == 0 {
		return nil
	}
	p := i.api.fn.ImageGetBuffer(h)
	size := i.api.fn.ImageGetSize(h)
	if p == nil || size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), size)
}

// Size returns the buffer size in bytes.
func (i *Image) Size() int { return int(i.api.fn.ImageGetSize(i.Handle())) }

func (i *Image) Format() ImageFormat { return i.api.fn.ImageGetFormat(i.Handle()) }

func (i *Image) Width() int { return int(i.api.fn.ImageGetWidthPixels(i.Handle())) }

func (i *Image) Height() int { return int(i.api.fn.ImageGetHeightPixels(i.Handle())) }

// Stride returns the length of a row in bytes, 0 for compressed formats.
func (i *Image) Stride() int { return int(i.api.fn.ImageGetStrideBytes(i.Handle())) }

// DeviceTimestamp is the device clock time of the middle of the exposure.
func (i *Image) DeviceTimestamp() time.Duration {
	return time.Duration(i.api.fn.ImageGetDeviceTimestampUsec(i.Handle())) * time.Microsecond
}

// SystemTimestamp is the host clock time the image was read.
func (i *Image) SystemTimestamp() time.Duration {
	return time.Duration(i.api.fn.ImageGetSystemTimestampNsec(i.Handle()))
}

func (i *Image) Exposure() time.Duration {
	return time.Duration(i.api.fn.ImageGetExposureUsec(i.Handle())) * time.Microsecond
}

// WhiteBalance is in kelvin, 0 for non-color images.
func (i *Image) WhiteBalance() uint32 { return i.api.fn.ImageGetWhiteBalance(i.Handle()) }

func (i *Image) ISOSpeed() uint32 { return i.api.fn.ImageGetISOSpeed(i.Handle()) }

func (i *Image) SetDeviceTimestamp(d time.Duration) {
	i.api.fn.ImageSetDeviceTimestampUsec(i.Handle(), uint64(d/time.Microsecond))
}

func (i *Image) SetSystemTimestamp(d time.Duration) {
	i.api.fn.ImageSetSystemTimestampNsec(i.Handle(), uint64(d))
}

func (i *Image) SetExposure(d time.Duration) {
	i.api.fn.ImageSetExposureUsec(i.Handle(), uint64(d/time.Microsecond))
}

func (i *Image) SetWhiteBalance(kelvin uint32) { i.api.fn.ImageSetWhiteBalance(i.Handle(), kelvin) }

func (i *Image) SetISOSpeed(iso uint32) { i.api.fn.ImageSetISOSpeed(i.Handle(), iso) }
