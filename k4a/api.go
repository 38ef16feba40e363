package k4a

import (
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/dialup-inc/kinect/native"
)

// EnvPath names the environment variable consulted for the k4a library
// location. It may name the library file or the directory holding it.
const EnvPath = "K4A_SDK_PATH"

// WaitInfinite blocks until a result is available.
const WaitInfinite time.Duration = -1

// API is a loaded k4a library. It is read-only and safe for concurrent use;
// every wrapper it hands out keeps a pointer to it.
type API struct {
	fn *Functions

	debugMu sync.Mutex
	debugID uintptr
}

// NewAPI wraps a bound function table. Load is the usual way to get one;
// NewAPI exists for alternative providers such as a simulator.
func NewAPI(fn *Functions) *API {
	return &API{fn: fn}
}

// Load binds the k4a library. The library and its table are resolved once
// per process; later calls return an API over the same table.
func Load(opts ...native.Option) (*API, error) {
	lib, err := native.Locate(EnvPath, "k4a", []string{"1.4"}, opts...)
	if err != nil {
		return nil, err
	}
	fn, err := native.Table[Functions](lib)
	if err != nil {
		return nil, err
	}
	return NewAPI(fn), nil
}

// Functions returns the raw function table.
func (a *API) Functions() *Functions { return a.fn }

// InstalledCount returns the number of devices connected to the host.
func (a *API) InstalledCount() uint32 {
	return a.fn.DeviceGetInstalledCount()
}

// OpenDevice opens the device at index. Devices are exclusive: a second open
// of the same index fails until the first is closed.
func (a *API) OpenDevice(index uint32) (*Device, error) {
	var h DeviceHandle
	if err := a.fn.DeviceOpen(index, &h).Err("k4a_device_open"); err != nil {
		return nil, errors.Wrapf(err, "device %d", index)
	}
	return &Device{api: a, h: native.NewHandle(uintptr(h))}, nil
}

// NewCapture creates an empty capture.
func (a *API) NewCapture() (*Capture, error) {
	var h CaptureHandle
	if err := a.fn.CaptureCreate(&h).Err("k4a_capture_create"); err != nil {
		return nil, err
	}
	return a.WrapCapture(h), nil
}

// NewImage allocates an image. A stride of 0 is only valid for formats the
// native layer can infer it for.
func (a *API) NewImage(format ImageFormat, width, height, stride int) (*Image, error) {
	var h ImageHandle
	err := a.fn.ImageCreate(format, int32(width), int32(height), int32(stride), &h).Err("k4a_image_create")
	if err != nil {
		return nil, err
	}
	return a.WrapImage(h), nil
}

// NewImageFromBytes allocates an image and copies data into it. data must
// fill the image exactly.
func (a *API) NewImageFromBytes(format ImageFormat, width, height, stride int, data []byte) (*Image, error) {
	img, err := a.NewImage(format, width, height, stride)
	if err != nil {
		return nil, err
	}
	buf := img.Buffer()
	if len(buf) != len(data) {
		img.Close()
		return nil, errors.Errorf("k4a: image needs %d bytes, got %d", len(buf), len(data))
	}
	copy(buf, data)
	return img, nil
}

// CalibrationFromRaw parses a raw calibration blob for the given modes.
func (a *API) CalibrationFromRaw(raw []byte, depth DepthMode, color ColorResolution) (Calibration, error) {
	var cal Calibration
	if len(raw) == 0 {
		return cal, errors.Wrap(ErrFailed, "k4a_calibration_get_from_raw: empty blob")
	}
	err := a.fn.CalibrationGetFromRaw(&raw[0], uintptr(len(raw)), depth, color, &cal).Err("k4a_calibration_get_from_raw")
	return cal, err
}

// WrapCapture takes ownership of one reference to h. It is meant for
// handles produced by companion libraries, such as a body tracking frame's
// capture. A zero handle yields nil.
func (a *API) WrapCapture(h CaptureHandle) *Capture {
	if h == 0 {
		return nil
	}
	return &Capture{api: a, h: native.NewHandle(uintptr(h))}
}

// WrapImage takes ownership of one reference to h. A zero handle yields nil.
func (a *API) WrapImage(h ImageHandle) *Image {
	if h == 0 {
		return nil
	}
	return &Image{api: a, h: native.NewHandle(uintptr(h))}
}

// TimeoutMillis converts d to the native millisecond timeout. Negative
// durations mean wait forever.
func TimeoutMillis(d time.Duration) int32 {
	if d < 0 {
		return -1
	}
	ms := d / time.Millisecond
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(ms)
}
