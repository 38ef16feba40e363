package k4arecord

import (
	"github.com/pkg/errors"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/native"
)

// EnvPath names the environment variable consulted for the k4arecord
// library.
const EnvPath = "K4ARECORD_SDK_PATH"

// API is a loaded recording library bound to the core library.
type API struct {
	fn   *Functions
	core *k4a.API
}

func NewAPI(fn *Functions, core *k4a.API) *API {
	return &API{fn: fn, core: core}
}

// Load binds the recording library.
func Load(core *k4a.API, opts ...native.Option) (*API, error) {
	lib, err := native.Locate(EnvPath, "k4arecord", []string{"1.4"}, opts...)
	if err != nil {
		return nil, err
	}
	fn, err := native.Table[Functions](lib)
	if err != nil {
		return nil, err
	}
	return NewAPI(fn, core), nil
}

// Create opens a new recording file. dev supplies the calibration written
// to the file and may be nil.
func (a *API) Create(path string, dev *k4a.Device, cfg k4a.DeviceConfiguration) (*Recording, error) {
	var dh k4a.DeviceHandle
	if dev != nil {
		dh = dev.Handle()
	}
	var h RecordingHandle
	if err := a.fn.RecordCreate(path, dh, cfg, &h).Err("k4a_record_create"); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &Recording{api: a, h: native.NewHandle(uintptr(h))}, nil
}

// Open opens a recording for playback.
func (a *API) Open(path string) (*Playback, error) {
	var h PlaybackHandle
	if err := a.fn.PlaybackOpen(path, &h).Err("k4a_playback_open"); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &Playback{api: a, h: native.NewHandle(uintptr(h))}, nil
}

func bytePtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
