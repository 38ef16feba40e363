package k4abt

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/native"
)

// EnvPath names the environment variable consulted for the k4abt library.
const EnvPath = "K4ABT_SDK_PATH"

// API is a loaded body tracking library bound to the core library whose
// captures and images it exchanges.
type API struct {
	fn   *Functions
	core *k4a.API
}

func NewAPI(fn *Functions, core *k4a.API) *API {
	return &API{fn: fn, core: core}
}

// Load binds the body tracking library.
func Load(core *k4a.API, opts ...native.Option) (*API, error) {
	lib, err := native.Locate(EnvPath, "k4abt", []string{"1"}, opts...)
	if err != nil {
		return nil, err
	}
	fn, err := native.Table[Functions](lib)
	if err != nil {
		return nil, err
	}
	return NewAPI(fn, core), nil
}

// Core returns the core library captures and images belong to.
func (a *API) Core() *k4a.API { return a.core }

// NewTracker creates a tracker for a sensor calibration.
func (a *API) NewTracker(cal k4a.Calibration, cfg TrackerConfiguration) (*Tracker, error) {
	raw := RawTrackerConfiguration{
		SensorOrientation: cfg.SensorOrientation,
		ProcessingMode:    cfg.ProcessingMode,
		GPUDeviceID:       cfg.GPUDeviceID,
	}
	var path []byte
	if cfg.ModelPath != "" {
		path = append([]byte(cfg.ModelPath), 0)
		raw.ModelPath = &path[0]
	}

	var h TrackerHandle
	res := a.fn.TrackerCreate(&cal, raw, &h)
	runtime.KeepAlive(path)
	if err := res.Err("k4abt_tracker_create"); err != nil {
		return nil, errors.Wrapf(err, "processing mode %v", cfg.ProcessingMode)
	}
	return &Tracker{api: a, h: native.NewHandle(uintptr(h))}, nil
}
