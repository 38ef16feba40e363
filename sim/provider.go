// Package sim is an in-memory stand-in for the vendor libraries. It fills
// the k4a, k4abt and k4arecord function tables with Go implementations that
// follow the native ownership rules: captures, images, frames and data
// blocks are reference counted, blocking calls honor their timeouts, and
// every call is counted so tests can check what the wrappers did.
//
// Recordings are kept in memory and disappear with the Provider.
package sim

import (
	"sync"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
	"github.com/dialup-inc/kinect/k4arecord"
)

// DeviceSpec describes one simulated device.
type DeviceSpec struct {
	Serial         string
	RawCalibration []byte
	Version        k4a.HardwareVersion
	SyncIn         bool
	SyncOut        bool
	// Unavailable devices are counted as installed but fail to open.
	Unavailable bool
}

// DefaultDevice returns the spec used when no devices are configured.
func DefaultDevice() DeviceSpec {
	return DeviceSpec{
		Serial:         "000123192912",
		RawCalibration: []byte(`{"CalibrationInformation":{"Cameras":[],"InertialSensors":[]}}`),
		Version: k4a.HardwareVersion{
			RGB:         k4a.Version{Major: 1, Minor: 6, Iteration: 110},
			Depth:       k4a.Version{Major: 1, Minor: 6, Iteration: 79},
			Audio:       k4a.Version{Major: 1, Minor: 6, Iteration: 14},
			DepthSensor: k4a.Version{Major: 6109, Minor: 7},
		},
	}
}

// Option configures a Provider.
type Option func(*Provider)

// WithDevices replaces the default single device.
func WithDevices(specs ...DeviceSpec) Option {
	return func(p *Provider) {
		p.devices = p.devices[:0]
		for i, s := range specs {
			p.devices = append(p.devices, newDeviceState(uint32(i), s))
		}
	}
}

// WithBodies sets how many bodies the tracker finds in each capture.
func WithBodies(n int) Option {
	return func(p *Provider) { p.bodies = n }
}

// WithStreaming makes devices produce captures and IMU samples on their own
// at the configured frame rate while the cameras run. Without it captures
// only appear through QueueCapture.
func WithStreaming() Option {
	return func(p *Provider) { p.streaming = true }
}

// Provider holds all simulated native state.
type Provider struct {
	mu   sync.Mutex
	next uintptr

	objects    map[uintptr]*object
	devices    []*deviceState
	open       map[uintptr]*deviceState
	trackers   map[uintptr]*tracker
	frames     map[uintptr]*frame
	files      map[string]*file
	recordings map[uintptr]*recording
	playbacks  map[uintptr]*playback
	blocks     map[uintptr]*block

	calls map[string]int
	fail  map[string]int

	bodies    int
	streaming bool

	debugCallback uintptr
	debugContext  uintptr
	debugLevel    k4a.LogLevel

	core *k4a.API
	bt   *k4abt.API
	rec  *k4arecord.API
}

// New returns a Provider with one device unless options say otherwise.
func New(opts ...Option) *Provider {
	p := &Provider{
		next:       0x1000,
		objects:    make(map[uintptr]*object),
		devices:    []*deviceState{newDeviceState(0, DefaultDevice())},
		open:       make(map[uintptr]*deviceState),
		trackers:   make(map[uintptr]*tracker),
		frames:     make(map[uintptr]*frame),
		files:      make(map[string]*file),
		recordings: make(map[uintptr]*recording),
		playbacks:  make(map[uintptr]*playback),
		blocks:     make(map[uintptr]*block),
		calls:      make(map[string]int),
		fail:       make(map[string]int),
		bodies:     1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.core = k4a.NewAPI(p.coreFunctions())
	p.bt = k4abt.NewAPI(p.trackingFunctions(), p.core)
	p.rec = k4arecord.NewAPI(p.recordFunctions(), p.core)
	return p
}

// K4A returns the core API backed by p.
func (p *Provider) K4A() *k4a.API { return p.core }

// Tracking returns the body tracking API backed by p.
func (p *Provider) Tracking() *k4abt.API { return p.bt }

// Record returns the recording API backed by p.
func (p *Provider) Record() *k4arecord.API { return p.rec }

// Calls returns how many times the named native function was called.
func (p *Provider) Calls(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[symbol]
}

// Fail makes the next n calls of the named native function report failure.
func (p *Provider) Fail(symbol string, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail[symbol] += n
}

// Refs returns the reference count of a capture, image or body frame
// handle, 0 once it has been freed.
func (p *Provider) Refs(h uintptr) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if o, ok := p.objects[h]; ok {
		return o.refs
	}
	if f, ok := p.frames[h]; ok {
		return f.refs
	}
	return 0
}

// Live returns the number of reference counted objects not yet freed.
func (p *Provider) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.objects) + len(p.frames) + len(p.blocks)
}

// DebugHandler returns what was last passed to k4a_set_debug_message_handler.
func (p *Provider) DebugHandler() (callback, context uintptr, level k4a.LogLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.debugCallback, p.debugContext, p.debugLevel
}

// call counts a call and reports whether it should fail.
func (p *Provider) call(symbol string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[symbol]++
	if p.fail[symbol] > 0 {
		p.fail[symbol]--
		return true
	}
	return false
}

func (p *Provider) newHandleLocked() uintptr {
	p.next += 0x10
	return p.next
}
