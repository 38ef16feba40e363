package sim

import (
	"time"

	"github.com/dialup-inc/kinect/k4a"
)

const (
	captureQueueSize = 8
	imuQueueSize     = 64
)

type colorControl struct {
	mode  k4a.ColorControlMode
	value int32
}

type deviceState struct {
	index  uint32
	spec   DeviceSpec
	handle uintptr

	cameras bool
	imu     bool
	config  k4a.DeviceConfiguration
	seq     uint64

	captures chan uintptr
	samples  chan k4a.IMUSample
	stop     chan struct{}

	controls map[k4a.ColorControlCommand]colorControl
}

func newDeviceState(index uint32, spec DeviceSpec) *deviceState {
	return &deviceState{index: index, spec: spec}
}

var colorControlCaps = map[k4a.ColorControlCommand]k4a.ColorControlCapabilities{
	k4a.ColorControlExposureTimeAbsolute:  {SupportsAuto: true, Min: 500, Max: 133330, Step: 100, Default: 16670, DefaultMode: k4a.ColorControlModeAuto},
	k4a.ColorControlAutoExposurePriority:  {Min: 0, Max: 1, Step: 1, Default: 0, DefaultMode: k4a.ColorControlModeManual},
	k4a.ColorControlBrightness:            {Min: 0, Max: 255, Step: 1, Default: 128, DefaultMode: k4a.ColorControlModeManual},
	k4a.ColorControlContrast:              {Min: 0, Max: 10, Step: 1, Default: 5, DefaultMode: k4a.ColorControlModeManual},
	k4a.ColorControlSaturation:            {Min: 0, Max: 63, Step: 1, Default: 32, DefaultMode: k4a.ColorControlModeManual},
	k4a.ColorControlSharpness:             {Min: 0, Max: 4, Step: 1, Default: 2, DefaultMode: k4a.ColorControlModeManual},
	k4a.ColorControlWhitebalance:          {SupportsAuto: true, Min: 2500, Max: 12500, Step: 10, Default: 4500, DefaultMode: k4a.ColorControlModeAuto},
	k4a.ColorControlBacklightCompensation: {Min: 0, Max: 1, Step: 1, Default: 0, DefaultMode: k4a.ColorControlModeManual},
	k4a.ColorControlGain:                  {Min: 0, Max: 255, Step: 1, Default: 128, DefaultMode: k4a.ColorControlModeManual},
	k4a.ColorControlPowerlineFrequency:    {Min: 1, Max: 2, Step: 1, Default: 2, DefaultMode: k4a.ColorControlModeManual},
}

func (p *Provider) deviceLocked(h k4a.DeviceHandle) *deviceState {
	return p.open[uintptr(h)]
}

func (p *Provider) deviceOpen(index uint32, out *k4a.DeviceHandle) k4a.Result {
	if p.call("k4a_device_open") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(index) >= len(p.devices) {
		return k4a.ResultFailed
	}
	d := p.devices[index]
	if d.spec.Unavailable || d.handle != 0 {
		return k4a.ResultFailed
	}
	d.handle = p.newHandleLocked()
	d.captures = make(chan uintptr, captureQueueSize)
	d.samples = make(chan k4a.IMUSample, imuQueueSize)
	d.controls = make(map[k4a.ColorControlCommand]colorControl)
	for cmd, c := range colorControlCaps {
		d.controls[cmd] = colorControl{mode: c.DefaultMode, value: c.Default}
	}
	p.open[d.handle] = d
	*out = k4a.DeviceHandle(d.handle)
	return k4a.ResultSucceeded
}

func (p *Provider) deviceClose(h k4a.DeviceHandle) {
	p.call("k4a_device_close")
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil {
		return
	}
	p.stopCamerasLocked(d)
	p.drainLocked(d)
	delete(p.open, d.handle)
	d.handle = 0
}

func (p *Provider) stopCamerasLocked(d *deviceState) {
	if !d.cameras {
		return
	}
	d.cameras = false
	d.imu = false
	close(d.stop)
	p.drainLocked(d)
}

func (p *Provider) drainLocked(d *deviceState) {
	for {
		select {
		case c := <-d.captures:
			p.releaseLocked(c)
		case <-d.samples:
		default:
			return
		}
	}
}

func (p *Provider) deviceStartCameras(h k4a.DeviceHandle, cfg *k4a.DeviceConfiguration) k4a.Result {
	if p.call("k4a_device_start_cameras") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil || d.cameras || cfg == nil {
		return k4a.ResultFailed
	}
	if cfg.ColorResolution == k4a.ColorResolutionOff && cfg.DepthMode == k4a.DepthModeOff {
		return k4a.ResultFailed
	}
	if cfg.CameraFPS == k4a.FPS30 && (cfg.DepthMode == k4a.DepthModeWFOVUnbinned || cfg.ColorResolution == k4a.ColorResolution3072P) {
		return k4a.ResultFailed
	}
	d.cameras = true
	d.config = *cfg
	d.stop = make(chan struct{})
	if p.streaming {
		go p.stream(d, d.stop, d.config)
	}
	return k4a.ResultSucceeded
}

func (p *Provider) deviceStopCameras(h k4a.DeviceHandle) {
	p.call("k4a_device_stop_cameras")
	p.mu.Lock()
	defer p.mu.Unlock()
	if d := p.deviceLocked(h); d != nil {
		p.stopCamerasLocked(d)
	}
}

func (p *Provider) deviceStartIMU(h k4a.DeviceHandle) k4a.Result {
	if p.call("k4a_device_start_imu") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil || !d.cameras || d.imu {
		return k4a.ResultFailed
	}
	d.imu = true
	return k4a.ResultSucceeded
}

func (p *Provider) deviceStopIMU(h k4a.DeviceHandle) {
	p.call("k4a_device_stop_imu")
	p.mu.Lock()
	defer p.mu.Unlock()
	if d := p.deviceLocked(h); d != nil {
		d.imu = false
	}
}

// wait receives from q honoring the native timeout convention. It returns
// false on failure, with timedOut set when the timeout elapsed.
func wait[T any](q <-chan T, stop <-chan struct{}, timeoutMS int32) (v T, ok, timedOut bool) {
	select {
	case v = <-q:
		return v, true, false
	default:
	}
	if timeoutMS == 0 {
		return v, false, true
	}
	var timer <-chan time.Time
	if timeoutMS > 0 {
		t := time.NewTimer(time.Duration(timeoutMS) * time.Millisecond)
		defer t.Stop()
		timer = t.C
	}
	select {
	case v = <-q:
		return v, true, false
	case <-stop:
		return v, false, false
	case <-timer:
		return v, false, true
	}
}

func waitResult(ok, timedOut bool) k4a.WaitResult {
	switch {
	case ok:
		return k4a.WaitResultSucceeded
	case timedOut:
		return k4a.WaitResultTimeout
	default:
		return k4a.WaitResultFailed
	}
}

func (p *Provider) deviceGetCapture(h k4a.DeviceHandle, out *k4a.CaptureHandle, timeoutMS int32) k4a.WaitResult {
	if p.call("k4a_device_get_capture") {
		return k4a.WaitResultFailed
	}
	p.mu.Lock()
	d := p.deviceLocked(h)
	if d == nil || !d.cameras {
		p.mu.Unlock()
		return k4a.WaitResultFailed
	}
	q, stop := d.captures, d.stop
	p.mu.Unlock()

	c, ok, timedOut := wait(q, stop, timeoutMS)
	if ok {
		*out = k4a.CaptureHandle(c)
	}
	return waitResult(ok, timedOut)
}

func (p *Provider) deviceGetIMUSample(h k4a.DeviceHandle, out *k4a.IMUSample, timeoutMS int32) k4a.WaitResult {
	if p.call("k4a_device_get_imu_sample") {
		return k4a.WaitResultFailed
	}
	p.mu.Lock()
	d := p.deviceLocked(h)
	if d == nil || !d.imu {
		p.mu.Unlock()
		return k4a.WaitResultFailed
	}
	q, stop := d.samples, d.stop
	p.mu.Unlock()

	s, ok, timedOut := wait(q, stop, timeoutMS)
	if ok {
		*out = s
	}
	return waitResult(ok, timedOut)
}

// QueueCapture makes a synthetic capture available to GetCapture on the
// device at index. It uses the running configuration, or the default one
// when the cameras are stopped. It returns the capture handle, or 0 if the
// device is not open or its queue is full.
func (p *Provider) QueueCapture(index uint32) uintptr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(index) >= len(p.devices) {
		return 0
	}
	d := p.devices[index]
	if d.handle == 0 {
		return 0
	}
	cfg := d.config
	if !d.cameras {
		cfg = k4a.DefaultDeviceConfiguration
	}
	c := p.syntheticCaptureLocked(cfg, d.seq)
	d.seq++
	select {
	case d.captures <- c:
		return c
	default:
		p.releaseLocked(c)
		return 0
	}
}

// QueueIMUSample makes s available to GetIMUSample on the device at index.
func (p *Provider) QueueIMUSample(index uint32, s k4a.IMUSample) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(index) >= len(p.devices) || p.devices[index].handle == 0 {
		return false
	}
	select {
	case p.devices[index].samples <- s:
		return true
	default:
		return false
	}
}

// stream produces captures at the configured rate until stop is closed.
// When the queue is full the oldest capture is dropped, as a device does.
func (p *Provider) stream(d *deviceState, stop <-chan struct{}, cfg k4a.DeviceConfiguration) {
	ticker := time.NewTicker(time.Second / time.Duration(cfg.CameraFPS.Hz()))
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		select {
		case <-stop:
			p.mu.Unlock()
			return
		default:
		}
		c := p.syntheticCaptureLocked(cfg, d.seq)
		if d.imu {
			s := syntheticIMUSample(d.seq, cfg.CameraFPS)
			select {
			case d.samples <- s:
			default:
			}
		}
		d.seq++
		for pushed := false; !pushed; {
			select {
			case d.captures <- c:
				pushed = true
			default:
				select {
				case old := <-d.captures:
					p.releaseLocked(old)
				default:
				}
			}
		}
		p.mu.Unlock()
	}
}

func (p *Provider) deviceGetSerialnum(h k4a.DeviceHandle, buf *byte, size *uintptr) k4a.BufferResult {
	if p.call("k4a_device_get_serialnum") {
		return k4a.BufferResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil {
		return k4a.BufferResultFailed
	}
	return fill(append([]byte(d.spec.Serial), 0), buf, size)
}

func (p *Provider) deviceGetRawCalibration(h k4a.DeviceHandle, buf *byte, size *uintptr) k4a.BufferResult {
	if p.call("k4a_device_get_raw_calibration") {
		return k4a.BufferResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil {
		return k4a.BufferResultFailed
	}
	return fill(d.spec.RawCalibration, buf, size)
}

func (p *Provider) deviceGetVersion(h k4a.DeviceHandle, v *k4a.HardwareVersion) k4a.Result {
	if p.call("k4a_device_get_version") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil {
		return k4a.ResultFailed
	}
	*v = d.spec.Version
	return k4a.ResultSucceeded
}

func (p *Provider) deviceGetSyncJack(h k4a.DeviceHandle, in, out *bool) k4a.Result {
	if p.call("k4a_device_get_sync_jack") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil {
		return k4a.ResultFailed
	}
	*in, *out = d.spec.SyncIn, d.spec.SyncOut
	return k4a.ResultSucceeded
}

func (p *Provider) deviceGetCalibration(h k4a.DeviceHandle, depth k4a.DepthMode, color k4a.ColorResolution, cal *k4a.Calibration) k4a.Result {
	if p.call("k4a_device_get_calibration") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deviceLocked(h) == nil || (depth == k4a.DepthModeOff && color == k4a.ColorResolutionOff) {
		return k4a.ResultFailed
	}
	*cal = syntheticCalibration(depth, color)
	return k4a.ResultSucceeded
}

func (p *Provider) deviceGetColorControlCapabilities(h k4a.DeviceHandle, cmd k4a.ColorControlCommand,
	supportsAuto *bool, minValue, maxValue, step, def *int32, mode *k4a.ColorControlMode) k4a.Result {
	if p.call("k4a_device_get_color_control_capabilities") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := colorControlCaps[cmd]
	if p.deviceLocked(h) == nil || !ok {
		return k4a.ResultFailed
	}
	*supportsAuto, *minValue, *maxValue, *step, *def, *mode = c.SupportsAuto, c.Min, c.Max, c.Step, c.Default, c.DefaultMode
	return k4a.ResultSucceeded
}

func (p *Provider) deviceGetColorControl(h k4a.DeviceHandle, cmd k4a.ColorControlCommand, mode *k4a.ColorControlMode, value *int32) k4a.Result {
	if p.call("k4a_device_get_color_control") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	if d == nil {
		return k4a.ResultFailed
	}
	c, ok := d.controls[cmd]
	if !ok {
		return k4a.ResultFailed
	}
	*mode, *value = c.mode, c.value
	return k4a.ResultSucceeded
}

func (p *Provider) deviceSetColorControl(h k4a.DeviceHandle, cmd k4a.ColorControlCommand, mode k4a.ColorControlMode, value int32) k4a.Result {
	if p.call("k4a_device_set_color_control") {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.deviceLocked(h)
	caps, ok := colorControlCaps[cmd]
	if d == nil || !ok {
		return k4a.ResultFailed
	}
	switch mode {
	case k4a.ColorControlModeAuto:
		if !caps.SupportsAuto {
			return k4a.ResultFailed
		}
		value = d.controls[cmd].value
	case k4a.ColorControlModeManual:
		if value < caps.Min || value > caps.Max || (value-caps.Min)%caps.Step != 0 {
			return k4a.ResultFailed
		}
	default:
		return k4a.ResultFailed
	}
	d.controls[cmd] = colorControl{mode: mode, value: value}
	return k4a.ResultSucceeded
}
