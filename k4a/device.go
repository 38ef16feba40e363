package k4a

import (
	"time"

	"github.com/dialup-inc/kinect/native"
)

// Device is an open device. It is exclusive and not safe for concurrent use,
// except that StopCameras may be called from another goroutine to unblock a
// pending GetCapture.
type Device struct {
	api *API
	h   *native.Handle
}

// Handle returns the native handle, or 0 after Close.
func (d *Device) Handle() DeviceHandle { return DeviceHandle(d.h.Load()) }

// API returns the library the device was opened with.
func (d *Device) API() *API { return d.api }

// Close closes the device. Calling it again does nothing.
func (d *Device) Close() error {
	if h := DeviceHandle(d.h.Take()); h != 0 {
		d.api.fn.DeviceClose(h)
	}
	return nil
}

// StartCameras starts the color and depth streams described by cfg.
func (d *Device) StartCameras(cfg DeviceConfiguration) error {
	return d.api.fn.DeviceStartCameras(d.Handle(), &cfg).Err("k4a_device_start_cameras")
}

// StopCameras stops the camera streams and the IMU.
func (d *Device) StopCameras() {
	d.api.fn.DeviceStopIMU(d.Handle())
	d.api.fn.DeviceStopCameras(d.Handle())
}

// StartIMU starts the IMU stream. The cameras must be running.
func (d *Device) StartIMU() error {
	return d.api.fn.DeviceStartIMU(d.Handle()).Err("k4a_device_start_imu")
}

// StopIMU stops the IMU stream.
func (d *Device) StopIMU() {
	d.api.fn.DeviceStopIMU(d.Handle())
}

// GetCapture waits up to timeout for the next capture. It returns
// ErrTimedOut if none arrived and ErrFailed if the device failed; in both
// cases no capture is returned.
func (d *Device) GetCapture(timeout time.Duration) (*Capture, error) {
	var h CaptureHandle
	if err := d.api.fn.DeviceGetCapture(d.Handle(), &h, TimeoutMillis(timeout)).Err("k4a_device_get_capture"); err != nil {
		return nil, err
	}
	return d.api.WrapCapture(h), nil
}

// GetIMUSample waits up to timeout for the next IMU sample.
func (d *Device) GetIMUSample(timeout time.Duration) (IMUSample, error) {
	var s IMUSample
	err := d.api.fn.DeviceGetIMUSample(d.Handle(), &s, TimeoutMillis(timeout)).Err("k4a_device_get_imu_sample")
	return s, err
}

// SerialNumber returns the device serial number.
func (d *Device) SerialNumber() (string, error) {
	h := d.Handle()
	return FetchString(func(buf *byte, size *uintptr) BufferResult {
		return d.api.fn.DeviceGetSerialnum(h, buf, size)
	})
}

// RawCalibration returns the device's calibration blob.
func (d *Device) RawCalibration() ([]byte, error) {
	h := d.Handle()
	return FetchBytes(func(buf *byte, size *uintptr) BufferResult {
		return d.api.fn.DeviceGetRawCalibration(h, buf, size)
	})
}

// Calibration returns the calibration for a depth mode and color resolution.
func (d *Device) Calibration(depth DepthMode, color ColorResolution) (Calibration, error) {
	var cal Calibration
	err := d.api.fn.DeviceGetCalibration(d.Handle(), depth, color, &cal).Err("k4a_device_get_calibration")
	return cal, err
}

// Version returns the hardware and firmware versions.
func (d *Device) Version() (HardwareVersion, error) {
	var v HardwareVersion
	err := d.api.fn.DeviceGetVersion(d.Handle(), &v).Err("k4a_device_get_version")
	return v, err
}

// SyncJack reports whether cables are plugged into the sync in and sync out
// jacks.
func (d *Device) SyncJack() (syncIn, syncOut bool, err error) {
	err = d.api.fn.DeviceGetSyncJack(d.Handle(), &syncIn, &syncOut).Err("k4a_device_get_sync_jack")
	return syncIn, syncOut, err
}

// IsSyncInConnected reports whether the sync in jack is connected.
func (d *Device) IsSyncInConnected() (bool, error) {
	in, _, err := d.SyncJack()
	return in, err
}

// IsSyncOutConnected reports whether the sync out jack is connected.
func (d *Device) IsSyncOutConnected() (bool, error) {
	_, out, err := d.SyncJack()
	return out, err
}

// ColorControl returns a color control's current mode and value.
func (d *Device) ColorControl(cmd ColorControlCommand) (ColorControlMode, int32, error) {
	var (
		mode  ColorControlMode
		value int32
	)
	err := d.api.fn.DeviceGetColorControl(d.Handle(), cmd, &mode, &value).Err("k4a_device_get_color_control")
	return mode, value, err
}

// SetColorControl sets a color control. value is ignored in auto mode.
func (d *Device) SetColorControl(cmd ColorControlCommand, mode ColorControlMode, value int32) error {
	return d.api.fn.DeviceSetColorControl(d.Handle(), cmd, mode, value).Err("k4a_device_set_color_control")
}

// ColorControlCapabilities returns the range and defaults of a color control.
func (d *Device) ColorControlCapabilities(cmd ColorControlCommand) (ColorControlCapabilities, error) {
	var c ColorControlCapabilities
	err := d.api.fn.DeviceGetColorControlCapabilities(d.Handle(), cmd,
		&c.SupportsAuto, &c.Min, &c.Max, &c.Step, &c.Default, &c.DefaultMode).
		Err("k4a_device_get_color_control_capabilities")
	return c, err
}
