package k4a_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/sim"
)

func openStarted(t *testing.T, p *sim.Provider) *k4a.Device {
	t.Helper()
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() { dev.Close() })
	test.That(t, dev.StartCameras(k4a.DefaultDeviceConfiguration), test.ShouldBeNil)
	return dev
}

func TestOpenSecondDeviceFails(t *testing.T) {
	unavailable := sim.DeviceSpec{Serial: "000000000002", Unavailable: true}
	p := sim.New(sim.WithDevices(sim.DefaultDevice(), unavailable))
	api := p.K4A()

	test.That(t, api.InstalledCount(), test.ShouldEqual, uint32(2))

	dev, err := api.OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	defer dev.Close()

	serial, err := dev.SerialNumber()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, serial, test.ShouldEqual, sim.DefaultDevice().Serial)

	other, err := api.OpenDevice(1)
	test.That(t, other, test.ShouldBeNil)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "k4a_device_open")
}

func TestOpenDeviceIsExclusive(t *testing.T) {
	p := sim.New()
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)

	_, err = p.K4A().OpenDevice(0)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)

	test.That(t, dev.Close(), test.ShouldBeNil)
	test.That(t, dev.Close(), test.ShouldBeNil)
	test.That(t, p.Calls("k4a_device_close"), test.ShouldEqual, 1)
	test.That(t, dev.Handle(), test.ShouldEqual, k4a.DeviceHandle(0))

	again, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	again.Close()
}

func TestGetCaptureTimesOutOnEmptyQueue(t *testing.T) {
	p := sim.New()
	dev := openStarted(t, p)

	c, err := dev.GetCapture(0)
	test.That(t, c, test.ShouldBeNil)
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeTrue)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeFalse)
	test.That(t, p.Calls("k4a_capture_release"), test.ShouldEqual, 0)
	test.That(t, p.Live(), test.ShouldEqual, 0)

	start := time.Now()
	_, err = dev.GetCapture(30 * time.Millisecond)
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeTrue)
	test.That(t, time.Since(start), test.ShouldBeGreaterThanOrEqualTo, 30*time.Millisecond)
}

func TestGetCaptureFailureLeaksNothing(t *testing.T) {
	p := sim.New()
	dev := openStarted(t, p)
	p.QueueCapture(0)
	p.Fail("k4a_device_get_capture", 1)

	c, err := dev.GetCapture(time.Second)
	test.That(t, c, test.ShouldBeNil)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeFalse)

	// the queued capture is still there and is the only live capture
	c, err = dev.GetCapture(time.Second)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Close(), test.ShouldBeNil)
	test.That(t, p.Live(), test.ShouldEqual, 0)
}

func TestGetCaptureBeforeStartFails(t *testing.T) {
	p := sim.New()
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	defer dev.Close()

	_, err = dev.GetCapture(0)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
}

func TestGetCaptureReturnsQueuedImages(t *testing.T) {
	p := sim.New()
	dev := openStarted(t, p)
	h := p.QueueCapture(0)
	test.That(t, h, test.ShouldNotEqual, uintptr(0))

	c, err := dev.GetCapture(time.Second)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, uintptr(c.Handle()), test.ShouldEqual, h)
	test.That(t, c.Temperature(), test.ShouldAlmostEqual, 31.5)

	color := c.ColorImage()
	test.That(t, color, test.ShouldNotBeNil)
	test.That(t, color.Format(), test.ShouldEqual, k4a.ImageFormatColorBGRA32)
	test.That(t, color.Width(), test.ShouldEqual, 1280)
	test.That(t, color.Height(), test.ShouldEqual, 720)
	test.That(t, color.Stride(), test.ShouldEqual, 1280*4)
	test.That(t, len(color.Buffer()), test.ShouldEqual, 1280*720*4)

	depth := c.DepthImage()
	test.That(t, depth.Format(), test.ShouldEqual, k4a.ImageFormatDepth16)
	test.That(t, depth.Width(), test.ShouldEqual, 320)
	test.That(t, depth.Height(), test.ShouldEqual, 288)

	ir := c.IRImage()
	test.That(t, ir.Format(), test.ShouldEqual, k4a.ImageFormatIR16)

	// the images outlive the capture they came from
	test.That(t, c.Close(), test.ShouldBeNil)
	test.That(t, depth.Size(), test.ShouldEqual, 320*288*2)

	for _, img := range []*k4a.Image{color, depth, ir} {
		test.That(t, img.Close(), test.ShouldBeNil)
	}
	test.That(t, p.Live(), test.ShouldEqual, 0)
}

func TestInfiniteWaitEndsOnStop(t *testing.T) {
	p := sim.New()
	dev := openStarted(t, p)

	done := make(chan error, 1)
	go func() {
		_, err := dev.GetCapture(k4a.WaitInfinite)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	dev.StopCameras()

	select {
	case err := <-done:
		test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
	case <-time.After(2 * time.Second):
		t.Fatal("GetCapture did not return after StopCameras")
	}
}

func TestIMUSamples(t *testing.T) {
	p := sim.New()
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	defer dev.Close()

	// the IMU needs running cameras
	test.That(t, errors.Is(dev.StartIMU(), k4a.ErrFailed), test.ShouldBeTrue)
	test.That(t, dev.StartCameras(k4a.DefaultDeviceConfiguration), test.ShouldBeNil)
	test.That(t, dev.StartIMU(), test.ShouldBeNil)

	_, err = dev.GetIMUSample(0)
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeTrue)

	want := k4a.IMUSample{Temperature: 30, AccTimestampUsec: 1000, GyroTimestampUsec: 1000}
	want.Acc[1] = -9.81
	test.That(t, p.QueueIMUSample(0, want), test.ShouldBeTrue)

	got, err := dev.GetIMUSample(time.Second)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, want)

	dev.StopCameras()
	test.That(t, p.Calls("k4a_device_stop_imu"), test.ShouldEqual, 1)
	_, err = dev.GetIMUSample(0)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
}

func TestDeviceInfo(t *testing.T) {
	spec := sim.DefaultDevice()
	spec.SyncIn = true
	p := sim.New(sim.WithDevices(spec))
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	defer dev.Close()

	v, err := dev.Version()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.RGB.String(), test.ShouldEqual, "1.6.110")
	test.That(t, v.FirmwareBuild, test.ShouldEqual, k4a.FirmwareBuildRelease)

	in, err := dev.IsSyncInConnected()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, in, test.ShouldBeTrue)
	out, err := dev.IsSyncOutConnected()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldBeFalse)

	raw, err := dev.RawCalibration()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raw, test.ShouldResemble, spec.RawCalibration)

	cal, err := dev.Calibration(k4a.DepthModeNFOVUnbinned, k4a.ColorResolution1080P)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cal.DepthCameraCalibration.ResolutionWidth, test.ShouldEqual, 640)
	test.That(t, cal.ColorCameraCalibration.ResolutionHeight, test.ShouldEqual, 1080)

	fromRaw, err := p.K4A().CalibrationFromRaw(raw, k4a.DepthModeNFOVUnbinned, k4a.ColorResolution1080P)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fromRaw, test.ShouldResemble, cal)

	_, err = p.K4A().CalibrationFromRaw(nil, k4a.DepthModeNFOVUnbinned, k4a.ColorResolution1080P)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)

	_, err = dev.Calibration(k4a.DepthModeOff, k4a.ColorResolutionOff)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
}

func TestColorControls(t *testing.T) {
	p := sim.New()
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	defer dev.Close()

	caps, err := dev.ColorControlCapabilities(k4a.ColorControlBrightness)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, caps.Max, test.ShouldEqual, int32(255))
	test.That(t, caps.SupportsAuto, test.ShouldBeFalse)

	test.That(t, dev.SetColorControl(k4a.ColorControlBrightness, k4a.ColorControlModeManual, 200), test.ShouldBeNil)
	mode, value, err := dev.ColorControl(k4a.ColorControlBrightness)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mode, test.ShouldEqual, k4a.ColorControlModeManual)
	test.That(t, value, test.ShouldEqual, int32(200))

	err = dev.SetColorControl(k4a.ColorControlBrightness, k4a.ColorControlModeManual, 400)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
	err = dev.SetColorControl(k4a.ColorControlBrightness, k4a.ColorControlModeAuto, 0)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
}
