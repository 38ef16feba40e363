package k4a_test

import (
	"math"
	"testing"
	"time"

	"go.viam.com/test"
	"gopkg.in/yaml.v3"

	"github.com/dialup-inc/kinect/k4a"
)

func TestTimeoutMillis(t *testing.T) {
	for _, tc := range []struct {
		d    time.Duration
		want int32
	}{
		{0, 0},
		{999 * time.Microsecond, 0},
		{250 * time.Millisecond, 250},
		{k4a.WaitInfinite, -1},
		{-time.Hour, -1},
		{math.MaxInt64, math.MaxInt32},
	} {
		test.That(t, k4a.TimeoutMillis(tc.d), test.ShouldEqual, tc.want)
	}
}

func TestDeviceConfigurationYAML(t *testing.T) {
	src := `
color_format: nv12
color_resolution: 1080P
depth_mode: WFOV_2X2BINNED
camera_fps: "15"
synchronized_images_only: true
wired_sync_mode: SUBORDINATE
subordinate_delay_off_master_usec: 160
`
	cfg := k4a.DefaultDeviceConfiguration
	test.That(t, yaml.Unmarshal([]byte(src), &cfg), test.ShouldBeNil)
	test.That(t, cfg.ColorFormat, test.ShouldEqual, k4a.ImageFormatColorNV12)
	test.That(t, cfg.ColorResolution, test.ShouldEqual, k4a.ColorResolution1080P)
	test.That(t, cfg.DepthMode, test.ShouldEqual, k4a.DepthModeWFOV2x2Binned)
	test.That(t, cfg.CameraFPS, test.ShouldEqual, k4a.FPS15)
	test.That(t, cfg.CameraFPS.Hz(), test.ShouldEqual, 15)
	test.That(t, cfg.SynchronizedImagesOnly, test.ShouldBeTrue)
	test.That(t, cfg.WiredSyncMode, test.ShouldEqual, k4a.WiredSyncModeSubordinate)
	test.That(t, cfg.SubordinateDelayOffMasterUsec, test.ShouldEqual, uint32(160))

	out, err := yaml.Marshal(k4a.DefaultDeviceConfiguration)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldContainSubstring, "color_format: BGRA32")
	test.That(t, string(out), test.ShouldContainSubstring, "depth_mode: NFOV_2X2BINNED")

	var mode k4a.DepthMode
	err = yaml.Unmarshal([]byte(`"NFOV_4X4"`), &mode)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown depth mode")
}

func TestEnumStrings(t *testing.T) {
	test.That(t, k4a.DepthModePassiveIR.String(), test.ShouldEqual, "PASSIVE_IR")
	test.That(t, k4a.ImageFormat(42).String(), test.ShouldEqual, "ImageFormat(42)")
	_, err := k4a.ImageFormat(42).MarshalText()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, k4a.ResultFailed.String(), test.ShouldEqual, "failed")
	test.That(t, k4a.WaitResultTimeout.String(), test.ShouldEqual, "timeout")
}

func TestModeDimensions(t *testing.T) {
	w, h := k4a.DepthModeWFOV2x2Binned.Dimensions()
	test.That(t, w, test.ShouldEqual, 512)
	test.That(t, h, test.ShouldEqual, 512)
	w, h = k4a.ColorResolution3072P.Dimensions()
	test.That(t, w, test.ShouldEqual, 4096)
	test.That(t, h, test.ShouldEqual, 3072)
	near, far := k4a.DepthModeNFOVUnbinned.Range()
	test.That(t, near, test.ShouldEqual, uint16(500))
	test.That(t, far, test.ShouldEqual, uint16(4000))
	test.That(t, k4a.ImageFormatColorMJPG.Stride(1280), test.ShouldEqual, 0)
	test.That(t, k4a.ImageFormatColorYUY2.Stride(1280), test.ShouldEqual, 2560)
}
