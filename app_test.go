package kinect

import (
	"bytes"
	"context"
	"image"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/sim"
	"github.com/dialup-inc/kinect/ui"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestViewerStreamsDevice(t *testing.T) {
	p := sim.New(sim.WithDevices(sim.DefaultDevice()), sim.WithStreaming())

	var out bytes.Buffer
	a := NewApp(p.K4A(), 0, k4a.DefaultDeviceConfiguration, &out)
	a.Timeout = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.watchDevice(ctx) }()

	r := a.Renderer()
	waitFor(t, "captures", func() bool {
		return r.GetState().Status.Stats.Captures >= 3
	})
	s := r.GetState()
	test.That(t, s.Page, test.ShouldEqual, ui.ViewPage)
	test.That(t, s.Status.Serial, test.ShouldEqual, "000123192912")
	_, isColor := s.Image.(*image.RGBA)
	test.That(t, isColor, test.ShouldBeTrue)

	a.onKeypress('d')
	waitFor(t, "depth frame", func() bool {
		_, ok := r.GetState().Image.(*image.Gray)
		return ok
	})
	test.That(t, r.GetState().Mode, test.ShouldEqual, ui.DepthMode)

	cancel()
	test.That(t, <-done, test.ShouldBeNil)
	test.That(t, p.Live(), test.ShouldEqual, 0)
	test.That(t, p.Calls("k4a_device_stop_cameras"), test.ShouldEqual, 1)
	test.That(t, p.Calls("k4a_device_close"), test.ShouldEqual, 1)
}

func TestViewerRetriesUnavailableDevice(t *testing.T) {
	spec := sim.DefaultDevice()
	spec.Unavailable = true
	p := sim.New(sim.WithDevices(spec))

	a := NewApp(p.K4A(), 0, k4a.DefaultDeviceConfiguration, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.watchDevice(ctx) }()

	waitFor(t, "error message", func() bool {
		for _, m := range a.Renderer().GetState().Messages {
			if m.Level == ui.LogLevelError && strings.HasPrefix(m.Text, "device error:") {
				return true
			}
		}
		return false
	})
	test.That(t, a.Renderer().GetState().Page, test.ShouldEqual, ui.WaitingPage)

	cancel()
	test.That(t, <-done, test.ShouldBeNil)
}

func TestKeypressQuits(t *testing.T) {
	a := NewApp(sim.New().K4A(), 0, k4a.DefaultDeviceConfiguration, &bytes.Buffer{})
	ctx, err := a.start(context.Background())
	test.That(t, err, test.ShouldBeNil)

	_, err = a.start(context.Background())
	test.That(t, err, test.ShouldNotBeNil)

	a.onKeypress('x')
	test.That(t, ctx.Err(), test.ShouldBeNil)
	a.onKeypress(3)
	test.That(t, ctx.Err(), test.ShouldNotBeNil)
}

func TestDisplayImage(t *testing.T) {
	p := sim.New()
	api := p.K4A()
	c, err := api.NewCapture()
	test.That(t, err, test.ShouldBeNil)
	defer c.Close()

	img, err := displayImage(c, ui.ColorMode, k4a.DepthModeNFOVUnbinned)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img, test.ShouldBeNil)

	depth, err := api.NewImageFromBytes(k4a.ImageFormatDepth16, 2, 1, 0, []byte{0xf4, 0x01, 0xa0, 0x0f})
	test.That(t, err, test.ShouldBeNil)
	c.SetDepthImage(depth)
	depth.Close()

	img, err = displayImage(c, ui.DepthMode, k4a.DepthModeNFOVUnbinned)
	test.That(t, err, test.ShouldBeNil)
	gray, ok := img.(*image.Gray)
	test.That(t, ok, test.ShouldBeTrue)
	// 500mm and 4000mm are the ends of the unbinned narrow range
	test.That(t, gray.Pix, test.ShouldResemble, []byte{0, 255})
}
