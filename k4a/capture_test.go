package k4a_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/sim"
)

func TestCloseReleasesOnce(t *testing.T) {
	p := sim.New()
	c, err := p.K4A().NewCapture()
	test.That(t, err, test.ShouldBeNil)
	h := uintptr(c.Handle())
	test.That(t, p.Refs(h), test.ShouldEqual, 1)

	test.That(t, c.Close(), test.ShouldBeNil)
	test.That(t, c.Close(), test.ShouldBeNil)
	test.That(t, p.Calls("k4a_capture_release"), test.ShouldEqual, 1)
	test.That(t, c.Handle(), test.ShouldEqual, k4a.CaptureHandle(0))
	test.That(t, c.Clone(), test.ShouldBeNil)
	test.That(t, p.Live(), test.ShouldEqual, 0)
}

func TestCloneRefcount(t *testing.T) {
	p := sim.New()
	c, err := p.K4A().NewCapture()
	test.That(t, err, test.ShouldBeNil)
	h := uintptr(c.Handle())

	const n, m = 5, 3
	clones := make([]*k4a.Capture, n)
	for i := range clones {
		clones[i] = c.Clone()
		test.That(t, uintptr(clones[i].Handle()), test.ShouldEqual, h)
	}
	test.That(t, p.Refs(h), test.ShouldEqual, 1+n)

	for _, cl := range clones[:m] {
		cl.Close()
	}
	test.That(t, p.Refs(h), test.ShouldEqual, 1+n-m)

	c.Close()
	for _, cl := range clones[m:] {
		cl.Close()
	}
	test.That(t, p.Refs(h), test.ShouldEqual, 0)
	test.That(t, p.Calls("k4a_capture_release"), test.ShouldEqual, 1+n)
}

func TestConcurrentCloseReleasesOnce(t *testing.T) {
	p := sim.New()
	img, err := p.K4A().NewImage(k4a.ImageFormatDepth16, 4, 4, 0)
	test.That(t, err, test.ShouldBeNil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img.Close()
		}()
	}
	wg.Wait()
	test.That(t, p.Calls("k4a_image_release"), test.ShouldEqual, 1)
	test.That(t, p.Live(), test.ShouldEqual, 0)
}

func TestCaptureOwnsAttachedImages(t *testing.T) {
	p := sim.New()
	api := p.K4A()
	c, err := api.NewCapture()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.DepthImage(), test.ShouldBeNil)
	test.That(t, math.IsNaN(float64(c.Temperature())), test.ShouldBeTrue)

	depth, err := api.NewImage(k4a.ImageFormatDepth16, 320, 288, 0)
	test.That(t, err, test.ShouldBeNil)
	dh := uintptr(depth.Handle())

	c.SetDepthImage(depth)
	test.That(t, p.Refs(dh), test.ShouldEqual, 2)
	depth.Close()
	test.That(t, p.Refs(dh), test.ShouldEqual, 1)

	got := c.DepthImage()
	test.That(t, uintptr(got.Handle()), test.ShouldEqual, dh)
	test.That(t, got.Stride(), test.ShouldEqual, 640)
	got.Close()

	c.SetTemperature(28.25)
	test.That(t, c.Temperature(), test.ShouldAlmostEqual, 28.25)

	// detaching drops the capture's reference
	c.SetDepthImage(nil)
	test.That(t, p.Refs(dh), test.ShouldEqual, 0)
	test.That(t, c.DepthImage(), test.ShouldBeNil)

	ir, err := api.NewImage(k4a.ImageFormatIR16, 320, 288, 0)
	test.That(t, err, test.ShouldBeNil)
	c.SetIRImage(ir)
	ir.Close()
	c.Close()
	test.That(t, p.Live(), test.ShouldEqual, 0)
}

func TestImageMetadata(t *testing.T) {
	p := sim.New()
	img, err := p.K4A().NewImage(k4a.ImageFormatColorBGRA32, 8, 2, 0)
	test.That(t, err, test.ShouldBeNil)
	defer img.Close()

	test.That(t, img.Stride(), test.ShouldEqual, 32)
	test.That(t, img.Size(), test.ShouldEqual, 64)

	img.SetDeviceTimestamp(1500 * time.Microsecond)
	img.SetSystemTimestamp(42 * time.Nanosecond)
	img.SetExposure(8 * time.Millisecond)
	img.SetWhiteBalance(4500)
	img.SetISOSpeed(400)

	test.That(t, img.DeviceTimestamp(), test.ShouldEqual, 1500*time.Microsecond)
	test.That(t, img.SystemTimestamp(), test.ShouldEqual, 42*time.Nanosecond)
	test.That(t, img.Exposure(), test.ShouldEqual, 8*time.Millisecond)
	test.That(t, img.WhiteBalance(), test.ShouldEqual, uint32(4500))
	test.That(t, img.ISOSpeed(), test.ShouldEqual, uint32(400))

	// Buffer is a view, not a copy
	img.Buffer()[3] = 0x7f
	test.That(t, img.Buffer()[3], test.ShouldEqual, byte(0x7f))

	clone := img.Clone()
	test.That(t, clone.Buffer()[3], test.ShouldEqual, byte(0x7f))
	clone.Close()
}

func TestNewImageFailures(t *testing.T) {
	p := sim.New()
	api := p.K4A()

	_, err := api.NewImage(k4a.ImageFormatColorMJPG, 16, 16, 0)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)

	p.Fail("k4a_image_create", 1)
	_, err = api.NewImage(k4a.ImageFormatDepth16, 16, 16, 0)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)

	img, err := api.NewImageFromBytes(k4a.ImageFormatCustom8, 2, 2, 0, []byte{1, 2, 3, 4})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Buffer(), test.ShouldResemble, []byte{1, 2, 3, 4})
	img.Close()

	_, err = api.NewImageFromBytes(k4a.ImageFormatCustom8, 2, 2, 0, []byte{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, p.Live(), test.ShouldEqual, 0)
}
