package k4abt_test

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
	"github.com/dialup-inc/kinect/sim"
)

// setup opens a started device and a tracker for its calibration.
func setup(t *testing.T, p *sim.Provider) (*k4a.Device, *k4abt.Tracker) {
	t.Helper()
	cfg := k4a.DefaultDeviceConfiguration
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() { dev.Close() })
	test.That(t, dev.StartCameras(cfg), test.ShouldBeNil)

	cal, err := dev.Calibration(cfg.DepthMode, cfg.ColorResolution)
	test.That(t, err, test.ShouldBeNil)
	tr, err := p.Tracking().NewTracker(cal, k4abt.DefaultTrackerConfiguration)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() { tr.Close() })
	return dev, tr
}

func capture(t *testing.T, p *sim.Provider, dev *k4a.Device) *k4a.Capture {
	t.Helper()
	p.QueueCapture(0)
	c, err := dev.GetCapture(time.Second)
	test.That(t, err, test.ShouldBeNil)
	return c
}

func TestTwoBodies(t *testing.T) {
	p := sim.New(sim.WithBodies(2))
	dev, tr := setup(t, p)

	c := capture(t, p, dev)
	test.That(t, tr.EnqueueCapture(c, k4a.WaitInfinite), test.ShouldBeNil)
	test.That(t, c.Close(), test.ShouldBeNil)

	frame, err := tr.PopResult(k4a.WaitInfinite)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.NumBodies(), test.ShouldEqual, 2)

	bodies, err := frame.Bodies()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.Close(), test.ShouldBeNil)
	test.That(t, frame.Close(), test.ShouldBeNil)
	test.That(t, p.Calls("k4abt_frame_release"), test.ShouldEqual, 1)

	// the copies outlive the frame
	test.That(t, len(bodies), test.ShouldEqual, 2)
	test.That(t, bodies[0].ID, test.ShouldEqual, uint32(1))
	test.That(t, bodies[1].ID, test.ShouldEqual, uint32(2))
	pelvis := bodies[1].Skeleton.Joint(k4abt.JointPelvis)
	test.That(t, pelvis.ConfidenceLevel, test.ShouldEqual, k4abt.JointConfidenceMedium)
	test.That(t, pelvis.Orientation, test.ShouldResemble, mgl32.QuatIdent())
	test.That(t, bodies[0].Skeleton.Joints[k4abt.JointHead].Position.Z(), test.ShouldAlmostEqual, 2000)

	test.That(t, p.Live(), test.ShouldEqual, 0)
}

func TestFrameHoldsCaptureAndIndexMap(t *testing.T) {
	p := sim.New(sim.WithBodies(2))
	dev, tr := setup(t, p)

	c := capture(t, p, dev)
	ch := c.Handle()
	depth := c.DepthImage()
	ts := depth.DeviceTimestamp()
	depth.Close()

	test.That(t, tr.EnqueueCapture(c, time.Second), test.ShouldBeNil)
	c.Close()

	frame, err := tr.PopResult(time.Second)
	test.That(t, err, test.ShouldBeNil)
	defer frame.Close()
	test.That(t, frame.DeviceTimestamp(), test.ShouldEqual, ts)
	test.That(t, frame.BodyID(7), test.ShouldEqual, uint32(k4abt.InvalidBodyID))
	_, err = frame.Body(7)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)

	got := frame.Capture()
	test.That(t, got.Handle(), test.ShouldEqual, ch)
	test.That(t, p.Refs(uintptr(ch)), test.ShouldEqual, 2)
	got.Close()
	test.That(t, p.Refs(uintptr(ch)), test.ShouldEqual, 1)

	m := frame.BodyIndexMap()
	test.That(t, m, test.ShouldNotBeNil)
	defer m.Close()
	test.That(t, m.Format(), test.ShouldEqual, k4a.ImageFormatCustom8)
	w, h := k4a.DefaultDeviceConfiguration.DepthMode.Dimensions()
	test.That(t, m.Width(), test.ShouldEqual, w)
	test.That(t, m.Height(), test.ShouldEqual, h)

	seen := map[byte]bool{}
	for _, v := range m.Buffer() {
		seen[v] = true
	}
	test.That(t, seen[k4abt.BodyIndexMapBackground], test.ShouldBeTrue)
	test.That(t, seen[0], test.ShouldBeTrue)
	test.That(t, seen[1], test.ShouldBeTrue)
	test.That(t, seen[2], test.ShouldBeFalse)
}

func TestPopTimesOut(t *testing.T) {
	p := sim.New()
	_, tr := setup(t, p)

	frame, err := tr.PopResult(0)
	test.That(t, frame, test.ShouldBeNil)
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeTrue)

	_, err = tr.PopResult(20 * time.Millisecond)
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeTrue)
	test.That(t, p.Calls("k4abt_frame_release"), test.ShouldEqual, 0)
}

func TestEnqueueTimesOutWhenFull(t *testing.T) {
	p := sim.New()
	dev, tr := setup(t, p)

	c := capture(t, p, dev)
	defer c.Close()
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		err = tr.EnqueueCapture(c, 0)
	}
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeTrue)

	// results come out in order, and there is room again afterwards
	f, err := tr.PopResult(0)
	test.That(t, err, test.ShouldBeNil)
	f.Close()
	test.That(t, tr.EnqueueCapture(c, 0), test.ShouldBeNil)
}

func TestEnqueueWithoutDepthFails(t *testing.T) {
	p := sim.New()
	_, tr := setup(t, p)

	c, err := p.K4A().NewCapture()
	test.That(t, err, test.ShouldBeNil)
	defer c.Close()
	err = tr.EnqueueCapture(c, 0)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
	test.That(t, errors.Is(err, k4a.ErrTimedOut), test.ShouldBeFalse)
}

func TestShutdownUnblocksPop(t *testing.T) {
	p := sim.New()
	dev, tr := setup(t, p)

	c := capture(t, p, dev)
	test.That(t, tr.EnqueueCapture(c, 0), test.ShouldBeNil)
	c.Close()

	done := make(chan error, 1)
	go func() {
		// the queued result comes first, then the blocked pop
		f, err := tr.PopResult(k4a.WaitInfinite)
		if err == nil {
			f.Close()
			_, err = tr.PopResult(k4a.WaitInfinite)
		}
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	tr.Shutdown()
	select {
	case err := <-done:
		test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
	case <-time.After(2 * time.Second):
		t.Fatal("PopResult did not return after Shutdown")
	}

	c = capture(t, p, dev)
	defer c.Close()
	test.That(t, errors.Is(tr.EnqueueCapture(c, 0), k4a.ErrFailed), test.ShouldBeTrue)
}

func TestCloseShutsDownAndDestroys(t *testing.T) {
	p := sim.New()
	dev, tr := setup(t, p)

	tr.SetTemporalSmoothing(0.5)
	test.That(t, p.Smoothing(tr.Handle()), test.ShouldAlmostEqual, 0.5)

	// a result nobody popped is released by destroy
	c := capture(t, p, dev)
	test.That(t, tr.EnqueueCapture(c, 0), test.ShouldBeNil)
	c.Close()

	test.That(t, tr.Close(), test.ShouldBeNil)
	test.That(t, tr.Close(), test.ShouldBeNil)
	test.That(t, p.Calls("k4abt_tracker_shutdown"), test.ShouldEqual, 1)
	test.That(t, p.Calls("k4abt_tracker_destroy"), test.ShouldEqual, 1)
	test.That(t, tr.Handle(), test.ShouldEqual, k4abt.TrackerHandle(0))
	test.That(t, p.Live(), test.ShouldEqual, 0)
}

func TestNewTrackerFails(t *testing.T) {
	p := sim.New()
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	defer dev.Close()

	cal, err := dev.Calibration(k4a.DepthModePassiveIR, k4a.ColorResolutionOff)
	test.That(t, err, test.ShouldBeNil)
	tr, err := p.Tracking().NewTracker(cal, k4abt.DefaultTrackerConfiguration)
	test.That(t, tr, test.ShouldBeNil)
	test.That(t, errors.Is(err, k4a.ErrFailed), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "k4abt_tracker_create")
}
