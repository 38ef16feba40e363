package pixel_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/pixel"
	"github.com/dialup-inc/kinect/sim"
)

func TestFromBGRA32(t *testing.T) {
	// 2x1 with a padded stride
	frame := []byte{
		10, 20, 30, 255, 1, 2, 3, 128, 0, 0, 0, 0,
	}
	img, err := pixel.FromBGRA32(frame, 2, 1, 12)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.RGBAAt(0, 0), test.ShouldResemble, color.RGBA{R: 30, G: 20, B: 10, A: 255})
	test.That(t, img.RGBAAt(1, 0), test.ShouldResemble, color.RGBA{R: 3, G: 2, B: 1, A: 128})

	_, err = pixel.FromBGRA32(frame[:4], 2, 1, 8)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldEqual, "frame length (4) less than expected (8)")
}

func TestFromNV12(t *testing.T) {
	frame := []byte{
		1, 2, 3, 4, // Y row 0
		5, 6, 7, 8, // Y row 1
		100, 200, 101, 201, // CbCr
	}
	img, err := pixel.FromNV12(frame, 4, 2, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 2))
	test.That(t, img.YCbCrAt(3, 1), test.ShouldResemble, color.YCbCr{Y: 8, Cb: 101, Cr: 201})
	test.That(t, img.YCbCrAt(0, 1), test.ShouldResemble, color.YCbCr{Y: 5, Cb: 100, Cr: 200})

	_, err = pixel.FromNV12(frame[:8], 4, 2, 4)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromYUY2(t *testing.T) {
	frame := []byte{10, 100, 20, 200, 30, 101, 40, 201}
	img, err := pixel.FromYUY2(frame, 4, 1, 8)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.YCbCrAt(1, 0), test.ShouldResemble, color.YCbCr{Y: 20, Cb: 100, Cr: 200})
	test.That(t, img.YCbCrAt(2, 0), test.ShouldResemble, color.YCbCr{Y: 30, Cb: 101, Cr: 201})
}

func TestFromGray16IsLittleEndian(t *testing.T) {
	img, err := pixel.FromGray16([]byte{0x34, 0x12, 0xff, 0x00}, 2, 1, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Gray16At(0, 0).Y, test.ShouldEqual, 0x1234)
	test.That(t, img.Gray16At(1, 0).Y, test.ShouldEqual, 0xff)
}

func TestFromMJPG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 8))
	var buf bytes.Buffer
	test.That(t, jpeg.Encode(&buf, src, nil), test.ShouldBeNil)

	img, err := pixel.FromMJPG(buf.Bytes())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds(), test.ShouldResemble, src.Bounds())

	_, err = pixel.FromMJPG([]byte("not a jpeg"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDecode(t *testing.T) {
	p := sim.New()
	api := p.K4A()

	depth, err := api.NewImageFromBytes(k4a.ImageFormatDepth16, 2, 2, 0, []byte{1, 0, 2, 0, 3, 0, 0xe8, 0x03})
	test.That(t, err, test.ShouldBeNil)
	img, err := pixel.Decode(depth)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, depth.Close(), test.ShouldBeNil)

	gray, ok := img.(*image.Gray16)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, gray.Gray16At(1, 1).Y, test.ShouldEqual, 1000)

	mask, err := api.NewImageFromBytes(k4a.ImageFormatCustom8, 2, 1, 0, []byte{0, 255})
	test.That(t, err, test.ShouldBeNil)
	img, err = pixel.Decode(mask)
	test.That(t, err, test.ShouldBeNil)
	copy(mask.Buffer(), []byte{9, 9})
	test.That(t, img.(*image.Gray).GrayAt(1, 0).Y, test.ShouldEqual, 255)
	mask.Close()

	custom, err := api.NewImage(k4a.ImageFormatCustom, 4, 4, 4)
	test.That(t, err, test.ShouldBeNil)
	defer custom.Close()
	_, err = pixel.Decode(custom)
	test.That(t, errors.Is(err, pixel.ErrUnsupportedFormat), test.ShouldBeTrue)

	_, err = pixel.Decode(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDecodeSyntheticColor(t *testing.T) {
	p := sim.New(sim.WithDevices(sim.DefaultDevice()))
	dev, err := p.K4A().OpenDevice(0)
	test.That(t, err, test.ShouldBeNil)
	defer dev.Close()

	cfg := k4a.DeviceConfiguration{
		ColorFormat:     k4a.ImageFormatColorBGRA32,
		ColorResolution: k4a.ColorResolution720P,
		DepthMode:       k4a.DepthModeNFOV2x2Binned,
		CameraFPS:       k4a.FPS30,
	}
	test.That(t, dev.StartCameras(cfg), test.ShouldBeNil)
	defer dev.StopCameras()

	p.QueueCapture(0)
	c, err := dev.GetCapture(k4a.WaitInfinite)
	test.That(t, err, test.ShouldBeNil)
	defer c.Close()

	colorImg := c.ColorImage()
	test.That(t, colorImg, test.ShouldNotBeNil)
	defer colorImg.Close()
	img, err := pixel.Decode(colorImg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 1280, 720))
	_, _, _, a := img.At(10, 10).RGBA()
	test.That(t, a, test.ShouldEqual, 0xffff)
}

func TestNormalize16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 4, 1))
	for x, v := range []uint16{0, 500, 750, 5000} {
		src.SetGray16(x, 0, color.Gray16{Y: v})
	}
	dst := pixel.Normalize16(src, 500, 1000)
	test.That(t, dst.Pix, test.ShouldResemble, []byte{0, 0, 127, 255})

	// an empty range does not divide by zero
	dst = pixel.Normalize16(src, 100, 100)
	test.That(t, dst.Pix, test.ShouldResemble, []byte{0, 255, 255, 255})
}
